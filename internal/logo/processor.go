// Package logo fetches the site logo once at startup and strips its
// background, falling back to the original URL on any failure.
package logo

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Source fetches raw image bytes.
type Source interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Status is a JSON-safe view of the processor state.
type Status struct {
	Processing bool   `json:"processing"`
	Processed  bool   `json:"processed"`
	URL        string `json:"url"`
	Error      string `json:"error,omitempty"`
}

// Processor runs the fetch, decode and background-removal pipeline once.
// It owns its state; readers only see snapshots.
type Processor struct {
	url     string
	source  Source
	remover Remover
	log     *slog.Logger

	mu         sync.Mutex
	processing bool
	image      []byte
	errMsg     string
	done       chan struct{}
}

func NewProcessor(url string, source Source, remover Remover, log *slog.Logger) *Processor {
	return &Processor{
		url:     url,
		source:  source,
		remover: remover,
		log:     log,
		done:    make(chan struct{}),
	}
}

// Start launches the pipeline in its own goroutine and returns at once.
func (p *Processor) Start(ctx context.Context) {
	p.mu.Lock()
	p.processing = true
	p.mu.Unlock()

	go func() {
		defer close(p.done)
		p.run(ctx)
	}()
}

// Wait blocks until the pipeline finishes or ctx is done.
func (p *Processor) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Processor) run(ctx context.Context) {
	start := time.Now()
	log := p.log.With("url", p.url)

	img, err := p.process(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.processing = false
	if err != nil {
		// Fallback is the original URL, which Status already reports.
		log.Error("failed to process logo", "error", err)
		p.errMsg = err.Error()
		return
	}
	p.image = img
	log.Info("logo processed", "bytes", len(img), "duration_ms", time.Since(start).Milliseconds())
}

func (p *Processor) process(ctx context.Context) ([]byte, error) {
	data, err := p.source.Fetch(ctx, p.url)
	if err != nil {
		return nil, err
	}
	img, err := Load(data)
	if err != nil {
		return nil, err
	}
	out, err := p.remover.RemoveBackground(ctx, img)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("background remover returned no image")
	}
	return out, nil
}

// Image returns the processed PNG, if any.
func (p *Processor) Image() ([]byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.image, len(p.image) > 0
}

// Status reports progress. URL is the original image until a processed
// image is available, then it is processedPath.
func (p *Processor) Status(processedPath string) Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := Status{
		Processing: p.processing,
		Processed:  len(p.image) > 0,
		URL:        p.url,
		Error:      p.errMsg,
	}
	if st.Processed {
		st.URL = processedPath
	}
	return st
}

// FallbackURL is the unprocessed image location.
func (p *Processor) FallbackURL() string {
	return p.url
}
