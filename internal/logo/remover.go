package logo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"time"
)

// Remover strips the background from an image and returns PNG bytes.
type Remover interface {
	RemoveBackground(ctx context.Context, img image.Image) ([]byte, error)
}

// KeyRemover clears pixels connected to the image border whose colour is
// within Tolerance of the top-left pixel. Interior regions of the same
// colour are kept.
type KeyRemover struct {
	Tolerance int // Max Euclidean RGB distance, 0-441.
}

func (k KeyRemover) RemoveBackground(ctx context.Context, img image.Image) ([]byte, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("empty image")
	}
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}

	key := out.NRGBAAt(b.Min.X, b.Min.Y)
	tol := k.Tolerance * k.Tolerance
	matches := func(c color.NRGBA) bool {
		dr := int(c.R) - int(key.R)
		dg := int(c.G) - int(key.G)
		db := int(c.B) - int(key.B)
		return c.A != 0 && dr*dr+dg*dg+db*db <= tol
	}

	// Flood fill from every border pixel.
	var stack []image.Point
	push := func(x, y int) {
		if matches(out.NRGBAAt(x, y)) {
			out.SetNRGBA(x, y, color.NRGBA{})
			stack = append(stack, image.Pt(x, y))
		}
	}
	for x := b.Min.X; x < b.Max.X; x++ {
		push(x, b.Min.Y)
		push(x, b.Max.Y-1)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		push(b.Min.X, y)
		push(b.Max.X-1, y)
	}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range [...]image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			q := p.Add(d)
			if q.In(b) {
				push(q.X, q.Y)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// HTTPRemover sends the image as PNG to a remote background-removal
// service and returns the response body.
type HTTPRemover struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

func NewHTTPRemover(url, apiKey string, timeout time.Duration) *HTTPRemover {
	return &HTTPRemover{
		url:    url,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (h *HTTPRemover) RemoveBackground(ctx context.Context, img image.Image) ([]byte, error) {
	var body bytes.Buffer
	if err := png.Encode(&body, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "image/png")
	req.Header.Set("Accept", "image/png")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remove background: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remove background: status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}
	if len(respBody) > maxImageBytes {
		return nil, fmt.Errorf("response exceeds %d bytes", maxImageBytes)
	}
	if len(respBody) == 0 {
		return nil, errors.New("remove background: empty response")
	}
	return respBody, nil
}

// Close releases idle connections.
func (h *HTTPRemover) Close() {
	h.httpClient.CloseIdleConnections()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
