package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/outlinemd/internal/config"
	"github.com/dgallion1/outlinemd/internal/logo"
	"github.com/dgallion1/outlinemd/internal/stats"
)

func testConfig() config.Config {
	return config.Config{
		Port:           "8090",
		MaxInputBytes:  1 << 16,
		MaxUploadBytes: 1 << 16,
		LogoURL:        config.DefaultLogoURL,
		StatsWindow:    time.Hour,
	}
}

func newTestServer(lp *logo.Processor) *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(lp, stats.NewLatency(time.Hour), log, testConfig())
}

func postJSON(t *testing.T, s *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestIndex(t *testing.T) {
	s := newTestServer(nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"Markdown Converter", `src="/api/logo"`, "/api/convert"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
}

func TestConvert(t *testing.T) {
	s := newTestServer(nil)
	w := postJSON(t, s, "/api/convert", `{"input":"1. Introduction\n1.1 Overview\n2. Scope"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp convertResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := "**1. Introduction**\n\n1.1 Overview\n\n**2. Scope**"
	if resp.Output != want {
		t.Errorf("expected output %q, got %q", want, resp.Output)
	}
	if resp.Notice != nil {
		t.Errorf("expected no notice, got %+v", resp.Notice)
	}

	snap := s.stats.Snapshot()
	if snap.Count != 1 {
		t.Errorf("expected 1 recorded conversion, got %d", snap.Count)
	}
}

func TestConvert_Linkifies(t *testing.T) {
	s := newTestServer(nil)
	w := postJSON(t, s, "/api/convert", `{"input":"Mail bob@example.com"}`)
	var resp convertResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := "**Mail [bob@example.com](mailto:bob@example.com)**"
	if resp.Output != want {
		t.Errorf("expected output %q, got %q", want, resp.Output)
	}
}

func TestConvert_BadRequests(t *testing.T) {
	s := newTestServer(nil)
	tests := []struct {
		name string
		body string
		code int
	}{
		{"empty body", "", http.StatusBadRequest},
		{"invalid json", "{not json", http.StatusBadRequest},
		{"too large", `{"input":"` + strings.Repeat("a", 1<<17) + `"}`, http.StatusRequestEntityTooLarge},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, s, "/api/convert", tc.body)
			if w.Code != tc.code {
				t.Errorf("expected %d, got %d: %s", tc.code, w.Code, w.Body.String())
			}
		})
	}
}

func TestClear(t *testing.T) {
	s := newTestServer(nil)
	w := postJSON(t, s, "/api/clear", `{}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp convertResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Output != "" || resp.Input != "" {
		t.Errorf("expected empty text, got %+v", resp)
	}
	if resp.Notice == nil || resp.Notice.Title != "Cleared" {
		t.Errorf("expected Cleared notice, got %+v", resp.Notice)
	}
}

func TestPreview(t *testing.T) {
	s := newTestServer(nil)
	w := postJSON(t, s, "/api/preview", `{"markdown":"**1. Intro**\n\n1.1 Overview"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp previewResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(resp.HTML, "<strong>1. Intro</strong>") {
		t.Errorf("unexpected html: %s", resp.HTML)
	}
	if len(resp.Headings) != 1 || resp.Headings[0] != "1. Intro" {
		t.Errorf("expected headings [1. Intro], got %v", resp.Headings)
	}
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte(content))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpload(t *testing.T) {
	s := newTestServer(nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, uploadRequest(t, "../notes.txt", "Plan\r\n1. Goals\r\n1.1 Ship it"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp uploadResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Filename != "notes.txt" {
		t.Errorf("expected sanitized filename, got %q", resp.Filename)
	}
	want := "**Plan**\n\n**1. Goals**\n\n1.1 Ship it"
	if resp.Output != want {
		t.Errorf("expected output %q, got %q", want, resp.Output)
	}
}

func TestUpload_Rejects(t *testing.T) {
	s := newTestServer(nil)
	tests := []struct {
		name     string
		filename string
		content  string
		code     int
	}{
		{"unsupported extension", "data.csv", "a,b", http.StatusBadRequest},
		{"too large", "big.txt", strings.Repeat("x", 1<<16+1), http.StatusRequestEntityTooLarge},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			s.ServeHTTP(w, uploadRequest(t, tc.filename, tc.content))
			if w.Code != tc.code {
				t.Errorf("expected %d, got %d: %s", tc.code, w.Code, w.Body.String())
			}
		})
	}
}

func TestLogo_DisabledRedirects(t *testing.T) {
	s := newTestServer(nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/logo", nil))
	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != config.DefaultLogoURL {
		t.Errorf("expected redirect to %q, got %q", config.DefaultLogoURL, loc)
	}

	w = httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/logo/status", nil))
	var st logo.Status
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Processed || st.URL != config.DefaultLogoURL {
		t.Errorf("unexpected status: %+v", st)
	}
}

type pngSource struct{ data []byte }

func (p pngSource) Fetch(ctx context.Context, url string) ([]byte, error) {
	return p.data, nil
}

func TestLogo_ServesProcessedImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.White)
		}
	}
	img.Set(2, 2, color.Black)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	lp := logo.NewProcessor(config.DefaultLogoURL, pngSource{data: buf.Bytes()}, logo.KeyRemover{Tolerance: 10}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	lp.Start(context.Background())
	if err := lp.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}

	s := newTestServer(lp)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/logo", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}
	if _, err := png.Decode(w.Body); err != nil {
		t.Errorf("expected valid png: %v", err)
	}

	w = httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/logo/status", nil))
	var st logo.Status
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !st.Processed || st.URL != logoPath {
		t.Errorf("unexpected status: %+v", st)
	}
}

func TestConvertStats(t *testing.T) {
	s := newTestServer(nil)
	postJSON(t, s, "/api/convert", `{"input":"Title"}`)
	postJSON(t, s, "/api/convert", `{"input":"1. One"}`)

	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats/convert", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Window string         `json:"window"`
		Stats  stats.Snapshot `json:"stats"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Window != "1h0m0s" {
		t.Errorf("expected window 1h0m0s, got %q", resp.Window)
	}
	if resp.Stats.Count != 2 {
		t.Errorf("expected count 2, got %d", resp.Stats.Count)
	}
}
