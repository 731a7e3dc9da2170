package api

import (
	"net/http"
	"strconv"

	"github.com/dgallion1/outlinemd/internal/logo"
)

// handleLogo serves the processed logo, or redirects to the original while
// processing is still running or after it failed.
func (s *Server) handleLogo(w http.ResponseWriter, r *http.Request) {
	if s.logo == nil {
		http.Redirect(w, r, s.cfg.LogoURL, http.StatusTemporaryRedirect)
		return
	}
	img, ok := s.logo.Image()
	if !ok {
		http.Redirect(w, r, s.logo.FallbackURL(), http.StatusTemporaryRedirect)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(img)
}

func (s *Server) handleLogoStatus(w http.ResponseWriter, r *http.Request) {
	if s.logo == nil {
		writeJSON(w, http.StatusOK, logo.Status{URL: s.cfg.LogoURL})
		return
	}
	writeJSON(w, http.StatusOK, s.logo.Status(logoPath))
}
