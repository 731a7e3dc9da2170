package api

import (
	"embed"
	"html/template"
	"net/http"
)

//go:embed web/index.html
var webFS embed.FS

var indexTmpl = template.Must(template.ParseFS(webFS, "web/index.html"))

type indexData struct {
	LogoSrc     string
	Placeholder string
}

const placeholder = "Enter your plain text here...\n\nExample:\n1. Introduction\n1.1 Overview\n1.2 Purpose\n2. Scope\n2.1 Project goals"

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTmpl.Execute(w, indexData{
		LogoSrc:     logoPath,
		Placeholder: placeholder,
	})
	if err != nil {
		s.log.Error("render index", "error", err)
	}
}
