package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// sitemap emits the quizzes urlset for search engines.
func (h *Handler) sitemap(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.quizzes.List(r.Context())
	if err != nil {
		h.renderError(w, err)
		return
	}

	var out strings.Builder
	out.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	out.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9" xmlns:image="http://www.google.com/schemas/sitemap-image/1.1">`)
	for _, quiz := range quizzes {
		out.WriteString("<url>")
		fmt.Fprintf(&out, "<loc>%s/quizzes/%s</loc>", h.baseURL, url.PathEscape(quiz.ID))
		if quiz.Thumbnail != "" {
			fmt.Fprintf(&out, "<image:image><image:loc>%s</image:loc></image:image>", quiz.Thumbnail)
		}
		out.WriteString("</url>")
	}
	out.WriteString("</urlset>")

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(out.String()))
}
