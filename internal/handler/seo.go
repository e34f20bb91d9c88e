package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/vaibhavguptahere/smacad-test/internal/service"
)

type seoHandler struct {
	sitemapService *service.SitemapService
	baseURL        string
}

func NewSEOHandler(sitemapService *service.SitemapService, baseURL string) *seoHandler {
	return &seoHandler{
		sitemapService: sitemapService,
		baseURL:        strings.TrimSuffix(baseURL, "/"),
	}
}

// Robots keeps crawlers out of the admin area and points them at the sitemap.
func (h *seoHandler) Robots(w http.ResponseWriter, r *http.Request) {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /admin\n")
	b.WriteString("Disallow: /api/\n")
	b.WriteString("Sitemap: " + h.baseURL + "/sitemap.xml\n")

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(b.String()))
}

// Sitemap generates and serves the sitemap.xml dynamically
func (h *seoHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	sitemap, err := h.sitemapService.GenerateSitemap(r.Context())
	if err != nil {
		slog.Error("failed to generate sitemap", "error", err)
		http.Error(w, "Failed to generate sitemap", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(sitemap)
}
