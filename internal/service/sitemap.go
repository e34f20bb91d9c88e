package service

import (
	"context"
	"encoding/xml"
	"net/url"
	"strings"
	"time"

	"github.com/vaibhavguptahere/smacad-test/internal/analytics"
	"github.com/vaibhavguptahere/smacad-test/internal/model"
)

// publicRoutes defines all static public routes that should be included in the sitemap
var publicRoutes = []struct {
	Path       string
	Priority   string
	ChangeFreq string
}{
	{"/", "1.0", "weekly"},
	{"/notes", "0.9", "daily"},
	{"/contact", "0.5", "monthly"},
}

type SitemapService struct {
	analyticsService *AnalyticsService
	baseURL          string
}

func NewSitemapService(analyticsService *AnalyticsService, baseURL string) *SitemapService {
	// Ensure baseURL doesn't have trailing slash
	baseURL = strings.TrimSuffix(baseURL, "/")

	return &SitemapService{
		analyticsService: analyticsService,
		baseURL:          baseURL,
	}
}

// GenerateSitemap lists the static pages plus one page per class and per
// class subject, dated by the newest note they contain.
func (s *SitemapService) GenerateSitemap(ctx context.Context) ([]byte, error) {
	sitemap := model.Sitemap{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  []model.SitemapURL{},
	}

	today := time.Now().Format("2006-01-02")
	for _, route := range publicRoutes {
		sitemap.URLs = append(sitemap.URLs, model.SitemapURL{
			Loc:        s.baseURL + route.Path,
			LastMod:    today,
			ChangeFreq: route.ChangeFreq,
			Priority:   route.Priority,
		})
	}

	classes, err := s.analyticsService.Classes(ctx)
	if err != nil {
		return nil, err
	}
	sitemap.URLs = append(sitemap.URLs, s.classURLs(classes)...)

	output, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	// Add XML header
	result := xml.Header + string(output)
	return []byte(result), nil
}

func (s *SitemapService) classURLs(classes []*analytics.ClassGroup) []model.SitemapURL {
	var urls []model.SitemapURL
	for _, class := range classes {
		classPath := "/notes/class/" + url.PathEscape(class.Name)

		var latest time.Time
		for _, subject := range class.Subjects {
			if subject.LatestNote.After(latest) {
				latest = subject.LatestNote
			}
			urls = append(urls, model.SitemapURL{
				Loc:        s.baseURL + classPath + "/subject/" + url.PathEscape(subject.Name),
				LastMod:    subject.LatestNote.Format("2006-01-02"),
				ChangeFreq: "weekly",
				Priority:   "0.7",
			})
		}

		urls = append(urls, model.SitemapURL{
			Loc:        s.baseURL + classPath,
			LastMod:    latest.Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}
	return urls
}
