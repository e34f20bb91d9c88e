package service

import (
	"context"
	"time"

	"github.com/vaibhavguptahere/smacad-test/internal/analytics"
	"github.com/vaibhavguptahere/smacad-test/internal/apperr"
	"github.com/vaibhavguptahere/smacad-test/internal/model"
	"github.com/vaibhavguptahere/smacad-test/internal/repository"
)

// Display sizes of the ranked lists.
const (
	TopDownloadsLimit  = 10
	DashboardTopLimit  = 5
	RecentDownloadsLen = 20
)

type DownloadReport struct {
	Stats              analytics.DownloadStats       `json:"stats"`
	MostDownloaded     []*model.Note                 `json:"mostDownloaded"`
	DownloadsBySubject []*analytics.SubjectDownloads `json:"downloadsBySubject"`
	RecentDownloads    []*model.Download             `json:"recentDownloads"`
	DownloadTrends     []analytics.DailyCount        `json:"downloadTrends"`
}

type Dashboard struct {
	analytics.Overview
	Downloads      analytics.DownloadStats `json:"downloads"`
	MostDownloaded []*model.Note           `json:"mostDownloaded"`
}

// AnalyticsService loads notes, contacts and the download ledger and folds
// them on every call. Nothing is cached.
type AnalyticsService struct {
	noteRepo     repository.NoteRepository
	contactRepo  repository.ContactRepository
	downloadRepo repository.DownloadRepository
	location     *time.Location
	now          func() time.Time
}

func NewAnalyticsService(
	noteRepo repository.NoteRepository,
	contactRepo repository.ContactRepository,
	downloadRepo repository.DownloadRepository,
	location *time.Location,
) *AnalyticsService {
	if location == nil {
		location = time.Local
	}
	return &AnalyticsService{
		noteRepo:     noteRepo,
		contactRepo:  contactRepo,
		downloadRepo: downloadRepo,
		location:     location,
		now:          time.Now,
	}
}

// WithClock replaces the time source that anchors "today" and "this week".
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	return s
}

func (s *AnalyticsService) localNow() time.Time {
	return s.now().In(s.location)
}

func (s *AnalyticsService) Downloads(ctx context.Context) (*DownloadReport, error) {
	downloads, err := s.downloadRepo.All(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to load downloads", err)
	}
	notes, err := s.noteRepo.List(ctx, model.NoteFilter{})
	if err != nil {
		return nil, apperr.Internal("failed to load notes", err)
	}
	recent, err := s.downloadRepo.Recent(ctx, RecentDownloadsLen)
	if err != nil {
		return nil, apperr.Internal("failed to load recent downloads", err)
	}

	now := s.localNow()
	return &DownloadReport{
		Stats:              analytics.Stats(downloads, now),
		MostDownloaded:     analytics.MostDownloaded(notes, TopDownloadsLimit),
		DownloadsBySubject: analytics.DownloadsBySubject(downloads),
		RecentDownloads:    recent,
		DownloadTrends:     analytics.DailySeries(downloads, now, analytics.DefaultSeriesDays),
	}, nil
}

func (s *AnalyticsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	notes, err := s.noteRepo.List(ctx, model.NoteFilter{})
	if err != nil {
		return nil, apperr.Internal("failed to load notes", err)
	}
	contacts, err := s.contactRepo.List(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to load contacts", err)
	}
	downloads, err := s.downloadRepo.All(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to load downloads", err)
	}

	now := s.localNow()
	return &Dashboard{
		Overview:       analytics.BuildOverview(notes, contacts, now),
		Downloads:      analytics.Stats(downloads, now),
		MostDownloaded: analytics.MostDownloaded(notes, DashboardTopLimit),
	}, nil
}

// Subjects groups notes by subject, optionally within one class, then
// filters by name and sorts by sortBy.
func (s *AnalyticsService) Subjects(ctx context.Context, class, search, sortBy string) ([]*analytics.SubjectGroup, error) {
	notes, err := s.noteRepo.List(ctx, model.NoteFilter{})
	if err != nil {
		return nil, apperr.Internal("failed to load notes", err)
	}
	if class != "" {
		notes = filterNotes(notes, func(n *model.Note) bool { return analytics.ClassOf(n) == class })
	}

	groups := analytics.FilterSubjects(analytics.GroupBySubject(notes), search)
	return analytics.SortSubjects(groups, sortBy), nil
}

func (s *AnalyticsService) Classes(ctx context.Context) ([]*analytics.ClassGroup, error) {
	notes, err := s.noteRepo.List(ctx, model.NoteFilter{})
	if err != nil {
		return nil, apperr.Internal("failed to load notes", err)
	}
	return analytics.GroupByClass(notes), nil
}

// Topics groups the notes of one class and subject by topic. search narrows
// notes by title or topic.
func (s *AnalyticsService) Topics(ctx context.Context, class, subject, search string) ([]*analytics.TopicGroup, error) {
	notes, err := s.noteRepo.List(ctx, model.NoteFilter{Subject: subject})
	if err != nil {
		return nil, apperr.Internal("failed to load notes", err)
	}

	notes = filterNotes(notes, func(n *model.Note) bool {
		return analytics.ClassOf(n) == class && analytics.MatchNote(n, search)
	})
	return analytics.GroupByTopic(notes), nil
}

func filterNotes(notes []*model.Note, keep func(*model.Note) bool) []*model.Note {
	out := make([]*model.Note, 0, len(notes))
	for _, n := range notes {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}
