package analytics

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/vaibhavguptahere/smacad-test/internal/model"
)

// DefaultSeriesDays is the length of the dashboard download trend.
const DefaultSeriesDays = 30

const dayFormat = "2006-01-02"

type SubjectDownloads struct {
	Subject     string `json:"subject"`
	Downloads   int    `json:"downloads"`
	UniqueNotes int    `json:"uniqueNotesCount"`
}

type DownloadStats struct {
	TotalDownloads int `json:"totalDownloads"`
	UniqueNotes    int `json:"uniqueNotesCount"`
	Today          int `json:"todayDownloads"`
	ThisWeek       int `json:"thisWeekDownloads"`
}

type DailyCount struct {
	Date      string `json:"date"`
	Downloads int    `json:"downloads"`
}

// TopN returns up to n items ranked by key, highest first. Equal keys keep
// their input order. n <= 0 ranks every item. The input is not modified.
func TopN[T any](items []T, n int, key func(T) int64) []T {
	ranked := slices.Clone(items)
	slices.SortStableFunc(ranked, func(a, b T) int { return cmp.Compare(key(b), key(a)) })
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// MostDownloaded ranks notes that have been downloaded at least once.
func MostDownloaded(notes []*model.Note, n int) []*model.Note {
	downloaded := make([]*model.Note, 0, len(notes))
	for _, note := range notes {
		if note.DownloadCount > 0 {
			downloaded = append(downloaded, note)
		}
	}
	return TopN(downloaded, n, func(note *model.Note) int64 { return note.DownloadCount })
}

// DownloadsBySubject groups ledger entries by their snapshot subject, most
// downloaded first. The live note is never consulted.
func DownloadsBySubject(downloads []*model.Download) []*SubjectDownloads {
	groups := make(map[string]*SubjectDownloads)
	notes := make(map[string]map[string]struct{})

	for _, d := range downloads {
		g, ok := groups[d.Subject]
		if !ok {
			g = &SubjectDownloads{Subject: d.Subject}
			groups[d.Subject] = g
			notes[d.Subject] = make(map[string]struct{})
		}
		g.Downloads++
		notes[d.Subject][d.NoteID] = struct{}{}
	}

	out := make([]*SubjectDownloads, 0, len(groups))
	for subject, g := range groups {
		g.UniqueNotes = len(notes[subject])
		out = append(out, g)
	}
	slices.SortFunc(out, func(a, b *SubjectDownloads) int {
		if c := cmp.Compare(b.Downloads, a.Downloads); c != 0 {
			return c
		}
		return strings.Compare(a.Subject, b.Subject)
	})
	return out
}

// StartOfDay returns local midnight of t in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Stats counts downloads overall, since midnight of now's calendar day, and
// within the trailing seven days. now carries the reporting time zone.
func Stats(downloads []*model.Download, now time.Time) DownloadStats {
	today := StartOfDay(now)
	week := now.Add(-7 * 24 * time.Hour)
	notes := make(map[string]struct{})

	stats := DownloadStats{TotalDownloads: len(downloads)}
	for _, d := range downloads {
		notes[d.NoteID] = struct{}{}
		if !d.DownloadedAt.Before(today) {
			stats.Today++
		}
		if !d.DownloadedAt.Before(week) {
			stats.ThisWeek++
		}
	}
	stats.UniqueNotes = len(notes)
	return stats
}

// DailySeries buckets downloads into the last days calendar days ending with
// today, oldest first. Days without downloads are present with zero.
func DailySeries(downloads []*model.Download, now time.Time, days int) []DailyCount {
	if days <= 0 {
		days = DefaultSeriesDays
	}
	loc := now.Location()
	first := StartOfDay(now).AddDate(0, 0, -(days - 1))

	series := make([]DailyCount, days)
	index := make(map[string]int, days)
	for i := range series {
		key := first.AddDate(0, 0, i).Format(dayFormat)
		series[i].Date = key
		index[key] = i
	}

	for _, d := range downloads {
		if i, ok := index[d.DownloadedAt.In(loc).Format(dayFormat)]; ok {
			series[i].Downloads++
		}
	}
	return series
}
