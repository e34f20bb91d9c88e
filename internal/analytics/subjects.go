// Package analytics folds notes, contacts and download ledger entries into
// the read-only views shown on the public browse pages and the admin
// dashboard. Every function is pure; callers pass "now" explicitly.
package analytics

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/vaibhavguptahere/smacad-test/internal/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Subject sort keys accepted by SortSubjects.
const (
	SortByName   = "name"
	SortByNotes  = "notes"
	SortByTopics = "topics"
	SortByDate   = "date"
)

type SubjectGroup struct {
	Name       string    `json:"name"`
	NoteCount  int       `json:"noteCount"`
	TopicCount int       `json:"topicCount"`
	Topics     []string  `json:"topics"`
	TotalSize  int64     `json:"totalSize"`
	LatestNote time.Time `json:"latestNote"`
}

type ClassGroup struct {
	Name      string          `json:"name"`
	NoteCount int             `json:"noteCount"`
	Subjects  []*SubjectGroup `json:"subjects"`
}

type TopicGroup struct {
	Name  string        `json:"name"`
	Notes []*model.Note `json:"notes"`
}

// compareNames orders labels the way a reader expects (case-insensitive,
// locale aware) and falls back to byte order so distinct labels never tie.
func compareNames() func(a, b string) int {
	c := collate.New(language.English, collate.IgnoreCase)
	return func(a, b string) int {
		if r := c.CompareString(a, b); r != 0 {
			return r
		}
		return strings.Compare(a, b)
	}
}

// GroupBySubject partitions notes by subject, ordered by subject name.
func GroupBySubject(notes []*model.Note) []*SubjectGroup {
	groups := make(map[string]*SubjectGroup)
	topics := make(map[string]map[string]struct{})

	for _, n := range notes {
		g, ok := groups[n.Subject]
		if !ok {
			g = &SubjectGroup{Name: n.Subject, LatestNote: n.CreatedAt}
			groups[n.Subject] = g
			topics[n.Subject] = make(map[string]struct{})
		}
		g.NoteCount++
		g.TotalSize += n.Size
		topics[n.Subject][n.Topic] = struct{}{}
		if n.CreatedAt.After(g.LatestNote) {
			g.LatestNote = n.CreatedAt
		}
	}

	compare := compareNames()
	out := make([]*SubjectGroup, 0, len(groups))
	for name, g := range groups {
		g.Topics = sortedKeys(topics[name], compare)
		g.TopicCount = len(g.Topics)
		out = append(out, g)
	}
	slices.SortFunc(out, func(a, b *SubjectGroup) int { return compare(a.Name, b.Name) })
	return out
}

// SortSubjects reorders groups in place by key. Counts and dates sort
// descending, names ascending. Unknown keys leave the order unchanged.
func SortSubjects(groups []*SubjectGroup, key string) []*SubjectGroup {
	switch key {
	case SortByName:
		compare := compareNames()
		slices.SortStableFunc(groups, func(a, b *SubjectGroup) int { return compare(a.Name, b.Name) })
	case SortByNotes:
		slices.SortStableFunc(groups, func(a, b *SubjectGroup) int { return cmp.Compare(b.NoteCount, a.NoteCount) })
	case SortByTopics:
		slices.SortStableFunc(groups, func(a, b *SubjectGroup) int { return cmp.Compare(b.TopicCount, a.TopicCount) })
	case SortByDate:
		slices.SortStableFunc(groups, func(a, b *SubjectGroup) int { return b.LatestNote.Compare(a.LatestNote) })
	}
	return groups
}

// FilterSubjects keeps groups whose name contains search, ignoring case.
func FilterSubjects(groups []*SubjectGroup, search string) []*SubjectGroup {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return groups
	}
	out := make([]*SubjectGroup, 0, len(groups))
	for _, g := range groups {
		if strings.Contains(strings.ToLower(g.Name), search) {
			out = append(out, g)
		}
	}
	return out
}

// ClassOf returns the class a note is filed under.
func ClassOf(n *model.Note) string {
	if strings.TrimSpace(n.Class) == "" {
		return model.DefaultClass
	}
	return n.Class
}

// GroupByClass partitions notes by class, then by subject within each class.
func GroupByClass(notes []*model.Note) []*ClassGroup {
	byClass := make(map[string][]*model.Note)
	for _, n := range notes {
		class := ClassOf(n)
		byClass[class] = append(byClass[class], n)
	}

	compare := compareNames()
	out := make([]*ClassGroup, 0, len(byClass))
	for name, classNotes := range byClass {
		out = append(out, &ClassGroup{
			Name:      name,
			NoteCount: len(classNotes),
			Subjects:  GroupBySubject(classNotes),
		})
	}
	slices.SortFunc(out, func(a, b *ClassGroup) int { return compare(a.Name, b.Name) })
	return out
}

// GroupByTopic partitions notes by topic. Notes keep their input order
// within a topic; topics are ordered by name.
func GroupByTopic(notes []*model.Note) []*TopicGroup {
	index := make(map[string]*TopicGroup)
	var out []*TopicGroup
	for _, n := range notes {
		g, ok := index[n.Topic]
		if !ok {
			g = &TopicGroup{Name: n.Topic}
			index[n.Topic] = g
			out = append(out, g)
		}
		g.Notes = append(g.Notes, n)
	}

	compare := compareNames()
	slices.SortStableFunc(out, func(a, b *TopicGroup) int { return compare(a.Name, b.Name) })
	return out
}

// MatchNote reports whether title or topic contains search, ignoring case.
func MatchNote(n *model.Note, search string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(n.Title), search) ||
		strings.Contains(strings.ToLower(n.Topic), search)
}

func sortedKeys(set map[string]struct{}, compare func(a, b string) int) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compare)
	return keys
}
