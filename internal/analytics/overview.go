package analytics

import (
	"time"

	"github.com/vaibhavguptahere/smacad-test/internal/model"
)

// RecentUploadWindow bounds the "recent uploads" dashboard counter.
const RecentUploadWindow = 7 * 24 * time.Hour

type Overview struct {
	TotalNotes     int `json:"totalNotes"`
	TotalSubjects  int `json:"totalSubjects"`
	TotalTopics    int `json:"totalTopics"`
	RecentUploads  int `json:"recentUploads"`
	TotalContacts  int `json:"totalContacts"`
	UnreadContacts int `json:"unreadContacts"`
}

func BuildOverview(notes []*model.Note, contacts []*model.Contact, now time.Time) Overview {
	subjects := make(map[string]struct{})
	topics := make(map[string]struct{})
	since := now.Add(-RecentUploadWindow)

	o := Overview{TotalNotes: len(notes), TotalContacts: len(contacts)}
	for _, n := range notes {
		subjects[n.Subject] = struct{}{}
		topics[n.Topic] = struct{}{}
		if n.CreatedAt.After(since) {
			o.RecentUploads++
		}
	}
	for _, c := range contacts {
		if !c.IsRead() {
			o.UnreadContacts++
		}
	}
	o.TotalSubjects = len(subjects)
	o.TotalTopics = len(topics)
	return o
}
