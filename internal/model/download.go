package model

import (
	"time"
)

// UnknownRequester fills requester fields that the client did not provide.
const UnknownRequester = "Unknown"

// Download is a ledger entry. Title, subject and topic are snapshots taken
// at download time; NoteID is a weak reference that may outlive the note.
type Download struct {
	ID           string    `db:"id" json:"id"`
	NoteID       string    `db:"note_id" json:"noteId"`
	NoteTitle    string    `db:"note_title" json:"noteTitle"`
	Subject      string    `db:"subject" json:"subject"`
	Topic        string    `db:"topic" json:"topic"`
	DownloadedAt time.Time `db:"downloaded_at" json:"downloadedAt"`
	UserAgent    string    `db:"user_agent" json:"userAgent"`
	IP           string    `db:"ip" json:"ip"`
}

// Requester is the best-effort client metadata recorded with a download.
type Requester struct {
	UserAgent string
	IP        string
}
