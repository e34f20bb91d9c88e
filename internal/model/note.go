package model

import (
	"time"
)

// DefaultClass is assigned to notes uploaded without a class.
const DefaultClass = "General"

type Note struct {
	ID             string     `db:"id" json:"id"`
	Title          string     `db:"title" json:"title"`
	Class          string     `db:"class" json:"class"`
	Subject        string     `db:"subject" json:"subject"`
	Topic          string     `db:"topic" json:"topic"`
	Description    string     `db:"description" json:"description,omitempty"`
	Filename       string     `db:"filename" json:"filename"`
	OriginalName   string     `db:"original_name" json:"originalName"`
	FileType       string     `db:"file_type" json:"fileType"` // Extension without dot: "pdf", "docx", ...
	MimeType       string     `db:"mime_type" json:"mimeType"`
	Size           int64      `db:"size" json:"size"`
	StoragePath    string     `db:"storage_path" json:"-"`
	DownloadCount  int64      `db:"download_count" json:"downloadCount"`
	LastDownloaded *time.Time `db:"last_downloaded" json:"lastDownloaded,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`

	// Computed fields (not in database)
	DescriptionHTML string `db:"-" json:"descriptionHtml,omitempty"`
}

// HasFile reports whether the note still references stored content.
func (n *Note) HasFile() bool {
	return n.StoragePath != ""
}

// NoteFilter narrows a note listing. Empty fields do not filter.
type NoteFilter struct {
	Class   string
	Subject string
	Search  string // Case-insensitive substring of title or topic
}
