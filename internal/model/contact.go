package model

import (
	"time"
)

const (
	ContactStatusUnread = "unread"
	ContactStatusRead   = "read"
)

type Contact struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Message   string    `db:"message" json:"message"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

func (c *Contact) IsRead() bool {
	return c.Status == ContactStatusRead
}

// ValidContactStatus reports whether status is one of the recognized values.
func ValidContactStatus(status string) bool {
	return status == ContactStatusUnread || status == ContactStatusRead
}
