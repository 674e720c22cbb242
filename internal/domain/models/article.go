package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is the visibility state of an article. Drafts are visible only to
// their owner; published articles are visible to everyone.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

var ErrUnknownStatus = errors.New("unknown article status")

// ParseStatus is the only way a Status enters the system from the outside.
// Anything other than the two recognized values is rejected, never coerced.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusDraft, StatusPublished:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

type Article struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Status    Status    `json:"status"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Author is the owning user, populated by storage reads that join users.
	Author *User `json:"-"`
}

var (
	ErrTitleEmpty = errors.New("title must not be empty")
	ErrBodyEmpty  = errors.New("body must not be empty")
)

// Validate checks the invariants every stored article satisfies. It is called
// before any write commits.
func (a *Article) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return ErrTitleEmpty
	}
	if strings.TrimSpace(a.Body) == "" {
		return ErrBodyEmpty
	}
	if _, err := ParseStatus(string(a.Status)); err != nil {
		return err
	}
	return nil
}

// ArticleLike records that a user liked an article. At most one like exists
// per (user, article) pair.
type ArticleLike struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ArticleID int64     `json:"article_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
