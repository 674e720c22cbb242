package storage

import "errors"

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")

	// ErrArticleNotFound covers both a missing row and a row the requester
	// is not allowed to see or touch. The two cases must stay
	// indistinguishable to callers.
	ErrArticleNotFound = errors.New("article not found")
)
