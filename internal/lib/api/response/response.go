package response

import (
	"net/http"
	"time"

	"github.com/ryota-okonogi/wonderful-editor/internal/domain/models"

	"github.com/go-chi/render"
)

// ErrResponse is the error payload for every failed request. The status code
// travels with the payload so handlers render errors in one step.
type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText string `json:"status"`
	ErrorText  string `json:"error,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

// ErrNotFound covers a missing resource and a resource the requester may not
// see or touch. The payload is identical for both on purpose.
var ErrNotFound = &ErrResponse{HTTPStatusCode: http.StatusNotFound, StatusText: "Resource not found."}

var ErrInternal = &ErrResponse{HTTPStatusCode: http.StatusInternalServerError, StatusText: "Internal error."}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrConflict(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusConflict,
		StatusText:     "Conflict.",
		ErrorText:      err.Error(),
	}
}

// UserRef is the owner reference embedded in list items.
type UserRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserDetail is the owner reference embedded in the article detail view. It
// is the only projection that exposes the owner's email.
type UserDetail struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ArticleListItem struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
	User      UserRef   `json:"user"`
}

type ArticleDetail struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Status    string     `json:"status"`
	UpdatedAt time.Time  `json:"updated_at"`
	User      UserDetail `json:"user"`
}

// ArticleMutation is the payload returned by create and update.
type ArticleMutation struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewArticleList(arts []models.Article) []ArticleListItem {
	items := make([]ArticleListItem, 0, len(arts))
	for _, a := range arts {
		item := ArticleListItem{
			ID:        a.ID,
			Title:     a.Title,
			UpdatedAt: a.UpdatedAt,
			User:      UserRef{ID: a.UserID},
		}
		if a.Author != nil {
			item.User.Name = a.Author.Name
		}
		items = append(items, item)
	}
	return items
}

func NewArticleDetail(a models.Article) ArticleDetail {
	detail := ArticleDetail{
		ID:        a.ID,
		Title:     a.Title,
		Body:      a.Body,
		Status:    string(a.Status),
		UpdatedAt: a.UpdatedAt,
		User:      UserDetail{ID: a.UserID},
	}
	if a.Author != nil {
		detail.User.Name = a.Author.Name
		detail.User.Email = a.Author.Email
	}
	return detail
}

func NewArticleMutation(a models.Article) ArticleMutation {
	return ArticleMutation{
		ID:        a.ID,
		Title:     a.Title,
		Body:      a.Body,
		Status:    string(a.Status),
		UpdatedAt: a.UpdatedAt,
	}
}

// RegisteredUser is returned by signup.
type RegisteredUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Token is returned by login.
type Token struct {
	Token string `json:"token"`
}
