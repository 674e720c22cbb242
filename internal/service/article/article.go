package article

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ryota-okonogi/wonderful-editor/internal/domain/models"
	"github.com/ryota-okonogi/wonderful-editor/internal/lib/logger/sl"
	"github.com/ryota-okonogi/wonderful-editor/internal/storage"
)

// ErrArticleNotFound is returned for articles that do not exist, for drafts
// the requester does not own, and for mutations by a non-owner. Callers must
// not be able to tell these apart.
var ErrArticleNotFound = errors.New("article not found")

// Anonymous marks a requester without a verified identity.
const Anonymous int64 = 0

type Storage interface {
	CreateArticle(ctx context.Context, userID int64, title, body string, status models.Status) (models.Article, error)
	ArticleByID(ctx context.Context, id int64) (models.Article, error)
	UpdateArticle(ctx context.Context, id, userID int64, title, body *string, status *models.Status) (models.Article, error)
	RemoveArticle(ctx context.Context, id, userID int64) error
	PublishedArticles(ctx context.Context) ([]models.Article, error)
	PublishedArticlesByUser(ctx context.Context, userID int64) ([]models.Article, error)
	LikeArticle(ctx context.Context, userID, articleID int64) error
	UnlikeArticle(ctx context.Context, userID, articleID int64) error
}

type Service struct {
	log     *slog.Logger
	storage Storage
}

func New(log *slog.Logger, storage Storage) *Service {
	return &Service{
		log:     log,
		storage: storage,
	}
}

// ListPublished returns every published article, most recently updated first.
func (s *Service) ListPublished(ctx context.Context) ([]models.Article, error) {
	const op = "service.article.ListPublished"

	arts, err := s.storage.PublishedArticles(ctx)
	if err != nil {
		s.log.Error("failed to list articles", slog.String("op", op), sl.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return arts, nil
}

// ListOwn returns the requester's published articles, most recently updated
// first. The requester's drafts are not included.
func (s *Service) ListOwn(ctx context.Context, userID int64) ([]models.Article, error) {
	const op = "service.article.ListOwn"

	arts, err := s.storage.PublishedArticlesByUser(ctx, userID)
	if err != nil {
		s.log.Error("failed to list own articles", slog.String("op", op), sl.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return arts, nil
}

// GetByID resolves one article for the given requester. requesterID is
// Anonymous for unauthenticated reads. Absent rows and drafts owned by
// someone else both come back as ErrArticleNotFound.
func (s *Service) GetByID(ctx context.Context, id, requesterID int64) (models.Article, error) {
	const op = "service.article.GetByID"

	art, err := s.storage.ArticleByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrArticleNotFound) {
			return models.Article{}, fmt.Errorf("%s: %w", op, ErrArticleNotFound)
		}
		s.log.Error("failed to get article", slog.String("op", op), sl.Error(err))
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}

	if art.Status == models.StatusDraft && art.UserID != requesterID {
		return models.Article{}, fmt.Errorf("%s: %w", op, ErrArticleNotFound)
	}

	return art, nil
}

// Create stores a new article owned by userID. The article is validated in
// full before anything is written.
func (s *Service) Create(ctx context.Context, userID int64, title, body string, status models.Status) (models.Article, error) {
	const op = "service.article.Create"

	draft := models.Article{Title: title, Body: body, Status: status, UserID: userID}
	if err := draft.Validate(); err != nil {
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}

	art, err := s.storage.CreateArticle(ctx, userID, title, body, status)
	if err != nil {
		s.log.Error("failed to create article", slog.String("op", op), sl.Error(err))
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}

	return art, nil
}

// Update applies the non-nil fields to the requester's own article. Provided
// fields are validated before the write; a non-owner gets ErrArticleNotFound.
func (s *Service) Update(ctx context.Context, id, userID int64, title, body *string, status *models.Status) (models.Article, error) {
	const op = "service.article.Update"

	if title != nil && strings.TrimSpace(*title) == "" {
		return models.Article{}, fmt.Errorf("%s: %w", op, models.ErrTitleEmpty)
	}
	if body != nil && strings.TrimSpace(*body) == "" {
		return models.Article{}, fmt.Errorf("%s: %w", op, models.ErrBodyEmpty)
	}

	art, err := s.storage.UpdateArticle(ctx, id, userID, title, body, status)
	if err != nil {
		if errors.Is(err, storage.ErrArticleNotFound) {
			return models.Article{}, fmt.Errorf("%s: %w", op, ErrArticleNotFound)
		}
		s.log.Error("failed to update article", slog.String("op", op), sl.Error(err))
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}

	return art, nil
}

// Remove deletes the requester's own article.
func (s *Service) Remove(ctx context.Context, id, userID int64) error {
	const op = "service.article.Remove"

	err := s.storage.RemoveArticle(ctx, id, userID)
	if err != nil {
		if errors.Is(err, storage.ErrArticleNotFound) {
			return fmt.Errorf("%s: %w", op, ErrArticleNotFound)
		}
		s.log.Error("failed to remove article", slog.String("op", op), sl.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Like records the requester's like. The article must be visible to the
// requester under the same rule as reads; liking twice is a no-op.
func (s *Service) Like(ctx context.Context, articleID, userID int64) error {
	const op = "service.article.Like"

	if _, err := s.GetByID(ctx, articleID, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.LikeArticle(ctx, userID, articleID); err != nil {
		s.log.Error("failed to like article", slog.String("op", op), sl.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Unlike removes the requester's like if present.
func (s *Service) Unlike(ctx context.Context, articleID, userID int64) error {
	const op = "service.article.Unlike"

	if _, err := s.GetByID(ctx, articleID, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.UnlikeArticle(ctx, userID, articleID); err != nil {
		s.log.Error("failed to unlike article", slog.String("op", op), sl.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
