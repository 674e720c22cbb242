package article

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ryota-okonogi/wonderful-editor/internal/domain/models"
	req "github.com/ryota-okonogi/wonderful-editor/internal/lib/api/request"
	resp "github.com/ryota-okonogi/wonderful-editor/internal/lib/api/response"
	"github.com/ryota-okonogi/wonderful-editor/internal/lib/jwt"
	"github.com/ryota-okonogi/wonderful-editor/internal/lib/logger/sl"
	"github.com/ryota-okonogi/wonderful-editor/internal/service/article"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
)

type Service interface {
	ListPublished(ctx context.Context) ([]models.Article, error)
	ListOwn(ctx context.Context, userID int64) ([]models.Article, error)
	GetByID(ctx context.Context, id, requesterID int64) (models.Article, error)
	Create(ctx context.Context, userID int64, title, body string, status models.Status) (models.Article, error)
	Update(ctx context.Context, id, userID int64, title, body *string, status *models.Status) (models.Article, error)
	Remove(ctx context.Context, id, userID int64) error
	Like(ctx context.Context, articleID, userID int64) error
	Unlike(ctx context.Context, articleID, userID int64) error
}

type Article struct {
	log       *slog.Logger
	service   Service
	tokenAuth *jwtauth.JWTAuth
}

func New(log *slog.Logger, service Service, secret string) *Article {
	return &Article{
		log:       log,
		service:   service,
		tokenAuth: jwtauth.New("HS256", []byte(secret), nil),
	}
}

// Register mounts the /articles routes. Reads only verify a token when one is
// present, so an owner's drafts stay reachable by id while everyone else gets
// a 404 for them.
func (a *Article) Register() func(r chi.Router) {
	return func(r chi.Router) {
		// Public routes, token optional
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(a.tokenAuth))

			r.Get("/", a.list)
			r.Get("/{id}", a.getByID)
		})

		// Require auth
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(a.tokenAuth))
			r.Use(jwtauth.Authenticator(a.tokenAuth))

			r.Post("/", a.create)
			r.Patch("/{id}", a.update)
			r.Delete("/{id}", a.remove)
			r.Put("/{id}/like", a.like)
			r.Delete("/{id}/like", a.unlike)
		})
	}
}

// RegisterCurrent mounts the /current routes for the requester's own work.
func (a *Article) RegisterCurrent() func(r chi.Router) {
	return func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(a.tokenAuth))
			r.Use(jwtauth.Authenticator(a.tokenAuth))

			r.Get("/articles", a.listOwn)
		})
	}
}

func (a *Article) list(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.list"

	arts, err := a.service.ListPublished(r.Context())
	if err != nil {
		a.log.Error("failed to list articles", slog.String("op", op), sl.Error(err))
		render.Render(w, r, resp.ErrInternal)
		return
	}

	render.JSON(w, r, resp.NewArticleList(arts))
}

func (a *Article) listOwn(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.listOwn"

	uid, err := jwt.UserID(r.Context())
	if err != nil {
		render.Render(w, r, resp.ErrInternal)
		return
	}

	arts, err := a.service.ListOwn(r.Context(), uid)
	if err != nil {
		a.log.Error("failed to list own articles", slog.String("op", op), sl.Error(err))
		render.Render(w, r, resp.ErrInternal)
		return
	}

	render.JSON(w, r, resp.NewArticleList(arts))
}

func (a *Article) getByID(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.getByID"

	id, err := articleID(r)
	if err != nil {
		render.Render(w, r, resp.ErrNotFound)
		return
	}

	// Anonymous unless a verified token is on the context.
	requester, err := jwt.UserID(r.Context())
	if err != nil {
		requester = article.Anonymous
	}

	art, err := a.service.GetByID(r.Context(), id, requester)
	if err != nil {
		a.renderError(w, r, op, err)
		return
	}

	render.JSON(w, r, resp.NewArticleDetail(art))
}

func (a *Article) create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.create"

	uid, err := jwt.UserID(r.Context())
	if err != nil {
		render.Render(w, r, resp.ErrInternal)
		return
	}

	var in req.Article
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		a.log.Error("failed to decode request", slog.String("op", op), sl.Error(err))
		render.Render(w, r, resp.ErrInvalidRequest(err))
		return
	}

	// An absent status means draft. An invalid one is rejected before any
	// write; the two cases are deliberately not the same.
	status := models.StatusDraft
	if in.Status != nil {
		status, err = models.ParseStatus(*in.Status)
		if err != nil {
			render.Render(w, r, resp.ErrInvalidRequest(err))
			return
		}
	}

	var title, body string
	if in.Title != nil {
		title = *in.Title
	}
	if in.Body != nil {
		body = *in.Body
	}

	art, err := a.service.Create(r.Context(), uid, title, body, status)
	if err != nil {
		a.renderError(w, r, op, err)
		return
	}

	render.JSON(w, r, resp.NewArticleMutation(art))
}

func (a *Article) update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.update"

	id, err := articleID(r)
	if err != nil {
		render.Render(w, r, resp.ErrNotFound)
		return
	}

	uid, err := jwt.UserID(r.Context())
	if err != nil {
		render.Render(w, r, resp.ErrInternal)
		return
	}

	var in req.Article
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		a.log.Error("failed to decode request", slog.String("op", op), sl.Error(err))
		render.Render(w, r, resp.ErrInvalidRequest(err))
		return
	}

	var status *models.Status
	if in.Status != nil {
		parsed, err := models.ParseStatus(*in.Status)
		if err != nil {
			render.Render(w, r, resp.ErrInvalidRequest(err))
			return
		}
		status = &parsed
	}

	art, err := a.service.Update(r.Context(), id, uid, in.Title, in.Body, status)
	if err != nil {
		a.renderError(w, r, op, err)
		return
	}

	render.JSON(w, r, resp.NewArticleMutation(art))
}

func (a *Article) remove(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.remove"

	id, err := articleID(r)
	if err != nil {
		render.Render(w, r, resp.ErrNotFound)
		return
	}

	uid, err := jwt.UserID(r.Context())
	if err != nil {
		render.Render(w, r, resp.ErrInternal)
		return
	}

	if err := a.service.Remove(r.Context(), id, uid); err != nil {
		a.renderError(w, r, op, err)
		return
	}

	render.JSON(w, r, render.M{})
}

func (a *Article) like(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.like"

	id, err := articleID(r)
	if err != nil {
		render.Render(w, r, resp.ErrNotFound)
		return
	}

	uid, err := jwt.UserID(r.Context())
	if err != nil {
		render.Render(w, r, resp.ErrInternal)
		return
	}

	if err := a.service.Like(r.Context(), id, uid); err != nil {
		a.renderError(w, r, op, err)
		return
	}

	render.NoContent(w, r)
}

func (a *Article) unlike(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.unlike"

	id, err := articleID(r)
	if err != nil {
		render.Render(w, r, resp.ErrNotFound)
		return
	}

	uid, err := jwt.UserID(r.Context())
	if err != nil {
		render.Render(w, r, resp.ErrInternal)
		return
	}

	if err := a.service.Unlike(r.Context(), id, uid); err != nil {
		a.renderError(w, r, op, err)
		return
	}

	render.NoContent(w, r)
}

func (a *Article) renderError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, article.ErrArticleNotFound):
		render.Render(w, r, resp.ErrNotFound)
	case errors.Is(err, models.ErrTitleEmpty),
		errors.Is(err, models.ErrBodyEmpty),
		errors.Is(err, models.ErrUnknownStatus):
		render.Render(w, r, resp.ErrInvalidRequest(err))
	default:
		a.log.Error("request failed", slog.String("op", op), sl.Error(err))
		render.Render(w, r, resp.ErrInternal)
	}
}

func articleID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
