package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ryota-okonogi/wonderful-editor/internal/domain/models"
	req "github.com/ryota-okonogi/wonderful-editor/internal/lib/api/request"
	resp "github.com/ryota-okonogi/wonderful-editor/internal/lib/api/response"
	"github.com/ryota-okonogi/wonderful-editor/internal/lib/logger/sl"
	"github.com/ryota-okonogi/wonderful-editor/internal/service/user"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type Service interface {
	Register(ctx context.Context, name, email, password string) (models.User, error)
	Login(ctx context.Context, email, password, secret string) (token string, err error)
}

type Auth struct {
	log     *slog.Logger
	service Service
	secret  string
}

func New(log *slog.Logger, service Service, secret string) *Auth {
	return &Auth{
		log:     log,
		service: service,
		secret:  secret,
	}
}

func (a *Auth) Register() func(r chi.Router) {
	return func(r chi.Router) {
		r.Post("/register", a.register)
		r.Post("/login", a.login)
	}
}

func (a *Auth) register(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := a.log.With(slog.String("op", op))

	var cred req.Credentials
	if err := render.DecodeJSON(r.Body, &cred); err != nil {
		log.Error("failed to decode request", sl.Error(err))
		render.Render(w, r, resp.ErrInvalidRequest(err))
		return
	}

	if cred.Name == "" {
		render.Render(w, r, resp.ErrInvalidRequest(errors.New("name is empty")))
		return
	}
	if cred.Email == "" {
		render.Render(w, r, resp.ErrInvalidRequest(errors.New("email is empty")))
		return
	}
	if cred.Password == "" {
		render.Render(w, r, resp.ErrInvalidRequest(errors.New("password is empty")))
		return
	}

	usr, err := a.service.Register(r.Context(), cred.Name, cred.Email, cred.Password)
	if err != nil {
		if errors.Is(err, user.ErrUserExists) {
			render.Render(w, r, resp.ErrConflict(user.ErrUserExists))
			return
		}
		log.Error("failed to register user", sl.Error(err))
		render.Render(w, r, resp.ErrInternal)
		return
	}

	render.JSON(w, r, resp.RegisteredUser{ID: usr.ID, Name: usr.Name, Email: usr.Email})
}

func (a *Auth) login(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := a.log.With(slog.String("op", op))

	var cred req.Credentials
	if err := render.DecodeJSON(r.Body, &cred); err != nil {
		log.Error("failed to decode request", sl.Error(err))
		render.Render(w, r, resp.ErrInvalidRequest(err))
		return
	}

	if cred.Email == "" || cred.Password == "" {
		render.Render(w, r, resp.ErrInvalidRequest(errors.New("email and password are required")))
		return
	}

	token, err := a.service.Login(r.Context(), cred.Email, cred.Password, a.secret)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			render.Render(w, r, &resp.ErrResponse{
				HTTPStatusCode: http.StatusUnauthorized,
				StatusText:     "Invalid credentials.",
			})
			return
		}
		log.Error("failed to log user in", sl.Error(err))
		render.Render(w, r, resp.ErrInternal)
		return
	}

	render.JSON(w, r, resp.Token{Token: token})
}
