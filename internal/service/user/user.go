package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ryota-okonogi/wonderful-editor/internal/domain/models"
	"github.com/ryota-okonogi/wonderful-editor/internal/lib/jwt"
	"github.com/ryota-okonogi/wonderful-editor/internal/lib/logger/sl"
	"github.com/ryota-okonogi/wonderful-editor/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Storage interface {
	CreateUser(ctx context.Context, name, email string, passHash []byte) (models.User, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id int64) (models.User, error)
}

type Service struct {
	log      *slog.Logger
	storage  Storage
	tokenTTL time.Duration
}

func New(log *slog.Logger, storage Storage, ttl time.Duration) *Service {
	return &Service{
		log:      log,
		storage:  storage,
		tokenTTL: ttl,
	}
}

func (s *Service) Register(ctx context.Context, name, email, password string) (models.User, error) {
	const op = "service.user.Register"

	log := s.log.With(slog.String("op", op))

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate hash from password", sl.Error(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	usr, err := s.storage.CreateUser(ctx, name, email, passHash)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		log.Error("failed to register user", sl.Error(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return usr, nil
}

func (s *Service) Login(ctx context.Context, email, password, secret string) (string, error) {
	const op = "service.user.Login"

	log := s.log.With(slog.String("op", op))

	usr, err := s.storage.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		log.Error("failed to get user by email", sl.Error(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(usr.PassHash, []byte(password)); err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := jwt.NewToken(usr, s.tokenTTL, secret)
	if err != nil {
		log.Error("failed to create new token", sl.Error(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return token, nil
}

func (s *Service) UserByID(ctx context.Context, id int64) (models.User, error) {
	const op = "service.user.UserByID"

	usr, err := s.storage.UserByID(ctx, id)
	if err != nil {
		s.log.Error("failed to get user", slog.String("op", op), sl.Error(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return usr, nil
}
