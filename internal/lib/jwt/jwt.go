package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/ryota-okonogi/wonderful-editor/internal/domain/models"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

var ErrNoUserID = errors.New("token carries no user id")

// NewToken issues an HS256 token carrying the user's id.
func NewToken(user models.User, duration time.Duration, secret string) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["uid"] = user.ID
	claims["exp"] = time.Now().Add(duration).Unix()

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// UserID extracts the authenticated user's id from the jwtauth claims on the
// context. Returns ErrNoUserID when no verified token is present, which is how
// optional-auth routes detect an anonymous requester.
func UserID(ctx context.Context) (int64, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return 0, ErrNoUserID
	}

	uid, ok := claims["uid"].(float64)
	if !ok {
		return 0, ErrNoUserID
	}

	return int64(uid), nil
}
