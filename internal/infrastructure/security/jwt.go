package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
)

// ErrInvalidSession covers expired, tampered or unreadable session tokens
var ErrInvalidSession = errors.New("invalid session token")

// SessionClaims is what the session cookie carries. The API token is sealed
// so the cookie value does not expose a usable bearer credential.
type SessionClaims struct {
	UserID       string `json:"uid"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ProfileImage string `json:"img,omitempty"`
	CreatedAt    string `json:"cat,omitempty"`
	SealedToken  string `json:"tok"`
	jwt.RegisteredClaims
}

// SignSession encodes sess as an HS256 JWT valid for ttl
func SignSession(sess content.Session, secret string, ttl time.Duration) (string, error) {
	sealed, err := Seal(sess.Token, secret)
	if err != nil {
		return "", fmt.Errorf("seal api token: %w", err)
	}

	now := time.Now().UTC()
	claims := SessionClaims{
		UserID:       sess.User.ID.String(),
		Name:         sess.User.Name,
		Email:        sess.User.Email,
		ProfileImage: sess.User.ProfileImage,
		CreatedAt:    sess.User.CreatedAt,
		SealedToken:  sealed,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        NewULID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

// ParseSession verifies tokenString and rebuilds the session
func ParseSession(tokenString, secret string) (content.Session, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return content.Session{}, ErrInvalidSession
	}

	apiToken, err := Open(claims.SealedToken, secret)
	if err != nil {
		return content.Session{}, ErrInvalidSession
	}

	return content.Session{
		Token: apiToken,
		User: content.AdminUser{
			ID:           content.ID(claims.UserID),
			Name:         claims.Name,
			Email:        claims.Email,
			ProfileImage: claims.ProfileImage,
			CreatedAt:    claims.CreatedAt,
		},
	}, nil
}
