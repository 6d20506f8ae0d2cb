package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
)

// Registration is the body of POST /users/register
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Credentials is the body of POST /users/login
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PasswordReset is the body of POST /users/simple-reset-password
type PasswordReset struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

// UserUpdate is the body of PUT /users/:id. ProfileImage is sent only when it changed.
type UserUpdate struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// AuthResult is what register, login and reset return. Token and User may be
// empty when the API does not sign the user in.
type AuthResult struct {
	Message string
	Token   string
	User    content.AdminUser
}

// Session converts a result into a session when it carries both halves
func (r AuthResult) Session() (content.Session, bool) {
	s := content.Session{Token: r.Token, User: r.User}
	return s, s.Valid()
}

func (c *Client) Register(ctx context.Context, w Write, reg Registration) (AuthResult, error) {
	return c.authCall(ctx, call{
		op: "register", method: http.MethodPost, endpoint: "/users/register", path: "/users/register",
		body: reg, idempotencyKey: w.IdempotencyKey,
	})
}

func (c *Client) Login(ctx context.Context, w Write, cred Credentials) (AuthResult, error) {
	return c.authCall(ctx, call{
		op: "login", method: http.MethodPost, endpoint: "/users/login", path: "/users/login",
		body: cred, idempotencyKey: w.IdempotencyKey,
	})
}

func (c *Client) ResetPassword(ctx context.Context, w Write, reset PasswordReset) (AuthResult, error) {
	return c.authCall(ctx, call{
		op: "reset password", method: http.MethodPost, endpoint: "/users/simple-reset-password", path: "/users/simple-reset-password",
		body: reset, idempotencyKey: w.IdempotencyKey,
	})
}

func (c *Client) authCall(ctx context.Context, req call) (AuthResult, error) {
	env, err := c.do(ctx, req, nil)
	if err != nil {
		return AuthResult{}, err
	}
	result := AuthResult{Message: env.message(), Token: env.Token}
	if raw := env.payload(PayloadUser); raw != nil {
		var user content.AdminUser
		if decodeErr := json.Unmarshal(raw, &user); decodeErr != nil {
			return AuthResult{}, &Error{Kind: KindMalformed, Op: req.op, Err: decodeErr}
		}
		result.User = user
	}
	return result, nil
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]content.AdminUser, error) {
	var users []content.AdminUser
	_, err := c.do(ctx, call{
		op: "list users", method: http.MethodGet, endpoint: "/users/all", path: "/users/all",
		token: token, payload: PayloadUsers,
	}, &users)
	return users, err
}

func (c *Client) GetUser(ctx context.Context, token string, id content.ID) (content.AdminUser, error) {
	var user content.AdminUser
	_, err := c.do(ctx, call{
		op: "get user", method: http.MethodGet, endpoint: "/users/:id", path: "/users/" + url.PathEscape(id.String()),
		token: token, payload: PayloadUser,
	}, &user)
	return user, err
}

func (c *Client) UpdateUser(ctx context.Context, w Write, id content.ID, in UserUpdate) (Ack, error) {
	env, err := c.do(ctx, call{
		op: "update user", method: http.MethodPut, endpoint: "/users/:id", path: "/users/" + url.PathEscape(id.String()),
		body: in, token: w.Token, idempotencyKey: w.IdempotencyKey,
	}, nil)
	return ack(env), err
}

// UploadProfileImage stores a new picture and returns its path
func (c *Client) UploadProfileImage(ctx context.Context, w Write, id content.ID, file FilePart) (string, error) {
	file.Field = "image"
	var user content.AdminUser
	_, err := c.do(ctx, call{
		op: "upload profile image", method: http.MethodPost, endpoint: "/users/:id/profile-image", path: "/users/" + url.PathEscape(id.String()) + "/profile-image",
		file: &file, token: w.Token, idempotencyKey: w.IdempotencyKey, payload: PayloadUser,
	}, &user)
	if err != nil {
		return "", err
	}
	if user.ProfileImage == "" {
		return "", &Error{Kind: KindMalformed, Op: "upload profile image", Message: "upload succeeded without a profile image path"}
	}
	return user.ProfileImage, nil
}

func (c *Client) DeleteUser(ctx context.Context, w Write, id content.ID) (Ack, error) {
	env, err := c.do(ctx, call{
		op: "delete user", method: http.MethodDelete, endpoint: "/users/:id", path: "/users/" + url.PathEscape(id.String()),
		token: w.Token, idempotencyKey: w.IdempotencyKey,
	}, nil)
	return ack(env), err
}
