package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
)

// Write carries the credentials and idempotency key of one mutation
type Write struct {
	Token          string
	IdempotencyKey string
}

// ProgramInput is the body of program create/update
type ProgramInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	IsActive    bool   `json:"isActive"`
}

// ListPrograms returns the public (active) programs
func (c *Client) ListPrograms(ctx context.Context) ([]content.Program, error) {
	var programs []content.Program
	_, err := c.do(ctx, call{
		op: "list programs", method: http.MethodGet, endpoint: "/programs", path: "/programs",
		payload: PayloadData,
	}, &programs)
	return programs, err
}

// ListAdminPrograms returns every program regardless of status
func (c *Client) ListAdminPrograms(ctx context.Context, token string) ([]content.Program, error) {
	var programs []content.Program
	_, err := c.do(ctx, call{
		op: "list admin programs", method: http.MethodGet, endpoint: "/programs/admin", path: "/programs/admin",
		token: token, payload: PayloadData,
	}, &programs)
	return programs, err
}

func (c *Client) GetProgram(ctx context.Context, token string, id content.ID) (content.Program, error) {
	var program content.Program
	_, err := c.do(ctx, call{
		op: "get program", method: http.MethodGet, endpoint: "/programs/admin/:id", path: "/programs/admin/" + url.PathEscape(id.String()),
		token: token, payload: PayloadData,
	}, &program)
	return program, err
}

func (c *Client) CreateProgram(ctx context.Context, w Write, in ProgramInput) (Ack, error) {
	env, err := c.do(ctx, call{
		op: "create program", method: http.MethodPost, endpoint: "/programs/admin", path: "/programs/admin",
		body: in, token: w.Token, idempotencyKey: w.IdempotencyKey,
	}, nil)
	return ack(env), err
}

func (c *Client) UpdateProgram(ctx context.Context, w Write, id content.ID, in ProgramInput) (Ack, error) {
	env, err := c.do(ctx, call{
		op: "update program", method: http.MethodPut, endpoint: "/programs/admin/:id", path: "/programs/admin/" + url.PathEscape(id.String()),
		body: in, token: w.Token, idempotencyKey: w.IdempotencyKey,
	}, nil)
	return ack(env), err
}

func (c *Client) DeleteProgram(ctx context.Context, w Write, id content.ID) (Ack, error) {
	env, err := c.do(ctx, call{
		op: "delete program", method: http.MethodDelete, endpoint: "/programs/admin/:id", path: "/programs/admin/" + url.PathEscape(id.String()),
		token: w.Token, idempotencyKey: w.IdempotencyKey,
	}, nil)
	return ack(env), err
}

func ack(env *envelope) Ack {
	if env == nil {
		return Ack{}
	}
	return Ack{Message: env.message(), Token: env.Token}
}
