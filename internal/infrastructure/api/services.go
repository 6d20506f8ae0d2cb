package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
)

// ServiceInput is the body of service create/update
type ServiceInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	IsActive    bool   `json:"isActive"`
}

// ListServices returns all services; the API wraps them in "services"
func (c *Client) ListServices(ctx context.Context) ([]content.Service, error) {
	var services []content.Service
	_, err := c.do(ctx, call{
		op: "list services", method: http.MethodGet, endpoint: "/services", path: "/services",
		payload: PayloadServices,
	}, &services)
	return services, err
}

func (c *Client) GetService(ctx context.Context, token string, id content.ID) (content.Service, error) {
	var service content.Service
	_, err := c.do(ctx, call{
		op: "get service", method: http.MethodGet, endpoint: "/services/:id", path: "/services/" + url.PathEscape(id.String()),
		token: token, payload: PayloadService,
	}, &service)
	return service, err
}

func (c *Client) CreateService(ctx context.Context, w Write, in ServiceInput) (Ack, error) {
	env, err := c.do(ctx, call{
		op: "create service", method: http.MethodPost, endpoint: "/services", path: "/services",
		body: in, token: w.Token, idempotencyKey: w.IdempotencyKey,
	}, nil)
	return ack(env), err
}

func (c *Client) UpdateService(ctx context.Context, w Write, id content.ID, in ServiceInput) (Ack, error) {
	env, err := c.do(ctx, call{
		op: "update service", method: http.MethodPut, endpoint: "/services/:id", path: "/services/" + url.PathEscape(id.String()),
		body: in, token: w.Token, idempotencyKey: w.IdempotencyKey,
	}, nil)
	return ack(env), err
}

func (c *Client) DeleteService(ctx context.Context, w Write, id content.ID) (Ack, error) {
	env, err := c.do(ctx, call{
		op: "delete service", method: http.MethodDelete, endpoint: "/services/:id", path: "/services/" + url.PathEscape(id.String()),
		token: w.Token, idempotencyKey: w.IdempotencyKey,
	}, nil)
	return ack(env), err
}

// ToggleService flips isActive and returns the updated row when the API sends one
func (c *Client) ToggleService(ctx context.Context, w Write, id content.ID) (content.Service, bool, error) {
	var service content.Service
	env, err := c.do(ctx, call{
		op: "toggle service", method: http.MethodPatch, endpoint: "/services/:id/toggle-status", path: "/services/" + url.PathEscape(id.String()) + "/toggle-status",
		token: w.Token, idempotencyKey: w.IdempotencyKey,
	}, nil)
	if err != nil {
		return service, false, err
	}
	if raw := env.payload(PayloadService); raw != nil {
		if decodeErr := json.Unmarshal(raw, &service); decodeErr == nil && service.ID != "" {
			return service, true, nil
		}
	}
	return service, false, nil
}
