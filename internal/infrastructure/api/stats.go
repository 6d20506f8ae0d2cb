package api

import (
	"context"
	"net/http"

	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
)

func (c *Client) ListStats(ctx context.Context) ([]content.Stat, error) {
	var stats []content.Stat
	_, err := c.do(ctx, call{
		op: "list stats", method: http.MethodGet, endpoint: "/stats", path: "/stats",
		payload: PayloadData,
	}, &stats)
	return stats, err
}

// UpdateStats replaces all four statistics in one call
func (c *Client) UpdateStats(ctx context.Context, w Write, stats []content.Stat) (Ack, error) {
	env, err := c.do(ctx, call{
		op: "update stats", method: http.MethodPut, endpoint: "/stats", path: "/stats",
		body: stats, token: w.Token, idempotencyKey: w.IdempotencyKey,
	}, nil)
	return ack(env), err
}
