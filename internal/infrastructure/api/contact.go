package api

import (
	"context"
	"net/http"
)

// ContactMessage is the body of POST /contact/submit
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (c *Client) SubmitContact(ctx context.Context, w Write, msg ContactMessage) (Ack, error) {
	env, err := c.do(ctx, call{
		op: "submit contact", method: http.MethodPost, endpoint: "/contact/submit", path: "/contact/submit",
		body: msg, idempotencyKey: w.IdempotencyKey,
	}, nil)
	return ack(env), err
}
