package api

import (
	"context"
	"errors"
	"net/http"
)

// Verdict is the outcome of asking the API whether a token is still good
type Verdict string

const (
	VerdictAuthenticated Verdict = "authenticated"
	// VerdictRejected means the API answered and said no
	VerdictRejected Verdict = "rejected"
	// VerdictUnknown means no trustworthy answer was obtained
	VerdictUnknown Verdict = "unknown"
)

// ValidateToken calls GET /auth/validate and maps the outcome to a verdict.
// A 2xx without a structured success:false is treated as authenticated.
func (c *Client) ValidateToken(ctx context.Context, token string) (Verdict, error) {
	_, err := c.do(ctx, call{
		op: "validate token", method: http.MethodGet, endpoint: "/auth/validate", path: "/auth/validate",
		token: token,
	}, nil)
	return VerdictFor(err), err
}

// VerdictFor classifies an error from the validation call
func VerdictFor(err error) Verdict {
	if err == nil {
		return VerdictAuthenticated
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return VerdictUnknown
	}
	if apiErr.Kind != KindRejected {
		return VerdictUnknown
	}
	// success:false on a 2xx is a structured rejection
	if apiErr.Status >= 200 && apiErr.Status < 300 {
		return VerdictRejected
	}
	if apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden {
		return VerdictRejected
	}
	return VerdictUnknown
}
