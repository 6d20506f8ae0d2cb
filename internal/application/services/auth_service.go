package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/api"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/logging"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/performance"
)

// Decision is the outcome of checking a session before an admin page renders
type Decision string

const (
	DecisionAuthorized Decision = "authorized"
	// DecisionMissing means there is no usable session to check
	DecisionMissing Decision = "missing"
	// DecisionRejected means the API refused the token; the session must be cleared
	DecisionRejected Decision = "rejected"
	// DecisionUnavailable means no answer was obtained; the session is kept
	DecisionUnavailable Decision = "unavailable"
)

var errNoVerdict = errors.New("token validation gave no verdict")

// GateResult carries the decision and, for unavailable, the last error
type GateResult struct {
	Decision Decision
	Attempts int
	Err      error
}

// AuthGate decides whether a session may see admin pages
type AuthGate struct {
	client      *api.Client
	maxElapsed  time.Duration
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewAuthGate creates a gate. maxElapsed bounds the retries spent on
// validation calls that give no verdict.
func NewAuthGate(client *api.Client, maxElapsed time.Duration, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AuthGate {
	return &AuthGate{
		client:      client,
		maxElapsed:  maxElapsed,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// Check validates sess against the API. A session without both token and
// user is missing and never reaches the network.
func (g *AuthGate) Check(ctx context.Context, sess *content.Session) GateResult {
	if !sess.Valid() {
		g.record(DecisionMissing)
		return GateResult{Decision: DecisionMissing}
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = time.Second
	b.MaxElapsedTime = g.maxElapsed

	var (
		verdict  api.Verdict
		attempts int
	)
	op := func() error {
		attempts++
		v, err := g.client.ValidateToken(ctx, sess.Token)
		verdict = v
		switch v {
		case api.VerdictAuthenticated:
			return nil
		case api.VerdictRejected:
			return backoff.Permanent(err)
		}
		if api.IsCanceled(err) {
			return backoff.Permanent(err)
		}
		if err == nil {
			err = errNoVerdict
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		g.logger.Auth().Warn("Token validation inconclusive, retrying", "userId", logging.MaskID(sess.User.ID.String()), "error", err, "wait", wait)
	}

	err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify)

	var result GateResult
	switch {
	case err == nil:
		result = GateResult{Decision: DecisionAuthorized, Attempts: attempts}
	case verdict == api.VerdictRejected:
		result = GateResult{Decision: DecisionRejected, Attempts: attempts, Err: err}
	default:
		result = GateResult{Decision: DecisionUnavailable, Attempts: attempts, Err: err}
	}

	g.record(result.Decision)
	g.logger.LogAuthOperation("validate_session", sess.User.ID.String(), result.Decision == DecisionAuthorized, map[string]any{
		"decision": string(result.Decision),
		"attempts": attempts,
	})
	return result
}

func (g *AuthGate) record(d Decision) {
	if g.perfTracker != nil {
		g.perfTracker.CountGateDecision(string(d))
	}
}

// AuthService signs administrators in and manages their accounts' credentials
type AuthService struct {
	client *api.Client
	logger *logging.ChanneledLogger
}

// NewAuthService creates a new auth application service
func NewAuthService(client *api.Client, logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{
		client: client,
		logger: logger,
	}
}

// Login exchanges credentials for a session
func (s *AuthService) Login(ctx context.Context, w api.Write, cred api.Credentials) (content.Session, error) {
	result, err := s.client.Login(ctx, w, cred)
	if err != nil {
		s.logger.LogAuthOperation("login", "", false, map[string]any{"kind": string(api.KindOf(err))})
		return content.Session{}, fmt.Errorf("failed to log in: %w", err)
	}
	sess, ok := result.Session()
	if !ok {
		s.logger.LogAuthOperation("login", "", false, map[string]any{"reason": "incomplete session"})
		return content.Session{}, &api.Error{Kind: api.KindMalformed, Op: "login", Err: errors.New("response carried no token or user")}
	}
	s.logger.LogAuthOperation("login", sess.User.ID.String(), true, nil)
	return sess, nil
}

// Register creates an administrator account. The session is returned only
// when the API signs the new user in straight away.
func (s *AuthService) Register(ctx context.Context, w api.Write, reg api.Registration) (api.AuthResult, error) {
	result, err := s.client.Register(ctx, w, reg)
	if err != nil {
		s.logger.LogAuthOperation("register", "", false, map[string]any{"kind": string(api.KindOf(err))})
		return api.AuthResult{}, fmt.Errorf("failed to register: %w", err)
	}
	s.logger.LogAuthOperation("register", result.User.ID.String(), true, nil)
	return result, nil
}

// ResetPassword sets a new password for the account with the given email
func (s *AuthService) ResetPassword(ctx context.Context, w api.Write, reset api.PasswordReset) (api.AuthResult, error) {
	result, err := s.client.ResetPassword(ctx, w, reset)
	if err != nil {
		s.logger.LogAuthOperation("reset_password", "", false, map[string]any{"kind": string(api.KindOf(err))})
		return api.AuthResult{}, fmt.Errorf("failed to reset password: %w", err)
	}
	s.logger.LogAuthOperation("reset_password", result.User.ID.String(), true, nil)
	return result, nil
}
