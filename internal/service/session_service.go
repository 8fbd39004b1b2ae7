package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/resulto-ai/resulto-gateway/internal/models"
	appErrors "github.com/resulto-ai/resulto-gateway/pkg/errors"
)

type sessionAPI interface {
	VerifySession(ctx context.Context, token string) (*models.UserIdentity, error)
	ExchangeGoogleToken(ctx context.Context, idToken string) (*models.UserIdentity, string, error)
}

type tokenStore interface {
	Save(token string) error
	Load() (string, error)
	Clear() error
}

// CredentialVerifier pre-checks a federated credential before it is sent for
// exchange. Nil skips the pre-check and lets the remote exchange decide.
type CredentialVerifier interface {
	Verify(idToken string) error
}

// sessionRevoker notifies the identity provider that the federated session
// ended. Best effort; failures are only logged.
type sessionRevoker interface {
	Revoke(ctx context.Context, uid string) error
}

// SessionService owns the authenticated state every other component gates
// on. Exactly one of SignedOut/Verifying/SignedIn holds at any time.
type SessionService struct {
	api      sessionAPI
	store    tokenStore
	verifier CredentialVerifier
	revoker  sessionRevoker
	logger   *zap.Logger

	mu      sync.Mutex
	state   models.AuthState
	token   string
	user    *models.UserIdentity
	premium bool
}

// NewSessionService constructs a signed-out session. verifier and revoker
// may be nil.
func NewSessionService(api sessionAPI, store tokenStore, verifier CredentialVerifier, revoker sessionRevoker, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		api:      api,
		store:    store,
		verifier: verifier,
		revoker:  revoker,
		logger:   logger,
		state:    models.AuthSignedOut,
	}
}

// Restore re-establishes a session from the durable token, if any. Any
// failure (network or rejection) discards the token and lands signed out,
// so calling Restore again changes nothing further.
func (s *SessionService) Restore(ctx context.Context) error {
	token, err := s.store.Load()
	if err != nil {
		s.logger.Warn("failed to read durable token", zap.Error(err))
		return nil
	}
	if token == "" {
		s.setSignedOut()
		return nil
	}

	s.mu.Lock()
	s.state = models.AuthVerifying
	s.mu.Unlock()

	identity, err := s.api.VerifySession(ctx, token)
	if err != nil {
		s.logger.Info("stored session rejected, signing out", zap.Error(err))
		if clearErr := s.store.Clear(); clearErr != nil {
			s.logger.Warn("failed to clear durable token", zap.Error(clearErr))
		}
		s.setSignedOut()
		return nil
	}

	s.mu.Lock()
	s.state = models.AuthSignedIn
	s.token = token
	s.user = identity
	s.premium = identity.IsPremium
	s.mu.Unlock()
	s.logger.Info("session restored", zap.String("uid", identity.UID))
	return nil
}

// SignInWithGoogle exchanges a Google ID token for a session. The credential
// is optionally pre-verified against the configured client ID before the
// network exchange.
func (s *SessionService) SignInWithGoogle(ctx context.Context, idToken string) (*models.UserIdentity, error) {
	if idToken == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "id_token required")
	}
	if s.verifier != nil {
		if err := s.verifier.Verify(idToken); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrVerification.Code, appErrors.ErrVerification.Status, "invalid Google credential")
		}
	}

	identity, token, err := s.api.ExchangeGoogleToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(token); err != nil {
		// A session that does not survive a restart is still a session.
		s.logger.Warn("failed to persist session token", zap.Error(err))
	}

	s.mu.Lock()
	s.state = models.AuthSignedIn
	s.token = token
	s.user = identity
	s.premium = identity.IsPremium
	s.mu.Unlock()
	s.logger.Info("signed in", zap.String("uid", identity.UID))
	return identity, nil
}

// SignOut discards the session in memory and on disk and notifies the
// identity provider best-effort.
func (s *SessionService) SignOut(ctx context.Context) {
	s.mu.Lock()
	uid := ""
	if s.user != nil {
		uid = s.user.UID
	}
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		s.logger.Warn("failed to clear durable token", zap.Error(err))
	}
	s.setSignedOut()

	if s.revoker != nil && uid != "" {
		if err := s.revoker.Revoke(ctx, uid); err != nil {
			s.logger.Warn("federated session revoke failed", zap.Error(err))
		}
	}
	s.logger.Info("signed out")
}

// GrantPremium latches the premium flag. It stays set until sign-out.
func (s *SessionService) GrantPremium() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.premium = true
	if s.user != nil {
		s.user.IsPremium = true
	}
}

// IsSignedIn reports whether the session is established.
func (s *SessionService) IsSignedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == models.AuthSignedIn
}

// Token returns the bearer token, or "" when signed out.
func (s *SessionService) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Snapshot returns a copy of the current session for display.
func (s *SessionService) Snapshot() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := models.Session{State: s.state, IsPremium: s.premium}
	if s.user != nil {
		user := *s.user
		snap.User = &user
	}
	return snap
}

func (s *SessionService) setSignedOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = models.AuthSignedOut
	s.token = ""
	s.user = nil
	s.premium = false
}
