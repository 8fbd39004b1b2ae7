package service

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/resulto-ai/resulto-gateway/internal/checkout"
	"github.com/resulto-ai/resulto-gateway/internal/models"
	appErrors "github.com/resulto-ai/resulto-gateway/pkg/errors"
)

const referencePrefix = "REF_RESULT_"

type paymentAPI interface {
	VerifyPayment(ctx context.Context, token, reference string) error
}

// checkoutProvider opens a hosted checkout page for the charge.
type checkoutProvider interface {
	Open(req checkout.Request) (*checkout.Session, error)
}

// CheckoutResult is what the caller needs to hand the user over to the
// hosted page.
type CheckoutResult struct {
	Reference string            `json:"reference"`
	Session   *checkout.Session `json:"session"`
}

// PaymentService drives the premium upgrade through a fixed state machine:
// Idle -> CheckoutOpen -> Verifying -> Unlocked or Failed. Only a verified
// charge flips the session to premium.
type PaymentService struct {
	api       paymentAPI
	provider  checkoutProvider
	session   *SessionService
	generator *GeneratorService
	validate  *validator.Validate
	logger    *zap.Logger

	amount   int64
	currency string

	mu        sync.Mutex
	state     models.PaymentState
	reference string
}

// NewPaymentService constructs the state machine in Idle. validate and
// logger may be nil.
func NewPaymentService(api paymentAPI, provider checkoutProvider, session *SessionService, generator *GeneratorService, amount int64, currency string, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		api:       api,
		provider:  provider,
		session:   session,
		generator: generator,
		validate:  validate,
		logger:    logger,
		amount:    amount,
		currency:  currency,
		state:     models.PaymentIdle,
	}
}

// OpenCheckout creates a fresh charge reference and a hosted checkout
// session for it. Re-opening from CheckoutOpen or Failed simply issues a new
// reference; an in-flight verification refuses the request.
func (s *PaymentService) OpenCheckout(email string) (*CheckoutResult, error) {
	if !s.session.IsSignedIn() {
		return nil, appErrors.Clone(appErrors.ErrAuthRequired, "sign in to upgrade")
	}
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "enter a valid email address")
	}

	s.mu.Lock()
	if s.state == models.PaymentVerifying {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrConflict, "a payment is already being verified")
	}
	if s.state == models.PaymentUnlocked {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrConflict, "premium is already unlocked")
	}
	s.mu.Unlock()

	reference := referencePrefix + uuid.NewString()
	session, err := s.provider.Open(checkout.Request{
		Email:     email,
		Reference: reference,
		Amount:    s.amount,
		Currency:  s.currency,
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.state = models.PaymentCheckoutOpen
	s.reference = reference
	s.mu.Unlock()

	s.logger.Info("checkout opened", zap.String("reference", reference))
	return &CheckoutResult{Reference: reference, Session: session}, nil
}

// Complete verifies the charge for the open reference. Success latches
// premium on the session and re-generates the current result so the unlocked
// rendition replaces the free one.
func (s *PaymentService) Complete(ctx context.Context, reference string) error {
	s.mu.Lock()
	if s.state != models.PaymentCheckoutOpen {
		s.mu.Unlock()
		return appErrors.Clone(appErrors.ErrConflict, "no checkout is open")
	}
	if reference == "" || reference != s.reference {
		s.mu.Unlock()
		return appErrors.Clone(appErrors.ErrValidation, "unknown payment reference")
	}
	s.state = models.PaymentVerifying
	s.mu.Unlock()

	if err := s.api.VerifyPayment(ctx, s.session.Token(), reference); err != nil {
		s.mu.Lock()
		s.state = models.PaymentFailed
		s.mu.Unlock()
		s.logger.Warn("payment verification failed", zap.String("reference", reference), zap.Error(err))
		return err
	}

	s.session.GrantPremium()
	s.mu.Lock()
	s.state = models.PaymentUnlocked
	s.mu.Unlock()
	s.logger.Info("premium unlocked", zap.String("reference", reference))

	// The user already has a free-tier result on screen; swap it for the
	// premium rendition. A failure here does not undo the unlock.
	if s.generator != nil && s.generator.Current() != nil {
		if _, err := s.generator.Generate(ctx); err != nil {
			s.logger.Warn("premium re-generation failed", zap.Error(err))
		}
	}
	return nil
}

// Cancel abandons an open checkout. It only acts in CheckoutOpen; a
// verification in flight runs to completion.
func (s *PaymentService) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != models.PaymentCheckoutOpen {
		return
	}
	s.state = models.PaymentIdle
	s.reference = ""
}

// Reset returns the machine to Idle, used on sign-out.
func (s *PaymentService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = models.PaymentIdle
	s.reference = ""
}

// State reports the current position in the checkout flow.
func (s *PaymentService) State() models.PaymentState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
