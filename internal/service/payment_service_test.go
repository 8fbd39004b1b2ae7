package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resulto-ai/resulto-gateway/internal/checkout"
	"github.com/resulto-ai/resulto-gateway/internal/models"
	appErrors "github.com/resulto-ai/resulto-gateway/pkg/errors"
)

type stubPaymentAPI struct {
	verifyErr   error
	verifyCalls int
	lastRef     string
}

func (s *stubPaymentAPI) VerifyPayment(ctx context.Context, token, reference string) error {
	s.verifyCalls++
	s.lastRef = reference
	return s.verifyErr
}

type stubCheckoutProvider struct {
	session *checkout.Session
	err     error
	lastReq checkout.Request
	calls   int
}

func (s *stubCheckoutProvider) Open(req checkout.Request) (*checkout.Session, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.session, nil
}

func newPaymentService(t *testing.T, api *stubPaymentAPI, provider *stubCheckoutProvider) (*PaymentService, *SessionService) {
	t.Helper()
	session := newSignedInSession(t)
	svc := NewPaymentService(api, provider, session, nil, 150000, "NGN", nil, nil)
	return svc, session
}

func TestOpenCheckoutRequiresSignIn(t *testing.T) {
	provider := &stubCheckoutProvider{session: &checkout.Session{Token: "tok"}}
	session := NewSessionService(&mockSessionAPI{}, &memTokenStore{}, nil, nil, nil)
	svc := NewPaymentService(&stubPaymentAPI{}, provider, session, nil, 150000, "NGN", nil, nil)

	_, err := svc.OpenCheckout("ada@example.com")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrAuthRequired))
	assert.Zero(t, provider.calls)
}

func TestOpenCheckoutRejectsInvalidEmail(t *testing.T) {
	provider := &stubCheckoutProvider{session: &checkout.Session{Token: "tok"}}
	svc, _ := newPaymentService(t, &stubPaymentAPI{}, provider)

	_, err := svc.OpenCheckout("not-an-email")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Zero(t, provider.calls)
	assert.Equal(t, models.PaymentIdle, svc.State())
}

func TestOpenCheckoutIssuesReference(t *testing.T) {
	provider := &stubCheckoutProvider{session: &checkout.Session{Token: "tok", RedirectURL: "http://pay"}}
	svc, _ := newPaymentService(t, &stubPaymentAPI{}, provider)

	result, err := svc.OpenCheckout("ada@example.com")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Reference, "REF_RESULT_"))
	assert.Equal(t, "http://pay", result.Session.RedirectURL)
	assert.Equal(t, models.PaymentCheckoutOpen, svc.State())
	assert.Equal(t, int64(150000), provider.lastReq.Amount)
	assert.Equal(t, "NGN", provider.lastReq.Currency)

	// Re-opening issues a fresh reference.
	second, err := svc.OpenCheckout("ada@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, result.Reference, second.Reference)
}

func TestCompleteWithoutOpenCheckout(t *testing.T) {
	svc, _ := newPaymentService(t, &stubPaymentAPI{}, &stubCheckoutProvider{session: &checkout.Session{}})

	err := svc.Complete(context.Background(), "REF_RESULT_x")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
}

func TestCompleteRejectsUnknownReference(t *testing.T) {
	svc, _ := newPaymentService(t, &stubPaymentAPI{}, &stubCheckoutProvider{session: &checkout.Session{}})
	_, err := svc.OpenCheckout("ada@example.com")
	require.NoError(t, err)

	err = svc.Complete(context.Background(), "REF_RESULT_other")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Equal(t, models.PaymentCheckoutOpen, svc.State())
}

func TestCompleteUnlocksPremium(t *testing.T) {
	api := &stubPaymentAPI{}
	svc, session := newPaymentService(t, api, &stubCheckoutProvider{session: &checkout.Session{}})
	result, err := svc.OpenCheckout("ada@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.Complete(context.Background(), result.Reference))
	assert.Equal(t, models.PaymentUnlocked, svc.State())
	assert.True(t, session.Snapshot().IsPremium)
	assert.Equal(t, result.Reference, api.lastRef)
}

func TestCompleteFailureSetsFailed(t *testing.T) {
	api := &stubPaymentAPI{verifyErr: appErrors.Clone(appErrors.ErrPaymentRejected, "")}
	svc, session := newPaymentService(t, api, &stubCheckoutProvider{session: &checkout.Session{}})
	result, err := svc.OpenCheckout("ada@example.com")
	require.NoError(t, err)

	err = svc.Complete(context.Background(), result.Reference)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrPaymentRejected))
	assert.Equal(t, models.PaymentFailed, svc.State())
	assert.False(t, session.Snapshot().IsPremium)
}

func TestCompleteTriggersPremiumRegeneration(t *testing.T) {
	genAPI := &stubGenerationAPI{generateResp: &models.GenerationResponse{ImageURL: "http://img/2.png"}}
	session := newSignedInSession(t)
	ledger := NewLedgerService(nil)
	generator := NewGeneratorService(genAPI, session, ledger, &stubComposer{}, nil, nil, nil, nil)
	_, err := generator.Generate(context.Background())
	require.NoError(t, err)

	svc := NewPaymentService(&stubPaymentAPI{}, &stubCheckoutProvider{session: &checkout.Session{}}, session, generator, 150000, "NGN", nil, nil)
	result, err := svc.OpenCheckout("ada@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.Complete(context.Background(), result.Reference))
	require.NotNil(t, genAPI.lastRequest)
	assert.True(t, genAPI.lastRequest.IsPremium)
}

func TestCancelOnlyFromCheckoutOpen(t *testing.T) {
	svc, _ := newPaymentService(t, &stubPaymentAPI{}, &stubCheckoutProvider{session: &checkout.Session{}})

	svc.Cancel()
	assert.Equal(t, models.PaymentIdle, svc.State())

	result, err := svc.OpenCheckout("ada@example.com")
	require.NoError(t, err)
	svc.Cancel()
	assert.Equal(t, models.PaymentIdle, svc.State())

	// A cancelled reference can no longer complete.
	err = svc.Complete(context.Background(), result.Reference)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
}

func TestResetReturnsIdle(t *testing.T) {
	svc, _ := newPaymentService(t, &stubPaymentAPI{}, &stubCheckoutProvider{session: &checkout.Session{}})
	result, err := svc.OpenCheckout("ada@example.com")
	require.NoError(t, err)
	require.NoError(t, svc.Complete(context.Background(), result.Reference))

	svc.Reset()
	assert.Equal(t, models.PaymentIdle, svc.State())
}
