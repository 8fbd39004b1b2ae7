package checkout

import (
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	appErrors "github.com/resulto-ai/resulto-gateway/pkg/errors"
)

// Request carries what the hosted checkout needs to open a session.
type Request struct {
	Email     string
	Reference string
	Amount    int64
	Currency  string
}

// Session points the user at a hosted checkout page. The gateway never sees
// card details; completion comes back as a reference to verify server-side.
type Session struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirectUrl"`
}

// SnapProvider opens hosted checkout sessions through Midtrans Snap.
type SnapProvider struct {
	client snap.Client
}

// NewSnapProvider initialises the Snap client with the server key.
func NewSnapProvider(serverKey string, sandbox bool) *SnapProvider {
	env := midtrans.Production
	if sandbox {
		env = midtrans.Sandbox
	}
	p := &SnapProvider{}
	p.client.New(serverKey, env)
	return p
}

// Open creates a checkout session for the given reference and amount.
func (p *SnapProvider) Open(req Request) (*Session, error) {
	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.Reference,
			GrossAmt: req.Amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			Email: req.Email,
		},
	}

	resp, err := p.client.CreateTransaction(snapReq)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "open hosted checkout")
	}
	return &Session{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}
