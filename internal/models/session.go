package models

// AuthState is the session lifecycle state. Exactly one holds at any time.
type AuthState string

const (
	AuthSignedOut AuthState = "signed_out"
	AuthVerifying AuthState = "verifying"
	AuthSignedIn  AuthState = "signed_in"
)

// UserIdentity is the remote service's view of the signed-in user.
type UserIdentity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IsPremium   bool   `json:"isPremium"`
}

// Session is the authenticated state shared by every component. The token is
// the only durable field; identity and the premium flag are re-derived by
// verifying the token on startup.
type Session struct {
	State     AuthState     `json:"state"`
	Token     string        `json:"-"`
	User      *UserIdentity `json:"user,omitempty"`
	IsPremium bool          `json:"isPremium"`
}
