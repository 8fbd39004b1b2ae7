package models

// PaymentState tracks the checkout flow for the premium upgrade.
type PaymentState string

const (
	PaymentIdle         PaymentState = "idle"
	PaymentCheckoutOpen PaymentState = "checkout_open"
	PaymentVerifying    PaymentState = "verifying"
	PaymentUnlocked     PaymentState = "unlocked"
	PaymentFailed       PaymentState = "failed"
)
