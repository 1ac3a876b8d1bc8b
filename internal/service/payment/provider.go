package payment

// Provider event kinds the orchestrator understands. Names follow the
// payment provider's event taxonomy; anything else is ignored.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventIntentSucceeded   = "payment_intent.succeeded"
	EventIntentFailed      = "payment_intent.payment_failed"
	EventCheckoutExpired   = "checkout.session.expired"
	EventChargeRefunded    = "charge.refunded"
)

// Event is a provider notification after signature verification,
// reduced to the identifiers the orchestrator dispatches on.
type Event struct {
	Kind              string
	CheckoutSessionID string
	PaymentIntentID   string
}

// CheckoutParams describes the checkout session to open for a pending
// payment.
type CheckoutParams struct {
	Amount        float64
	Currency      string
	ProductName   string
	ProductDesc   string
	SuccessURL    string
	CancelURL     string
	CustomerEmail string
	Metadata      map[string]string
}

// CheckoutSession is the provider-hosted transaction context.
type CheckoutSession struct {
	SessionID       string
	RedirectURL     string
	PaymentIntentID string
}

// Provider is the external payment service. Implemented by
// internal/infra/stripeprovider; faked in tests.
type Provider interface {
	// Enabled reports whether the provider is configured. When it is
	// not, CARD payments stay PENDING without a checkout session.
	Enabled() bool
	CreateCheckoutSession(p CheckoutParams) (*CheckoutSession, error)
	// VerifyWebhook checks the delivery signature against the raw body
	// and returns the decoded event. Must be called before any event is
	// interpreted.
	VerifyWebhook(payload []byte, signatureHeader string) (*Event, error)
}

// Mailer sends the best-effort receipt after activation.
type Mailer interface {
	SendReceipt(toEmail, transactionID string, amount float64) error
}
