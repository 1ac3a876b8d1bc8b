package stripeprovider

import (
	"math"
	"strings"

	"moviestream-app/internal/domain/apperr"
	"moviestream-app/internal/service/payment"

	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	"github.com/stripe/stripe-go/v75/webhook"
)

// Gateway talks to Stripe Checkout and verifies webhook deliveries. A
// zero-value secret key yields a disabled gateway so the rest of the
// app can run without Stripe credentials.
type Gateway struct {
	secretKey     string
	webhookSecret string
}

func New(secretKey, webhookSecret string) *Gateway {
	if secretKey != "" {
		stripe.Key = secretKey
	}
	return &Gateway{secretKey: secretKey, webhookSecret: webhookSecret}
}

func (g *Gateway) Enabled() bool {
	return g.secretKey != ""
}

// CreateCheckoutSession opens a one-time payment Checkout session with
// inline price data, so plans never need pre-registered Stripe prices.
func (g *Gateway) CreateCheckoutSession(p payment.CheckoutParams) (*payment.CheckoutSession, error) {
	currency := strings.ToLower(p.Currency)
	if currency == "" {
		currency = "usd"
	}

	priceData := &stripe.CheckoutSessionLineItemPriceDataParams{
		Currency:   stripe.String(currency),
		UnitAmount: stripe.Int64(int64(math.Round(p.Amount * 100))),
		ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(p.ProductName),
		},
	}
	if p.ProductDesc != "" {
		priceData.ProductData.Description = stripe.String(p.ProductDesc)
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{PriceData: priceData, Quantity: stripe.Int64(1)},
		},
	}
	if p.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(p.CustomerEmail)
	}
	if len(p.Metadata) > 0 {
		params.Metadata = p.Metadata
		params.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: p.Metadata,
		}
	}

	s, err := checkoutsession.New(params)
	if err != nil {
		return nil, apperr.External("stripe checkout session: %v", err)
	}

	out := &payment.CheckoutSession{SessionID: s.ID, RedirectURL: s.URL}
	if s.PaymentIntent != nil {
		out.PaymentIntentID = s.PaymentIntent.ID
	}
	return out, nil
}

// VerifyWebhook checks the Stripe-Signature header against the raw
// payload and translates the event into the gateway-neutral form.
func (g *Gateway) VerifyWebhook(payload []byte, signature string) (*payment.Event, error) {
	event, err := webhook.ConstructEventWithOptions(
		payload,
		signature,
		g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		return nil, apperr.Signature("stripe signature verification failed: %v", err)
	}
	return translateEvent(&event)
}
