package stripeprovider

import (
	"encoding/json"

	"moviestream-app/internal/domain/apperr"
	"moviestream-app/internal/service/payment"

	"github.com/stripe/stripe-go/v75"
)

// translateEvent reduces a Stripe event to the identifiers the payment
// orchestrator keys on. Event types we do not handle come back with
// their kind set and no ids, which the orchestrator ignores.
func translateEvent(event *stripe.Event) (*payment.Event, error) {
	out := &payment.Event{Kind: string(event.Type)}

	switch event.Type {
	case payment.EventCheckoutCompleted, payment.EventCheckoutExpired:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, apperr.Invalid("parsing checkout session payload: %v", err)
		}
		out.CheckoutSessionID = session.ID
		if session.PaymentIntent != nil {
			out.PaymentIntentID = session.PaymentIntent.ID
		}

	case payment.EventIntentSucceeded, payment.EventIntentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, apperr.Invalid("parsing payment intent payload: %v", err)
		}
		out.PaymentIntentID = intent.ID

	case payment.EventChargeRefunded:
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return nil, apperr.Invalid("parsing charge payload: %v", err)
		}
		if charge.PaymentIntent != nil {
			out.PaymentIntentID = charge.PaymentIntent.ID
		}
	}

	return out, nil
}
