package stripeprovider

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"moviestream-app/internal/domain/apperr"
	"moviestream-app/internal/service/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

const testWebhookSecret = "whsec_test_secret"

func signedHeader(t *testing.T, payload []byte, at time.Time) string {
	t.Helper()
	sig := webhook.ComputeSignature(at, payload, testWebhookSecret)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(sig))
}

func eventPayload(t *testing.T, eventType string, object interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(object)
	require.NoError(t, err)
	body, err := json.Marshal(map[string]interface{}{
		"id":      "evt_test_1",
		"type":    eventType,
		"created": time.Now().Unix(),
		"data":    map[string]interface{}{"object": json.RawMessage(raw)},
	})
	require.NoError(t, err)
	return body
}

func TestVerifyWebhook_ValidSignature(t *testing.T) {
	g := New("", testWebhookSecret)

	payload := eventPayload(t, "checkout.session.completed", map[string]interface{}{
		"id":             "cs_test_123",
		"payment_intent": map[string]interface{}{"id": "pi_test_456"},
	})

	ev, err := g.VerifyWebhook(payload, signedHeader(t, payload, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, payment.EventCheckoutCompleted, ev.Kind)
	assert.Equal(t, "cs_test_123", ev.CheckoutSessionID)
	assert.Equal(t, "pi_test_456", ev.PaymentIntentID)
}

func TestVerifyWebhook_BadSignature(t *testing.T) {
	g := New("", testWebhookSecret)

	payload := eventPayload(t, "checkout.session.completed", map[string]interface{}{
		"id": "cs_test_123",
	})

	_, err := g.VerifyWebhook(payload, "t=123,v1=deadbeef")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrSignature))
}

func TestVerifyWebhook_TamperedPayload(t *testing.T) {
	g := New("", testWebhookSecret)

	payload := eventPayload(t, "checkout.session.completed", map[string]interface{}{
		"id": "cs_test_123",
	})
	header := signedHeader(t, payload, time.Now())

	tampered := eventPayload(t, "checkout.session.completed", map[string]interface{}{
		"id": "cs_test_999",
	})

	_, err := g.VerifyWebhook(tampered, header)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrSignature))
}

func TestTranslateEvent_PaymentIntent(t *testing.T) {
	raw := json.RawMessage(`{"id":"pi_test_789"}`)
	ev, err := translateEvent(&stripe.Event{
		Type: "payment_intent.payment_failed",
		Data: &stripe.EventData{Raw: raw},
	})
	require.NoError(t, err)
	assert.Equal(t, payment.EventIntentFailed, ev.Kind)
	assert.Equal(t, "pi_test_789", ev.PaymentIntentID)
	assert.Empty(t, ev.CheckoutSessionID)
}

func TestTranslateEvent_ChargeRefunded(t *testing.T) {
	raw := json.RawMessage(`{"id":"ch_test_1","payment_intent":{"id":"pi_test_42"}}`)
	ev, err := translateEvent(&stripe.Event{
		Type: "charge.refunded",
		Data: &stripe.EventData{Raw: raw},
	})
	require.NoError(t, err)
	assert.Equal(t, payment.EventChargeRefunded, ev.Kind)
	assert.Equal(t, "pi_test_42", ev.PaymentIntentID)
}

func TestTranslateEvent_UnhandledKind(t *testing.T) {
	ev, err := translateEvent(&stripe.Event{
		Type: "invoice.paid",
		Data: &stripe.EventData{Raw: json.RawMessage(`{}`)},
	})
	require.NoError(t, err)
	assert.Equal(t, "invoice.paid", ev.Kind)
	assert.Empty(t, ev.CheckoutSessionID)
	assert.Empty(t, ev.PaymentIntentID)
}

func TestGatewayDisabledWithoutKey(t *testing.T) {
	assert.False(t, New("", testWebhookSecret).Enabled())
	assert.True(t, New("sk_test_key", testWebhookSecret).Enabled())
}
