package stripe

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"

	"storefront/internal/service"
)

const testSecret = "whsec_test_verifier"

func sign(payload []byte, secret string) (body []byte, header string) {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	})
	return signed.Payload, signed.Header
}

func TestVerifier_CheckoutSessionCompleted(t *testing.T) {
	body, header := sign([]byte(`{
		"id": "evt_1",
		"object": "event",
		"api_version": "2020-08-27",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_test_1", "object": "checkout.session"}}
	}`), testSecret)

	event, err := NewVerifier().VerifyEvent(body, header, testSecret)

	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, service.EventCheckoutSessionCompleted, event.Type)
	assert.Equal(t, "cs_test_1", event.SessionID)
}

func TestVerifier_OtherEventHasNoSession(t *testing.T) {
	body, header := sign([]byte(`{
		"id": "evt_2",
		"object": "event",
		"type": "payment_intent.created",
		"data": {"object": {"id": "pi_1", "object": "payment_intent"}}
	}`), testSecret)

	event, err := NewVerifier().VerifyEvent(body, header, testSecret)

	require.NoError(t, err)
	assert.Equal(t, "payment_intent.created", event.Type)
	assert.Empty(t, event.SessionID)
}

func TestVerifier_MalformedSessionIDStillVerifies(t *testing.T) {
	body, header := sign([]byte(`{
		"id": "evt_6",
		"object": "event",
		"type": "checkout.session.completed",
		"data": {"object": {"id": 12345, "object": "checkout.session"}}
	}`), testSecret)

	event, err := NewVerifier().VerifyEvent(body, header, testSecret)

	require.NoError(t, err)
	assert.Equal(t, service.EventCheckoutSessionCompleted, event.Type)
	assert.Empty(t, event.SessionID)
}

func TestVerifier_RejectsTamperedBody(t *testing.T) {
	body, header := sign([]byte(`{"id":"evt_3","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_a"}}}`), testSecret)
	tampered := bytes.Replace(body, []byte("cs_a"), []byte("cs_b"), 1)

	_, err := NewVerifier().VerifyEvent(tampered, header, testSecret)

	assert.Error(t, err)
}

func TestVerifier_RejectsWrongSecret(t *testing.T) {
	body, header := sign([]byte(`{"id":"evt_4","object":"event","type":"checkout.session.completed"}`), "whsec_other")

	_, err := NewVerifier().VerifyEvent(body, header, testSecret)

	assert.Error(t, err)
}

func TestVerifier_RejectsMalformedHeader(t *testing.T) {
	body := []byte(`{"id":"evt_5","object":"event","type":"checkout.session.completed"}`)

	for _, header := range []string{"", "garbage", "t=123,v1=abc"} {
		_, err := NewVerifier().VerifyEvent(body, header, testSecret)
		assert.Error(t, err, "header %q", header)
	}
}
