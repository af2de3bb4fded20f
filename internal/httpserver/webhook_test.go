package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/flvvius/ecommerce-jewelry/internal/payment"
)

type stubReconciler struct {
	events []*payment.Event
}

func (s *stubReconciler) HandleEvent(_ context.Context, evt *payment.Event) error {
	s.events = append(s.events, evt)
	return nil
}

const webhookSecret = "whsec_test"

func sessionCompletedPayload() []byte {
	return []byte(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_1", "payment_intent": "pi_1", "metadata": {"cart_id": "cart-1"}}}
	}`)
}

func postWebhook(t *testing.T, deps Deps, payload []byte, sign bool) *httptest.ResponseRecorder {
	t.Helper()
	router := buildRouter(zerolog.Nop(), nil, deps)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader(payload))
	if sign {
		req.Header.Set(signatureHeader, payment.SignPayload(payload, time.Now(), webhookSecret))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestWebhookValidSignature(t *testing.T) {
	reconciler := &stubReconciler{}
	deps := Deps{Reconciler: reconciler, WebhookSecret: webhookSecret}

	w := postWebhook(t, deps, sessionCompletedPayload(), true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]bool
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp["received"] {
		t.Fatalf("expected received=true, got %v", resp)
	}
	if len(reconciler.events) != 1 || reconciler.events[0].ID != "evt_1" {
		t.Fatalf("expected one reconciled event, got %+v", reconciler.events)
	}
}

func TestWebhookMissingSignature(t *testing.T) {
	reconciler := &stubReconciler{}
	deps := Deps{Reconciler: reconciler, WebhookSecret: webhookSecret}

	w := postWebhook(t, deps, sessionCompletedPayload(), false)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if len(reconciler.events) != 0 {
		t.Fatalf("reconciler must not see unverified events")
	}
}

func TestWebhookTamperedPayload(t *testing.T) {
	reconciler := &stubReconciler{}
	deps := Deps{Reconciler: reconciler, WebhookSecret: webhookSecret}

	router := buildRouter(zerolog.Nop(), nil, deps)
	payload := sessionCompletedPayload()
	header := payment.SignPayload(payload, time.Now(), webhookSecret)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader([]byte(`{"id":"evt_evil"}`)))
	req.Header.Set(signatureHeader, header)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if len(reconciler.events) != 0 {
		t.Fatalf("reconciler must not see tampered events")
	}
}

func TestWebhookUnknownEventType(t *testing.T) {
	reconciler := &stubReconciler{}
	deps := Deps{Reconciler: reconciler, WebhookSecret: webhookSecret}

	payload := []byte(`{"id":"evt_2","type":"invoice.finalized","data":{"object":{}}}`)
	w := postWebhook(t, deps, payload, true)
	if w.Code != http.StatusOK {
		t.Fatalf("unknown event types must still be acked, got %d", w.Code)
	}
	if len(reconciler.events) != 1 {
		t.Fatalf("expected pass-through event, got %+v", reconciler.events)
	}
}

func TestWebhookMalformedEventStillAcked(t *testing.T) {
	reconciler := &stubReconciler{}
	deps := Deps{Reconciler: reconciler, WebhookSecret: webhookSecret}

	for _, payload := range [][]byte{
		[]byte(`not json`),
		[]byte(`{"id":"evt_x","type":"checkout.session.completed","data":{"object":{}}}`),
	} {
		w := postWebhook(t, deps, payload, true)
		if w.Code != http.StatusOK {
			t.Fatalf("signed deliveries are acked even when unparseable, got %d for %s", w.Code, payload)
		}
	}
	if len(reconciler.events) != 0 {
		t.Fatalf("reconciler must not see unparseable events, got %+v", reconciler.events)
	}
}

func TestWebhookNoSecretConfigured(t *testing.T) {
	reconciler := &stubReconciler{}

	w := postWebhook(t, Deps{Reconciler: reconciler}, sessionCompletedPayload(), false)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when no secret is configured, got %d", w.Code)
	}

	w = postWebhook(t, Deps{Reconciler: reconciler, AllowUnverifiedWebhooks: true}, sessionCompletedPayload(), false)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 in dev mode, got %d", w.Code)
	}
	if len(reconciler.events) != 1 {
		t.Fatalf("expected the dev-mode event to reach the reconciler")
	}
}
