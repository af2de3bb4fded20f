package payment

import (
	"encoding/json"
	"fmt"
)

// Event types this service reacts to. The provider sends many more; the
// rest parse into a bare Event and are acknowledged without action.
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventPaymentIntentSucceeded   = "payment_intent.succeeded"
)

// Event is the parsed form of a webhook delivery. Exactly one of the
// typed payloads is set for a recognized type; none for unknown types.
type Event struct {
	ID   string
	Type string

	SessionCompleted *CheckoutSessionCompletedEvent
	IntentSucceeded  *PaymentIntentSucceededEvent
}

type CheckoutSessionCompletedEvent struct {
	SessionID       string
	PaymentIntentID string
	Metadata        map[string]string
}

type PaymentIntentSucceededEvent struct {
	IntentID string
	Metadata map[string]string
}

type eventEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type sessionObject struct {
	ID            string            `json:"id"`
	PaymentIntent string            `json:"payment_intent"`
	Metadata      map[string]string `json:"metadata"`
}

type intentObject struct {
	ID       string            `json:"id"`
	Metadata map[string]string `json:"metadata"`
}

// ParseEvent decodes a webhook payload. Recognized types are parsed
// strictly; an unknown type yields an Event carrying only ID and Type so
// the caller can acknowledge it.
func ParseEvent(payload []byte) (*Event, error) {
	var env eventEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("decode event envelope: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("decode event envelope: missing type")
	}

	evt := &Event{ID: env.ID, Type: env.Type}

	switch env.Type {
	case EventCheckoutSessionCompleted:
		var obj sessionObject
		if err := json.Unmarshal(env.Data.Object, &obj); err != nil {
			return nil, fmt.Errorf("decode checkout session object: %w", err)
		}
		if obj.ID == "" {
			return nil, fmt.Errorf("decode checkout session object: missing id")
		}
		evt.SessionCompleted = &CheckoutSessionCompletedEvent{
			SessionID:       obj.ID,
			PaymentIntentID: obj.PaymentIntent,
			Metadata:        obj.Metadata,
		}
	case EventPaymentIntentSucceeded:
		var obj intentObject
		if err := json.Unmarshal(env.Data.Object, &obj); err != nil {
			return nil, fmt.Errorf("decode payment intent object: %w", err)
		}
		if obj.ID == "" {
			return nil, fmt.Errorf("decode payment intent object: missing id")
		}
		evt.IntentSucceeded = &PaymentIntentSucceededEvent{
			IntentID: obj.ID,
			Metadata: obj.Metadata,
		}
	}

	return evt, nil
}
