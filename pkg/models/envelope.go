package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MessageEnvelope is the wire format for every message crossing the broker.
// The ID is minted exactly once, at ingestion, and is the stable identity
// used for idempotent persistence: redelivery of the same envelope rewrites
// the same stored row instead of creating a new one.
type MessageEnvelope struct {
	ID        string          `json:"id"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
	Metadata  Metadata        `json:"metadata"`
}

type Metadata struct {
	TraceID  string                 `json:"trace_id,omitempty"`
	Delivery map[string]interface{} `json:"delivery,omitempty"`
}

func NewEnvelope(source string, payload interface{}) (MessageEnvelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return MessageEnvelope{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	return MessageEnvelope{
		ID:        uuid.New().String(),
		Source:    source,
		Timestamp: time.Now(),
		Payload:   body,
	}, nil
}

// DecodePayload unmarshals the envelope payload into v.
func (e MessageEnvelope) DecodePayload(v interface{}) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("envelope %s has no payload", e.ID)
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("failed to decode payload of envelope %s: %w", e.ID, err)
	}
	return nil
}
