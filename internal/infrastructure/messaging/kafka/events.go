// Package kafka carries the engine's sweep events: a platform request to
// analyze the whole portfolio, and the completion summary published back.
package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/roofsight/RoofSight-Engine/pkg/errors"
)

const (
	// TopicSweepRequested is consumed by the worker to start a portfolio sweep.
	TopicSweepRequested = "inspection.sweep.requested"
	// TopicSweepCompleted announces a finished sweep with its summary counts.
	TopicSweepCompleted = "inspection.sweep.completed"
)

// Message is a consumed Kafka record, decoupled from the client library.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// ProducerMessage is a record to be published.
type ProducerMessage struct {
	Topic     string
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// EventEnvelope standardizes event messages on both topics.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	TraceID       string            `json:"trace_id,omitempty"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// SweepRequestedPayload asks the worker to analyze the whole portfolio.
type SweepRequestedPayload struct {
	RequestID   string `json:"request_id"`
	RequestedBy string `json:"requested_by"`
	ClientID    string `json:"client_id,omitempty"`
}

// SweepCompletedPayload summarizes a finished portfolio sweep.
type SweepCompletedPayload struct {
	RequestID        string        `json:"request_id"`
	PropertiesTotal  int           `json:"properties_total"`
	PropertiesScored int           `json:"properties_scored"`
	TopRiskScore     float64       `json:"top_risk_score"`
	Duration         time.Duration `json:"duration_ms"`
	CompletedAt      time.Time     `json:"completed_at"`
}

// NewEventEnvelope wraps a payload in a fresh envelope.
func NewEventEnvelope(eventType, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal event payload")
	}
	return &EventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "v1",
		Payload:       data,
	}, nil
}

// DecodePayload unmarshals the envelope payload into target.
func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return errors.New(errors.ErrCodeValidation, "event payload is empty")
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode event payload")
	}
	return nil
}

// ToMessage renders the envelope for publishing, keying by event ID so
// retries of the same sweep land on the same partition.
func (e *EventEnvelope) ToMessage(topic string) (*ProducerMessage, error) {
	val, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal event envelope")
	}
	headers := map[string]string{
		"event_type":     e.EventType,
		"source_service": e.Source,
		"schema_version": e.SchemaVersion,
	}
	if e.TraceID != "" {
		headers["trace_id"] = e.TraceID
	}
	return &ProducerMessage{
		Topic:     topic,
		Key:       []byte(e.EventID),
		Value:     val,
		Headers:   headers,
		Timestamp: e.Timestamp,
	}, nil
}

// DecodeEnvelope parses a consumed record back into an envelope.
func DecodeEnvelope(msg *Message) (*EventEnvelope, error) {
	if len(msg.Value) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "empty message value")
	}
	var env EventEnvelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal event envelope")
	}
	return &env, nil
}
