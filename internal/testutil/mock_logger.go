// Package testutil provides shared test doubles for the engine.
package testutil

import (
	"sync"

	"github.com/roofsight/RoofSight-Engine/internal/infrastructure/monitoring/logging"
)

// MockLogger implements logging.Logger and records every entry so tests can
// assert on logging behavior.
type MockLogger struct {
	mu       sync.Mutex
	name     string
	fields   []logging.Field
	messages *[]LogMessage
}

// LogMessage is a single entry captured by MockLogger.
type LogMessage struct {
	Level   string
	Message string
	Fields  []logging.Field
}

// NewMockLogger creates a MockLogger with an empty message buffer.
func NewMockLogger() *MockLogger {
	return &MockLogger{messages: &[]LogMessage{}}
}

func (m *MockLogger) log(level, msg string, fields []logging.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := append(append([]logging.Field{}, m.fields...), fields...)
	*m.messages = append(*m.messages, LogMessage{Level: level, Message: msg, Fields: all})
}

func (m *MockLogger) Debug(msg string, fields ...logging.Field) { m.log("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...logging.Field)  { m.log("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...logging.Field)  { m.log("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...logging.Field) { m.log("error", msg, fields) }
func (m *MockLogger) Fatal(msg string, fields ...logging.Field) { m.log("fatal", msg, fields) }

// With returns a child logger whose entries carry the extra fields and land
// in the same shared buffer.
func (m *MockLogger) With(fields ...logging.Field) logging.Logger {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &MockLogger{
		name:     m.name,
		fields:   append(append([]logging.Field{}, m.fields...), fields...),
		messages: m.messages,
	}
}

// Named returns a child logger sharing the same buffer.
func (m *MockLogger) Named(name string) logging.Logger {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &MockLogger{name: name, fields: m.fields, messages: m.messages}
}

// Messages returns a copy of all captured entries.
func (m *MockLogger) Messages() []LogMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]LogMessage, len(*m.messages))
	copy(out, *m.messages)
	return out
}

// Clear drops all captured entries.
func (m *MockLogger) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	*m.messages = (*m.messages)[:0]
}

// HasMessage reports whether an entry with the given level and message was
// captured.
func (m *MockLogger) HasMessage(level, msg string) bool {
	for _, entry := range m.Messages() {
		if entry.Level == level && entry.Message == msg {
			return true
		}
	}
	return false
}
