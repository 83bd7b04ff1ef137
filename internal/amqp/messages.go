package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"finboard/internal/core"
)

// RecordEvent announces that a user's record was created or deleted. It
// carries identifiers only; consumers read current state from the store.
type RecordEvent struct {
	Kind      core.Kind `json:"kind"`
	Action    string    `json:"action"`
	UserID    string    `json:"user_id"`
	RecordID  string    `json:"record_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordEvent(kind core.Kind, action, userID, recordID string) *RecordEvent {
	return &RecordEvent{
		Kind:      kind,
		Action:    action,
		UserID:    userID,
		RecordID:  recordID,
		Timestamp: time.Now().UTC(),
	}
}

func (m *RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordEventFromJSON decodes an event and rejects ones without a user.
func RecordEventFromJSON(data []byte) (*RecordEvent, error) {
	var msg RecordEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.UserID == "" {
		return nil, fmt.Errorf("record event without user_id")
	}
	return &msg, nil
}
