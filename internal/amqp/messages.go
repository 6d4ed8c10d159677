package amqp

import (
	"encoding/json"
	"time"
)

// Entities and actions carried by mutation messages.
const (
	EntityExpense  = "expense"
	EntityCategory = "category"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
	ActionCleared = "cleared"
)

// MutationMessage describes one mutation applied to the backing store.
// Position carries the targeted row for updates and deletes; it reflects
// the table state at mutation time and is informational only.
type MutationMessage struct {
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	Position  int       `json:"position,omitempty"`
	Fields    []string  `json:"fields,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewMutationMessage(entity, action string, position int, fields []string) MutationMessage {
	return MutationMessage{
		Entity:    entity,
		Action:    action,
		Position:  position,
		Fields:    fields,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m MutationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MutationMessageFromJSON creates a message from JSON bytes.
func MutationMessageFromJSON(data []byte) (MutationMessage, error) {
	var msg MutationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return MutationMessage{}, err
	}
	return msg, nil
}
