package amqp

import (
	"encoding/json"
	"time"
)

const (
	ObligationLoan   = "loan"
	ObligationCredit = "credit"
)

// ReminderMessage announces one overdue obligation. It carries only the kind
// and id; the consumer fetches the full record from the store.
type ReminderMessage struct {
	Kind      string    `json:"kind"`
	ID        int64     `json:"id"`
	DueSince  time.Time `json:"dueSince"`
	Timestamp time.Time `json:"timestamp"`
}

func NewReminderMessage(kind string, id int64, dueSince time.Time) *ReminderMessage {
	return &ReminderMessage{
		Kind:      kind,
		ID:        id,
		DueSince:  dueSince,
		Timestamp: time.Now(),
	}
}

func (m *ReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReminderMessageFromJSON(data []byte) (*ReminderMessage, error) {
	var msg ReminderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
