package amqp

import (
	"testing"
	"time"
)

func TestReminderMessageJSON(t *testing.T) {
	due := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	msg := NewReminderMessage(ObligationLoan, 7, due)

	if msg.Timestamp.IsZero() {
		t.Error("NewReminderMessage() left Timestamp zero")
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	back, err := ReminderMessageFromJSON(data)
	if err != nil {
		t.Fatalf("ReminderMessageFromJSON() error = %v", err)
	}
	if back.Kind != ObligationLoan {
		t.Errorf("Kind = %v, want %v", back.Kind, ObligationLoan)
	}
	if back.ID != 7 {
		t.Errorf("ID = %v, want 7", back.ID)
	}
	if !back.DueSince.Equal(due) {
		t.Errorf("DueSince = %v, want %v", back.DueSince, due)
	}
}

func TestReminderMessageFromJSONInvalid(t *testing.T) {
	if _, err := ReminderMessageFromJSON([]byte("not json")); err == nil {
		t.Error("ReminderMessageFromJSON(garbage) expected error")
	}
}
