package amqp

import (
	"encoding/json"
	"time"
)

// PaymentMirrorMessage asks the worker to mirror one payment record to the
// external sheet. It carries only the record id; the worker fetches the
// full record from the store, so a stale message can never mirror stale
// field values.
type PaymentMirrorMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewPaymentMirrorMessage(id int64) *PaymentMirrorMessage {
	return &PaymentMirrorMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *PaymentMirrorMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func PaymentMirrorMessageFromJSON(data []byte) (*PaymentMirrorMessage, error) {
	var msg PaymentMirrorMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
