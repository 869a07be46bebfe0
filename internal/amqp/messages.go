package amqp

import (
	"encoding/json"
	"time"
)

// TransactionsUpdatedMessage tells external collaborators that a monthly
// bucket changed. It carries only the bucket coordinates and resulting
// count; consumers reload whatever else they need from the ledger.
type TransactionsUpdatedMessage struct {
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionsUpdatedMessage(year, month, count int) *TransactionsUpdatedMessage {
	return &TransactionsUpdatedMessage{
		Year:      year,
		Month:     month,
		Count:     count,
		Timestamp: time.Now(),
	}
}

func (m *TransactionsUpdatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionsUpdatedMessageFromJSON(data []byte) (*TransactionsUpdatedMessage, error) {
	var msg TransactionsUpdatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ConfigUpdatedMessage announces a config replacement. The payload is the
// serialized config itself so consumers need no read-back.
type ConfigUpdatedMessage struct {
	Config    json.RawMessage `json:"config"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewConfigUpdatedMessage(config json.RawMessage) *ConfigUpdatedMessage {
	return &ConfigUpdatedMessage{
		Config:    config,
		Timestamp: time.Now(),
	}
}

func (m *ConfigUpdatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
