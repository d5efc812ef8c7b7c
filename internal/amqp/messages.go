package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"depenses/internal/core"
	"depenses/internal/store"
)

const (
	OpAppend = "append"
	OpDelete = "delete"
)

// EntryPayload is the wire shape of a ledger entry. The field names are the
// remote store's schema; they also appear as the sheet header.
type EntryPayload struct {
	ID          string  `json:"ID,omitempty"`
	Date        string  `json:"Date"`
	Description string  `json:"Description"`
	Total       float64 `json:"Montant_Total"`
	Payer       string  `json:"Payeur"`
	PayerShare  float64 `json:"Part_Payeur"`
	OtherShare  float64 `json:"Part_Autre"`
	Periodic    string  `json:"Periodique"`
}

// EntrySyncMessage asks the worker to apply one ledger operation to the
// remote store. Append messages carry the full entry; delete messages carry
// the identification fields only.
type EntrySyncMessage struct {
	Action      string        `json:"action"`
	Entry       *EntryPayload `json:"entry,omitempty"`
	ID          string        `json:"ID,omitempty"`
	Description string        `json:"Description,omitempty"`
	Total       float64       `json:"Montant_Total,omitempty"`
	Timestamp   time.Time     `json:"timestamp"`
}

// PayloadFromEntry converts a domain entry to its wire shape.
func PayloadFromEntry(e core.Entry) EntryPayload {
	periodic := store.PeriodicNo
	if e.Periodic {
		periodic = store.PeriodicYes
	}
	return EntryPayload{
		ID:          e.ID,
		Date:        e.Date.Format(store.DateLayout),
		Description: e.Description,
		Total:       e.Amount.Float(),
		Payer:       string(e.Payer),
		PayerShare:  e.PayerShare.Float(),
		OtherShare:  e.OtherShare.Float(),
		Periodic:    periodic,
	}
}

// ToEntry converts the wire shape back to a domain entry.
func (p EntryPayload) ToEntry() (core.Entry, error) {
	t, err := time.Parse(store.DateLayout, p.Date)
	if err != nil {
		return core.Entry{}, fmt.Errorf("parse date %q: %w", p.Date, err)
	}
	return core.Entry{
		ID:          p.ID,
		Date:        core.Date{Time: t},
		Description: p.Description,
		Amount:      core.Money{Cents: centsOf(p.Total)},
		Payer:       core.Participant(p.Payer),
		PayerShare:  core.Money{Cents: centsOf(p.PayerShare)},
		OtherShare:  core.Money{Cents: centsOf(p.OtherShare)},
		Periodic:    p.Periodic == store.PeriodicYes,
	}, nil
}

func centsOf(f float64) int64 {
	if f < 0 {
		return int64(f*100.0 - 0.5)
	}
	return int64(f*100.0 + 0.5)
}

// NewAppendMessage wraps an entry append for the sync queue.
func NewAppendMessage(e core.Entry) *EntrySyncMessage {
	p := PayloadFromEntry(e)
	return &EntrySyncMessage{
		Action:    OpAppend,
		Entry:     &p,
		Timestamp: time.Now(),
	}
}

// NewDeleteMessage wraps a delete request for the sync queue.
func NewDeleteMessage(req store.DeleteRequest) *EntrySyncMessage {
	return &EntrySyncMessage{
		Action:      OpDelete,
		ID:          req.ID,
		Description: req.Description,
		Total:       float64(req.AmountCents) / 100.0,
		Timestamp:   time.Now(),
	}
}

// DeleteRequest extracts the store delete request from a delete message.
func (m *EntrySyncMessage) DeleteRequest() store.DeleteRequest {
	return store.DeleteRequest{
		ID:          m.ID,
		Description: m.Description,
		AmountCents: centsOf(m.Total),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EntrySyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntrySyncMessageFromJSON creates a message from JSON bytes
func EntrySyncMessageFromJSON(data []byte) (*EntrySyncMessage, error) {
	var msg EntrySyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Action {
	case OpAppend, OpDelete:
	default:
		return nil, fmt.Errorf("unknown action %q", msg.Action)
	}
	return &msg, nil
}
