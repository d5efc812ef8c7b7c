package amqp

import (
	"encoding/json"
	"testing"

	"depenses/internal/core"
	"depenses/internal/store"
)

func TestAppendMessageWireShape(t *testing.T) {
	e := core.Entry{
		ID:          "id-1",
		Date:        core.NewDate(2025, 3, 10),
		Description: "Maxi",
		Amount:      core.Money{Cents: 10050},
		Payer:       "Jean-Denis",
		PayerShare:  core.Money{Cents: 5025},
		OtherShare:  core.Money{Cents: 5025},
		Periodic:    true,
	}

	body, err := NewAppendMessage(e).ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	// The entry payload must use the store's field names.
	var raw struct {
		Action string         `json:"action"`
		Entry  map[string]any `json:"entry"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if raw.Action != OpAppend {
		t.Errorf("action = %q, want %q", raw.Action, OpAppend)
	}
	for _, field := range []string{"Date", "Description", "Montant_Total", "Payeur", "Part_Payeur", "Part_Autre", "Periodique"} {
		if _, ok := raw.Entry[field]; !ok {
			t.Errorf("missing wire field %q", field)
		}
	}
	if raw.Entry["Periodique"] != "Oui" {
		t.Errorf("Periodique = %v, want Oui", raw.Entry["Periodique"])
	}

	msg, err := EntrySyncMessageFromJSON(body)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	back, err := msg.Entry.ToEntry()
	if err != nil {
		t.Fatalf("to entry: %v", err)
	}
	if back != e {
		t.Errorf("round trip mismatch: %+v != %+v", back, e)
	}
}

func TestDeleteMessageWireShape(t *testing.T) {
	req := store.DeleteRequest{Description: "Café", AmountCents: 2000}
	body, err := NewDeleteMessage(req).ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if raw["action"] != OpDelete || raw["Description"] != "Café" || raw["Montant_Total"] != 20.0 {
		t.Errorf("unexpected wire shape: %v", raw)
	}

	msg, err := EntrySyncMessageFromJSON(body)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if got := msg.DeleteRequest(); got != req {
		t.Errorf("DeleteRequest = %+v, want %+v", got, req)
	}
}

func TestUnknownActionRejected(t *testing.T) {
	if _, err := EntrySyncMessageFromJSON([]byte(`{"action":"upsert"}`)); err == nil {
		t.Fatal("expected error for unknown action")
	}
	if _, err := EntrySyncMessageFromJSON([]byte(`not json`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
