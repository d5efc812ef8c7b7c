package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"depenses/internal/core"
	"depenses/internal/services"
	"depenses/internal/store/memory"
)

func newTestServer(t *testing.T, seed ...core.Entry) (*Server, *memory.Store) {
	t.Helper()
	pair, err := core.NewPair("Jean-Denis", "Élyane")
	if err != nil {
		t.Fatalf("NewPair: %v", err)
	}
	st := memory.New(seed...)
	ledger := services.NewLedgerService(st, pair, nil)
	recur := services.NewRecurrenceService(ledger, st)
	srv := NewServer(":0", ledger, recur, "CAD")
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv, st
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.Server.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestIndexRendersParticipants(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Jean-Denis") || !strings.Contains(body, "Élyane") {
		t.Errorf("index should list both participants, got: %.200s", body)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
}

func TestCreateEntryForm(t *testing.T) {
	srv, st := newTestServer(t)

	form := url.Values{
		"date":        {"2025-03-10"},
		"description": {"Épicerie"},
		"amount":      {"33,33"},
		"payer":       {"Jean-Denis"},
		"mode":        {"equal"},
	}
	req := httptest.NewRequest(http.MethodPost, "/entries", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if st.Len() != 1 {
		t.Fatalf("store has %d entries, want 1", st.Len())
	}
	if !strings.Contains(rec.Header().Get("HX-Trigger"), "ledger:changed") {
		t.Error("response should trigger ledger:changed")
	}
}

func TestCreateEntryRejectsBadAmount(t *testing.T) {
	srv, st := newTestServer(t)

	form := url.Values{
		"description": {"Épicerie"},
		"amount":      {"abc"},
		"payer":       {"Jean-Denis"},
	}
	req := httptest.NewRequest(http.MethodPost, "/entries", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if st.Len() != 0 {
		t.Fatalf("invalid input must not be persisted, store has %d entries", st.Len())
	}
}

func TestCreateEntryRejectsUnknownPayer(t *testing.T) {
	srv, st := newTestServer(t)

	form := url.Values{
		"description": {"Épicerie"},
		"amount":      {"10,00"},
		"payer":       {"Quelqu'un"},
	}
	req := httptest.NewRequest(http.MethodPost, "/entries", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body %s", rec.Code, rec.Body.String())
	}
	if st.Len() != 0 {
		t.Fatal("entry with unknown payer must not be persisted")
	}
}

func TestBalancePartialUnavailableOnReadFailure(t *testing.T) {
	srv, st := newTestServer(t)
	st.FailReads(true)

	req := httptest.NewRequest(http.MethodGet, "/ui/balance", nil)
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestAPICreateAndList(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{"date":"2025-03-10","description":"Loyer","amount":"1200.00","payer":"Élyane","split_mode":"equal","periodic":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/entries", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	var created entryJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal created: %v", err)
	}
	if created.ID == "" {
		t.Error("created entry should carry an ID")
	}
	if created.Periodique != "Oui" {
		t.Errorf("Periodique = %q, want Oui", created.Periodique)
	}
	if created.PartPayeur != 600.0 || created.PartAutre != 600.0 {
		t.Errorf("shares = %v/%v, want 600/600", created.PartPayeur, created.PartAutre)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/entries?period=2025-03", nil)
	rec = httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	var listed struct {
		Periods []string    `json:"periods"`
		Entries []entryJSON `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(listed.Entries) != 1 || listed.Entries[0].Description != "Loyer" {
		t.Fatalf("entries = %+v, want one Loyer entry", listed.Entries)
	}
	if len(listed.Periods) != 1 || listed.Periods[0] != "2025-03" {
		t.Errorf("periods = %v, want [2025-03]", listed.Periods)
	}
}

func TestAPIListRejectsBadPeriod(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/entries?period=mars", nil)
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAPIBalance(t *testing.T) {
	srv, _ := newTestServer(t, core.Entry{
		ID:          "id-1",
		Date:        core.NewDate(2025, 3, 1),
		Description: "Restaurant",
		Amount:      core.Money{Cents: 10000},
		Payer:       "Jean-Denis",
		PayerShare:  core.Money{Cents: 5000},
		OtherShare:  core.Money{Cents: 5000},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/balance", nil)
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var out struct {
		Net      float64 `json:"net"`
		Creditor string  `json:"creditor"`
		Debtor   string  `json:"debtor"`
		Owed     float64 `json:"owed"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Creditor != "Jean-Denis" || out.Debtor != "Élyane" || out.Owed != 50.0 {
		t.Errorf("balance = %+v, want Élyane owes 50 to Jean-Denis", out)
	}
}

func TestAPIDeleteByID(t *testing.T) {
	srv, st := newTestServer(t, core.Entry{
		ID:          "id-1",
		Date:        core.NewDate(2025, 3, 1),
		Description: "Restaurant",
		Amount:      core.Money{Cents: 2000},
		Payer:       "Jean-Denis",
		PayerShare:  core.Money{Cents: 1000},
		OtherShare:  core.Money{Cents: 1000},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/entries/delete", strings.NewReader(`{"id":"id-1"}`))
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if st.Len() != 0 {
		t.Fatalf("store has %d entries after delete, want 0", st.Len())
	}
}

func TestAPIDeleteNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/entries/delete", strings.NewReader(`{"id":"missing"}`))
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestAPIReconcileGeneratesMissing(t *testing.T) {
	srv, st := newTestServer(t, core.Entry{
		ID:          "id-1",
		Date:        core.NewDate(2025, 3, 1),
		Description: "Loyer",
		Amount:      core.Money{Cents: 120000},
		Payer:       "Élyane",
		PayerShare:  core.Money{Cents: 60000},
		OtherShare:  core.Money{Cents: 60000},
		Periodic:    true,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/reconcile", nil)
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Missing   int `json:"missing"`
		Generated int `json:"generated"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Missing != 1 || out.Generated != 1 {
		t.Errorf("reconcile = %+v, want 1 missing 1 generated", out)
	}
	if st.Len() != 2 {
		t.Errorf("store has %d entries, want template plus materialization", st.Len())
	}
}
