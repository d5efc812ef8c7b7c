package http

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"depenses/internal/core"
	"depenses/internal/services"
	"depenses/internal/store"
)

// entryJSON is the wire shape of a ledger entry, column names matching the
// spreadsheet header.
type entryJSON struct {
	ID           string  `json:"ID,omitempty"`
	Date         string  `json:"Date"`
	Description  string  `json:"Description"`
	MontantTotal float64 `json:"Montant_Total"`
	Payeur       string  `json:"Payeur"`
	PartPayeur   float64 `json:"Part_Payeur"`
	PartAutre    float64 `json:"Part_Autre"`
	Periodique   string  `json:"Periodique"`
}

func entryToJSON(e core.Entry) entryJSON {
	periodic := store.PeriodicNo
	if e.Periodic {
		periodic = store.PeriodicYes
	}
	date := ""
	if !e.Date.IsEmpty() {
		date = e.Date.Format(store.DateLayout)
	}
	return entryJSON{
		ID:           e.ID,
		Date:         date,
		Description:  e.Description,
		MontantTotal: e.Amount.Float(),
		Payeur:       string(e.Payer),
		PartPayeur:   e.PayerShare.Float(),
		PartAutre:    e.OtherShare.Float(),
		Periodique:   periodic,
	}
}

// createRequest is the JSON body accepted by POST /api/entries.
type createRequest struct {
	Date         string  `json:"date"`
	Description  string  `json:"description"`
	Amount       string  `json:"amount"`
	Payer        string  `json:"payer"`
	SplitMode    string  `json:"split_mode"`
	SplitPercent float64 `json:"split_percent"`
	Periodic     bool    `json:"periodic"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleAPIEntries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleAPIListEntries(w, r)
	case http.MethodPost:
		s.handleAPICreateEntry(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleAPIListEntries(w http.ResponseWriter, r *http.Request) {
	var period core.Period
	if v := strings.TrimSpace(r.URL.Query().Get("period")); v != "" {
		p, err := core.ParsePeriod(v)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid period, expected YYYY-MM")
			return
		}
		period = p
	}

	entries, periods, err := s.ledger.History(r.Context(), period)
	if err != nil {
		slog.ErrorContext(r.Context(), "API list entries error", "error", err, "period", string(period))
		writeJSONError(w, http.StatusServiceUnavailable, "ledger snapshot unavailable")
		return
	}

	out := struct {
		Period  string      `json:"period,omitempty"`
		Periods []string    `json:"periods"`
		Entries []entryJSON `json:"entries"`
	}{
		Period:  string(period),
		Periods: make([]string, 0, len(periods)),
		Entries: make([]entryJSON, 0, len(entries)),
	}
	for _, p := range periods {
		out.Periods = append(out.Periods, string(p))
	}
	for _, e := range entries {
		out.Entries = append(out.Entries, entryToJSON(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAPICreateEntry(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	in := services.EntryInput{
		Description:   sanitizeInput(req.Description),
		Payer:         core.Participant(strings.TrimSpace(req.Payer)),
		Mode:          core.SplitMode(req.SplitMode),
		CustomPercent: req.SplitPercent,
		Periodic:      req.Periodic,
	}
	if in.Mode == "" {
		in.Mode = core.SplitEqual
	}

	if req.Date == "" {
		in.Date = services.DefaultEntryDate(time.Now())
	} else {
		t, err := time.Parse(store.DateLayout, req.Date)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		in.Date = core.Date{Time: t}
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Amount))
	if err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}
	in.AmountCents = cents

	entry, err := s.ledger.CreateEntry(r.Context(), in)
	if err != nil {
		if isValidationError(err) {
			writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "API create entry error", "error", err, "description", in.Description)
		writeJSONError(w, http.StatusInternalServerError, "failed to save entry")
		return
	}

	writeJSON(w, http.StatusCreated, entryToJSON(entry))
}

func (s *Server) handleAPIDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		w.Header().Set("Allow", "POST, DELETE")
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		ID          string  `json:"id"`
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	del := store.DeleteRequest{
		ID:          strings.TrimSpace(req.ID),
		Description: sanitizeInput(req.Description),
		AmountCents: int64(math.Round(req.Amount * 100)),
	}
	if err := s.ledger.DeleteEntry(r.Context(), del); err != nil {
		if err == store.ErrEntryNotFound {
			writeJSONError(w, http.StatusNotFound, "entry not found")
			return
		}
		slog.ErrorContext(r.Context(), "API delete entry error", "error", err, "entry_id", del.ID)
		writeJSONError(w, http.StatusInternalServerError, "failed to delete entry")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleAPIBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	view, err := s.ledger.Balance(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "API balance error", "error", err)
		writeJSONError(w, http.StatusServiceUnavailable, "ledger snapshot unavailable")
		return
	}

	out := struct {
		Net      float64 `json:"net"`
		Creditor string  `json:"creditor,omitempty"`
		Debtor   string  `json:"debtor,omitempty"`
		Owed     float64 `json:"owed"`
		Display  string  `json:"display"`
	}{
		Net:  view.Net.Float(),
		Owed: view.Owed.Float(),
	}
	if view.Net.Cents == 0 {
		out.Display = "settled"
	} else {
		out.Creditor = string(view.Creditor)
		out.Debtor = string(view.Debtor)
		out.Display = string(view.Debtor) + " owes " + view.Owed.Format(s.currency) + " to " + string(view.Creditor)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAPIReconcile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	result, err := s.recur.Reconcile(r.Context(), time.Now())
	out := struct {
		Period    string `json:"period"`
		Missing   int    `json:"missing"`
		Generated int    `json:"generated"`
		Error     string `json:"error,omitempty"`
	}{
		Period:    string(result.Period),
		Missing:   result.Missing,
		Generated: result.Generated,
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "API reconcile error", "error", err, "period", out.Period)
		out.Error = err.Error()
		writeJSON(w, http.StatusInternalServerError, out)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
