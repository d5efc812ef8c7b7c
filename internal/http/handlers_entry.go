package http

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"depenses/internal/core"
	"depenses/internal/services"
	"depenses/internal/store"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	pair := s.ledger.Pair()
	data := struct {
		Today        string
		Participants []core.Participant
		Currency     string
	}{
		Today:        services.DefaultEntryDate(time.Now()).Format(store.DateLayout),
		Participants: []core.Participant{pair.First, pair.Other},
		Currency:     s.currency,
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Formulaire invalide</div>`))
		return
	}

	in, amountStr, err := s.entryInputFromForm(r)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(err.Error()) + `</div>`))
		return
	}

	entry, err := s.ledger.CreateEntry(r.Context(), in)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to save entry",
			"error", err,
			"description", in.Description,
			"amount_cents", in.AmountCents,
			"payer", in.Payer)
		status := http.StatusUnprocessableEntity
		if !isValidationError(err) {
			status = http.StatusInternalServerError
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`<div class="error">Erreur lors de l'enregistrement: ` + template.HTMLEscapeString(err.Error()) + `</div>`))
		return
	}

	slog.InfoContext(r.Context(), "Entry created",
		"entry_id", entry.ID,
		"description", entry.Description,
		"amount_cents", entry.Amount.Cents,
		"payer", entry.Payer)

	msg := fmt.Sprintf("Dépense enregistrée: %s — %s (payée par %s)",
		template.HTMLEscapeString(entry.Description),
		template.HTMLEscapeString(amountStr),
		template.HTMLEscapeString(string(entry.Payer)))

	w.Header().Set("HX-Trigger", fmt.Sprintf(`{
		"form:reset": {},
		"show-notification": {"type": "success", "message": "%s", "duration": 3000},
		"ledger:changed": {}
	}`, template.JSEscapeString(msg)))

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">` + msg + `</div>`))
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		w.Header().Set("Allow", "POST, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Formulaire invalide</div>`))
		return
	}

	req := store.DeleteRequest{
		ID:          strings.TrimSpace(r.Form.Get("id")),
		Description: sanitizeInput(r.Form.Get("description")),
	}
	if v := strings.TrimSpace(r.Form.Get("amount")); v != "" {
		cents, err := core.ParseDecimalToCents(v)
		if err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">Montant invalide</div>`))
			return
		}
		req.AmountCents = cents
	}

	if err := s.ledger.DeleteEntry(r.Context(), req); err != nil {
		if err == store.ErrEntryNotFound {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<div class="error">Dépense introuvable</div>`))
			return
		}
		slog.ErrorContext(r.Context(), "Failed to delete entry", "error", err, "entry_id", req.ID, "description", req.Description)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Erreur lors de la suppression</div>`))
		return
	}

	w.Header().Set("HX-Trigger", `{"ledger:changed": {}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Dépense supprimée</div>`))
}

// entryInputFromForm parses the capture form. The returned string is the raw
// amount as typed, kept for the confirmation message.
func (s *Server) entryInputFromForm(r *http.Request) (services.EntryInput, string, error) {
	var in services.EntryInput

	dateStr := strings.TrimSpace(r.Form.Get("date"))
	if dateStr == "" {
		in.Date = services.DefaultEntryDate(time.Now())
	} else {
		t, err := time.Parse(store.DateLayout, dateStr)
		if err != nil {
			return in, "", fmt.Errorf("date invalide")
		}
		in.Date = core.Date{Time: t}
	}

	in.Description = sanitizeInput(r.Form.Get("description"))
	in.Payer = core.Participant(sanitizeInput(r.Form.Get("payer")))
	in.Periodic = r.Form.Get("periodic") == "on" || r.Form.Get("periodic") == "true"

	amountStr := strings.TrimSpace(r.Form.Get("amount"))
	cents, err := core.ParseDecimalToCents(amountStr)
	if err != nil {
		return in, "", fmt.Errorf("montant invalide")
	}
	in.AmountCents = cents

	mode := core.SplitMode(strings.TrimSpace(r.Form.Get("mode")))
	if mode == "" {
		mode = core.SplitEqual
	}
	in.Mode = mode
	if mode == core.SplitCustom {
		pct, err := strconv.ParseFloat(strings.TrimSpace(r.Form.Get("percent")), 64)
		if err != nil {
			return in, "", fmt.Errorf("pourcentage invalide")
		}
		in.CustomPercent = pct
	}

	return in, amountStr, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
