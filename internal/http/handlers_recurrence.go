package http

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"
)

// handleRecurrencePartial shows the recurring templates and which ones are
// still missing a materialization this month. Read-only.
func (s *Server) handleRecurrencePartial(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	status, err := s.recur.ReportStatus(r.Context(), time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Recurrence status error", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`<section id="recurrence" class="recurrence"><div class="placeholder">État des dépenses récurrentes indisponible</div></section>`))
		return
	}

	type tmpl struct {
		Description string
		Amount      string
		Pending     bool
	}
	pending := make(map[string]bool, len(status.Missing))
	for _, e := range status.Missing {
		pending[e.Description] = true
	}

	data := struct {
		Period    string
		Templates []tmpl
		Missing   int
	}{
		Period:  string(status.Period),
		Missing: len(status.Missing),
	}
	for _, t := range status.Templates {
		data.Templates = append(data.Templates, tmpl{
			Description: t.Description,
			Amount:      t.Amount.Format(s.currency),
			Pending:     pending[t.AutoDescription()],
		})
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="recurrence" class="recurrence"><div class="placeholder">Modèles non chargés</div></section>`))
		return
	}

	if err := s.templates.ExecuteTemplate(w, "recurrence.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "recurrence.html")
		_, _ = w.Write([]byte(`<section id="recurrence" class="recurrence"><div class="placeholder">Erreur de rendu</div></section>`))
	}
}

// handleRecurrenceRun triggers a reconciliation pass for the current month.
func (s *Server) handleRecurrenceRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	result, err := s.recur.Reconcile(r.Context(), time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Reconciliation failed",
			"error", err,
			"period", string(result.Period),
			"missing", result.Missing,
			"generated", result.Generated)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(fmt.Sprintf(`<div class="error">Rapprochement incomplet: %d sur %d générées (%s)</div>`,
			result.Generated, result.Missing, template.HTMLEscapeString(err.Error()))))
		return
	}

	w.Header().Set("HX-Trigger", `{"ledger:changed": {}}`)
	w.WriteHeader(http.StatusOK)
	if result.Missing == 0 {
		_, _ = w.Write([]byte(`<div class="success">Aucune dépense récurrente à générer</div>`))
		return
	}
	_, _ = w.Write([]byte(fmt.Sprintf(`<div class="success">%d dépense(s) récurrente(s) générée(s) pour %s</div>`,
		result.Generated, template.HTMLEscapeString(string(result.Period)))))
}
