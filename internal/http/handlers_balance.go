package http

import (
	"log/slog"
	"net/http"
	"strings"

	"depenses/internal/core"
	"depenses/internal/store"
)

// handleBalancePartial renders who owes whom, recomputed from a fresh
// snapshot on every request.
func (s *Server) handleBalancePartial(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	view, err := s.ledger.Balance(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Balance computation error", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`<section id="balance" class="balance"><div class="placeholder">Solde indisponible: lecture du registre impossible</div></section>`))
		return
	}

	data := struct {
		Settled  bool
		Creditor string
		Debtor   string
		Owed     string
	}{
		Settled: view.Net.Cents == 0,
	}
	if !data.Settled {
		data.Creditor = string(view.Creditor)
		data.Debtor = string(view.Debtor)
		data.Owed = view.Owed.Format(s.currency)
	}

	if s.templates == nil {
		if data.Settled {
			_, _ = w.Write([]byte(`<section id="balance" class="balance"><div class="settled">Personne ne doit rien</div></section>`))
		} else {
			_, _ = w.Write([]byte(`<section id="balance" class="balance"><div>` + data.Debtor + ` doit ` + data.Owed + ` à ` + data.Creditor + `</div></section>`))
		}
		return
	}

	if err := s.templates.ExecuteTemplate(w, "balance.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "balance.html")
		_, _ = w.Write([]byte(`<section id="balance" class="balance"><div class="placeholder">Erreur de rendu</div></section>`))
	}
}

// handleHistoryPartial renders the entry list for one period, newest first.
// Without a period parameter it shows the full history.
func (s *Server) handleHistoryPartial(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	var period core.Period
	if v := strings.TrimSpace(r.URL.Query().Get("period")); v != "" {
		p, err := core.ParsePeriod(v)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`<section id="history" class="history"><div class="placeholder">Mois invalide</div></section>`))
			return
		}
		period = p
	}

	entries, periods, err := s.ledger.History(r.Context(), period)
	if err != nil {
		slog.ErrorContext(r.Context(), "History read error", "error", err, "period", string(period))
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`<section id="history" class="history"><div class="placeholder">Historique indisponible</div></section>`))
		return
	}

	type row struct {
		ID          string
		Date        string
		Description string
		Amount      string
		Payer       string
		PayerShare  string
		OtherShare  string
		Periodic    bool
		Auto        bool
	}
	type option struct {
		Value    string
		Label    string
		Selected bool
	}

	data := struct {
		Period  string
		Periods []option
		Rows    []row
		Empty   bool
	}{
		Period: string(period),
		Empty:  len(entries) == 0,
	}
	for _, p := range periods {
		data.Periods = append(data.Periods, option{
			Value:    string(p),
			Label:    periodLabel(p),
			Selected: p == period,
		})
	}
	for _, e := range entries {
		data.Rows = append(data.Rows, row{
			ID:          e.ID,
			Date:        e.Date.Format(store.DateLayout),
			Description: e.Description,
			Amount:      e.Amount.Format(s.currency),
			Payer:       string(e.Payer),
			PayerShare:  e.PayerShare.Format(s.currency),
			OtherShare:  e.OtherShare.Format(s.currency),
			Periodic:    e.Periodic,
			Auto:        e.IsMaterialization(),
		})
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="history" class="history"><div class="placeholder">Modèles non chargés</div></section>`))
		return
	}

	if err := s.templates.ExecuteTemplate(w, "history.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "history.html", "period", string(period))
		_, _ = w.Write([]byte(`<section id="history" class="history"><div class="placeholder">Erreur de rendu</div></section>`))
	}
}
