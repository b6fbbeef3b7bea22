package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"bilancio/internal/core"
	applog "bilancio/internal/log"
	"bilancio/internal/middleware/trace"
)

const maxBodyBytes = 1 << 20 // 1MB

type recordPayload struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Amount   any    `json:"amount"`
	Date     string `json:"date"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleMetrics exposes request counters in Prometheus-like plain text.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	m := s.tracer.Snapshot()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", m.TotalRequests)

	fmt.Fprintf(w, "# HELP http_request_duration_avg_microseconds Running average request duration\n")
	fmt.Fprintf(w, "# TYPE http_request_duration_avg_microseconds gauge\n")
	fmt.Fprintf(w, "http_request_duration_avg_microseconds %d\n", m.AverageResponseTime)
}

func (s *Server) handleGetDoc(w http.ResponseWriter, r *http.Request) {
	doc := s.session.Snapshot()
	data, err := core.Marshal(doc)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to encode document", "error", err)
		writeError(w, http.StatusInternalServerError, "encode document")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handlePutDoc(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body")
		return
	}

	doc, err := core.Unmarshal(body, time.Now())
	if err != nil {
		// The one codec failure: unparsable text. The session keeps
		// its current document untouched.
		slog.WarnContext(r.Context(), "Rejected unparsable document",
			applog.FieldError, err,
			applog.FieldComponent, applog.ComponentCodec,
			applog.FieldRequestID, trace.RequestIDFromContext(r.Context()))
		writeError(w, http.StatusUnprocessableEntity, "document is not valid JSON")
		return
	}

	s.session.Replace(doc)
	slog.InfoContext(r.Context(), "Document replaced",
		applog.FieldComponent, applog.ComponentHTTP,
		applog.FieldYear, doc.Meta.Year,
		applog.FieldMonth, doc.Meta.Month,
		applog.FieldIncomes, len(doc.Incomes),
		applog.FieldExpenses, len(doc.Expenses))
	writeJSON(w, http.StatusOK, doc)
}

// handleReport recomputes the aggregates from the current collections
// on every call; nothing is cached.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	doc := s.session.Snapshot()
	writeJSON(w, http.StatusOK, struct {
		Meta       core.Meta            `json:"meta"`
		Totals     core.Totals          `json:"totals"`
		ByCategory []core.CategoryShare `json:"by_category"`
	}{
		Meta:       doc.Meta,
		Totals:     core.ComputeTotals(doc.Incomes, doc.Expenses),
		ByCategory: core.GroupByCategory(doc.Expenses),
	})
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	var p recordPayload
	if !decodePayload(w, r, &p) {
		return
	}
	inc := core.Income{
		Name:   p.Name,
		Amount: core.NormalizeAmount(p.Amount),
		Date:   p.Date,
	}
	index := s.session.AppendIncome(inc)
	slog.InfoContext(r.Context(), "Income created",
		applog.FieldComponent, applog.ComponentHTTP,
		"name", inc.Name,
		"amount", inc.Amount)
	writeJSON(w, http.StatusCreated, map[string]any{"index": index, "income": inc})
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var p recordPayload
	if !decodePayload(w, r, &p) {
		return
	}
	exp := core.Expense{
		Name:     p.Name,
		Category: core.NormalizeCategory(p.Category),
		Amount:   core.NormalizeAmount(p.Amount),
		Date:     p.Date,
	}
	index := s.session.AppendExpense(exp)
	slog.InfoContext(r.Context(), "Expense created",
		applog.FieldComponent, applog.ComponentHTTP,
		"name", exp.Name,
		"category", exp.Category,
		"amount", exp.Amount)
	writeJSON(w, http.StatusCreated, map[string]any{"index": index, "expense": exp})
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	index, ok := parseIndex(w, r)
	if !ok {
		return
	}
	if err := s.session.RemoveIncome(index); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	index, ok := parseIndex(w, r)
	if !ok {
		return
	}
	if err := s.session.RemoveExpense(index); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	doc := s.session.Snapshot()
	if err := s.docStore.Save(r.Context(), doc); err != nil {
		slog.ErrorContext(r.Context(), "Failed to save document",
			applog.FieldError, err,
			applog.FieldComponent, applog.ComponentStorage,
			applog.FieldOperation, applog.OpSave)
		writeError(w, http.StatusInternalServerError, "save document")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	doc, ok, err := s.docStore.Load(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load document",
			applog.FieldError, err,
			applog.FieldComponent, applog.ComponentStorage,
			applog.FieldOperation, applog.OpLoad)
		writeError(w, http.StatusInternalServerError, "load document")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no saved document")
		return
	}
	s.session.Replace(doc)
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	doc := s.session.Snapshot()
	path, err := s.exporter.Export(r.Context(), doc)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to export document",
			applog.FieldError, err,
			applog.FieldComponent, applog.ComponentExport,
			applog.FieldOperation, applog.OpExport)
		writeError(w, http.StatusInternalServerError, "export document")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"artifact": path})
}

// handleSetPeriod points the session's document at another year/month
// without touching the record collections.
func (s *Server) handleSetPeriod(w http.ResponseWriter, r *http.Request) {
	var p struct {
		Year  int `json:"year"`
		Month int `json:"month"`
	}
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if p.Year < 1 || p.Month < 1 || p.Month > 12 {
		writeError(w, http.StatusBadRequest, "year and month are required")
		return
	}

	s.session.SetPeriod(p.Year, p.Month)
	slog.InfoContext(r.Context(), "Period changed",
		applog.FieldComponent, applog.ComponentHTTP,
		applog.FieldYear, p.Year,
		applog.FieldMonth, p.Month)
	writeJSON(w, http.StatusOK, s.session.Snapshot().Meta)
}

func parseIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid index")
		return 0, false
	}
	return index, true
}

func decodePayload(w http.ResponseWriter, r *http.Request, p *recordPayload) bool {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(p); err != nil {
		slog.WarnContext(r.Context(), "Invalid record payload", "error", err)
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
