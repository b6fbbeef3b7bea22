package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bilancio/internal/core"
	"bilancio/internal/export"
	"bilancio/internal/store/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	mem := memory.NewWithClock(func() time.Time {
		return time.Date(2025, time.August, 15, 12, 0, 0, 0, time.UTC)
	})
	ex, err := export.New("json", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := NewServer(":0", mem, ex)
	t.Cleanup(func() { s.rateLimiter.stop() })
	return s
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestCreateRecordsAndReport(t *testing.T) {
	s := newTestServer(t)

	if rec := do(t, s, "POST", "/api/incomes", `{"name":"Salary","amount":5000}`); rec.Code != http.StatusCreated {
		t.Fatalf("create income: %d %s", rec.Code, rec.Body)
	}
	if rec := do(t, s, "POST", "/api/expenses", `{"name":"Rent","category":"Rent","amount":"1,200"}`); rec.Code != http.StatusCreated {
		t.Fatalf("create expense: %d %s", rec.Code, rec.Body)
	}
	if rec := do(t, s, "POST", "/api/expenses", `{"name":"Food","category":" ","amount":300}`); rec.Code != http.StatusCreated {
		t.Fatalf("create expense: %d %s", rec.Code, rec.Body)
	}

	rec := do(t, s, "GET", "/api/report", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("report: %d %s", rec.Code, rec.Body)
	}

	var rep struct {
		Totals     core.Totals          `json:"totals"`
		ByCategory []core.CategoryShare `json:"by_category"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rep.Totals.IncomeTotal != 5000 || rep.Totals.ExpenseTotal != 1500 || rep.Totals.Profit != 3500 || rep.Totals.ProfitMargin != 70 {
		t.Fatalf("totals = %+v", rep.Totals)
	}
	if len(rep.ByCategory) != 2 || rep.ByCategory[0].Category != "Rent" {
		t.Fatalf("by_category = %+v", rep.ByCategory)
	}
	// A blank category groups under the sentinel.
	if rep.ByCategory[1].Category != core.Uncategorized {
		t.Fatalf("blank category = %+v", rep.ByCategory[1])
	}
}

func TestPutDocRejectsUnparsableText(t *testing.T) {
	s := newTestServer(t)
	do(t, s, "POST", "/api/incomes", `{"name":"Salary","amount":100}`)

	rec := do(t, s, "PUT", "/api/doc", "not valid json")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	// The in-memory document stays untouched.
	doc := s.session.Snapshot()
	if len(doc.Incomes) != 1 {
		t.Fatalf("session mutated on bad input: %+v", doc)
	}
}

func TestPutDocCoercesMalformedShape(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, "PUT", "/api/doc", `{"incomes":"not-an-array"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body)
	}
	doc := s.session.Snapshot()
	if len(doc.Incomes) != 0 || len(doc.Expenses) != 0 {
		t.Fatalf("expected empty collections, got %+v", doc)
	}
	if doc.Meta.Year == 0 || doc.Meta.Month == 0 {
		t.Fatalf("expected current period defaults, got %+v", doc.Meta)
	}
}

func TestDeleteByIndex(t *testing.T) {
	s := newTestServer(t)
	do(t, s, "POST", "/api/expenses", `{"name":"a","category":"A","amount":1}`)
	do(t, s, "POST", "/api/expenses", `{"name":"b","category":"B","amount":2}`)

	if rec := do(t, s, "DELETE", "/api/expenses/0", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: %d %s", rec.Code, rec.Body)
	}
	doc := s.session.Snapshot()
	if len(doc.Expenses) != 1 || doc.Expenses[0].Name != "b" {
		t.Fatalf("expected remaining expense b, got %+v", doc.Expenses)
	}

	if rec := do(t, s, "DELETE", "/api/expenses/5", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for out-of-range index, got %d", rec.Code)
	}
	if rec := do(t, s, "DELETE", "/api/incomes/abc", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric index, got %d", rec.Code)
	}
}

func TestSaveAndLoad(t *testing.T) {
	s := newTestServer(t)
	do(t, s, "POST", "/api/incomes", `{"name":"Salary","amount":5000,"date":"2025-08-01"}`)

	if rec := do(t, s, "POST", "/api/save", ""); rec.Code != http.StatusOK {
		t.Fatalf("save: %d %s", rec.Code, rec.Body)
	}

	// Wipe the session, then load back.
	s.session.Replace(core.NewDoc(2030, 1))
	rec := do(t, s, "POST", "/api/load", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("load: %d %s", rec.Code, rec.Body)
	}
	doc := s.session.Snapshot()
	if len(doc.Incomes) != 1 || doc.Incomes[0].Name != "Salary" {
		t.Fatalf("loaded doc = %+v", doc)
	}
	if doc.Meta.SavedAt == "" {
		t.Fatal("saved_at should be stamped by the store")
	}
}

func TestLoadWithoutSave(t *testing.T) {
	s := newTestServer(t)
	if rec := do(t, s, "POST", "/api/load", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestExport(t *testing.T) {
	s := newTestServer(t)
	do(t, s, "POST", "/api/incomes", `{"name":"Salary","amount":5000}`)

	rec := do(t, s, "POST", "/api/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export: %d %s", rec.Code, rec.Body)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(resp["artifact"], ".json") {
		t.Fatalf("artifact path = %q", resp["artifact"])
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	if rec := do(t, s, "GET", "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("health: %d", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t)

	if rec := do(t, s, "GET", "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("health: %d", rec.Code)
	}

	rec := do(t, s, "GET", "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: %d %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
	body := rec.Body.String()
	// The health request above completed before this one, so the
	// counter must already be at least 1.
	if !strings.Contains(body, "http_requests_total 1") {
		t.Errorf("metrics body missing request counter:\n%s", body)
	}
	if !strings.Contains(body, "http_request_duration_avg_microseconds") {
		t.Errorf("metrics body missing duration gauge:\n%s", body)
	}
}

func TestSetPeriod(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, "PUT", "/api/period", `{"year":2026,"month":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("set period: %d %s", rec.Code, rec.Body)
	}
	var meta core.Meta
	if err := json.Unmarshal(rec.Body.Bytes(), &meta); err != nil {
		t.Fatal(err)
	}
	if meta.Year != 2026 || meta.Month != 1 {
		t.Errorf("meta = %+v, want 2026-01", meta)
	}

	rec = do(t, s, "GET", "/api/doc", "")
	var doc struct {
		Meta core.Meta `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Meta.Year != 2026 || doc.Meta.Month != 1 {
		t.Errorf("doc meta = %+v after period change", doc.Meta)
	}
}

func TestSetPeriodRejectsBadInput(t *testing.T) {
	s := newTestServer(t)

	for _, body := range []string{
		`{"year":2026,"month":13}`,
		`{"year":0,"month":5}`,
		`not json`,
	} {
		if rec := do(t, s, "PUT", "/api/period", body); rec.Code != http.StatusBadRequest {
			t.Errorf("PUT /api/period %s: code = %d, want 400", body, rec.Code)
		}
	}
}
