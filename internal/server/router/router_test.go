package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mamadbah2/foodops/internal/repository/memory"
	"github.com/mamadbah2/foodops/internal/server/handlers"
	"github.com/mamadbah2/foodops/internal/service/audit"
	"github.com/mamadbah2/foodops/internal/service/ledger"
	"github.com/mamadbah2/foodops/internal/service/operations"
	"github.com/mamadbah2/foodops/internal/service/reporting"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.New()
	auditSvc := audit.NewService(store, nil, nil)
	cash := ledger.NewService(store, auditSvc, nil)
	ops := operations.NewService(store, auditSvc, nil)
	reports := reporting.NewService(reporting.Dependencies{Ledger: cash, Operations: ops}, nil)

	return New(Handlers{
		Webhook:    handlers.NewWebhookHandler(nil, nil),
		PettyCash:  handlers.NewPettyCashHandler(cash, nil),
		Operations: handlers.NewOperationsHandler(ops, nil),
		Reports:    handlers.NewReportsHandler(auditSvc, reports, nil),
	}, nil)
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

type entryResult struct {
	ID      int64  `json:"id"`
	Balance string `json:"balance"`
}

type entryList struct {
	Entries []struct {
		ID      int64  `json:"id"`
		Balance string `json:"balance"`
	} `json:"entries"`
}

func balancesOf(t *testing.T, r http.Handler) []string {
	t.Helper()
	rec := do(t, r, http.MethodGet, "/api/petty-cash", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	list := decode[entryList](t, rec)
	out := make([]string, len(list.Entries))
	for i, e := range list.Entries {
		out[i] = e.Balance
	}
	return out
}

func seedScenario(t *testing.T, r http.Handler) []int64 {
	t.Helper()
	var ids []int64
	for _, e := range []map[string]string{
		{"amount": "500", "type": "inflow", "description": "float"},
		{"amount": "50", "type": "outflow", "description": "fuel"},
		{"amount": "30", "type": "outflow", "description": "bags"},
	} {
		rec := do(t, r, http.MethodPost, "/api/petty-cash", e)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create status = %d body %s", rec.Code, rec.Body)
		}
		ids = append(ids, decode[entryResult](t, rec).ID)
	}
	return ids
}

func TestPettyCashScenarios(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		r := newTestEngine(t)
		seedScenario(t, r)
		if got := fmt.Sprint(balancesOf(t, r)); got != "[500 450 420]" {
			t.Fatalf("balances = %s", got)
		}
	})

	t.Run("update", func(t *testing.T) {
		r := newTestEngine(t)
		ids := seedScenario(t, r)
		rec := do(t, r, http.MethodPut, fmt.Sprintf("/api/petty-cash/%d", ids[1]), map[string]string{"amount": "80", "type": "outflow", "description": "fuel"})
		if rec.Code != http.StatusOK {
			t.Fatalf("update status = %d body %s", rec.Code, rec.Body)
		}
		if res := decode[entryResult](t, rec); res.ID != ids[1] || res.Balance != "420" {
			t.Fatalf("update result = %+v", res)
		}
		if got := fmt.Sprint(balancesOf(t, r)); got != "[500 420 390]" {
			t.Fatalf("balances = %s", got)
		}
	})

	t.Run("delete", func(t *testing.T) {
		r := newTestEngine(t)
		ids := seedScenario(t, r)
		rec := do(t, r, http.MethodDelete, fmt.Sprintf("/api/petty-cash/%d", ids[1]), nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("delete status = %d", rec.Code)
		}
		if got := fmt.Sprint(balancesOf(t, r)); got != "[500 470]" {
			t.Fatalf("balances = %s", got)
		}
	})

	t.Run("verify", func(t *testing.T) {
		r := newTestEngine(t)
		seedScenario(t, r)
		rec := do(t, r, http.MethodGet, "/api/petty-cash/verify", nil)
		body := decode[struct {
			OK bool `json:"ok"`
		}](t, rec)
		if rec.Code != http.StatusOK || !body.OK {
			t.Fatalf("verify = %d %s", rec.Code, rec.Body)
		}
	})
}

func TestErrorMapping(t *testing.T) {
	r := newTestEngine(t)

	rec := do(t, r, http.MethodPost, "/api/purchase-orders", map[string]string{"customer": "Shop", "kilos": "10", "price_per_kilo": "2"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create order = %d %s", rec.Code, rec.Body)
	}
	po := decode[struct {
		ID int64 `json:"id"`
	}](t, rec)

	rec = do(t, r, http.MethodPost, "/api/deliveries", map[string]any{"purchase_order_id": po.ID, "kilos": "4"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create delivery = %d %s", rec.Code, rec.Body)
	}
	delivery := decode[struct {
		ID     int64  `json:"id"`
		Status string `json:"payment_status"`
		Amount string `json:"amount"`
	}](t, rec)
	if delivery.Status != "Pending" || delivery.Amount != "8" {
		t.Fatalf("delivery = %+v", delivery)
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{name: "update missing entry", method: http.MethodPut, path: "/api/petty-cash/999", body: map[string]string{"amount": "1", "type": "inflow"}, want: http.StatusNotFound},
		{name: "delete missing entry", method: http.MethodDelete, path: "/api/petty-cash/999", want: http.StatusNotFound},
		{name: "bad id", method: http.MethodDelete, path: "/api/petty-cash/abc", want: http.StatusBadRequest},
		{name: "negative amount", method: http.MethodPost, path: "/api/petty-cash", body: map[string]string{"amount": "-5", "type": "inflow"}, want: http.StatusBadRequest},
		{name: "non numeric amount", method: http.MethodPost, path: "/api/petty-cash", body: map[string]string{"amount": "lots", "type": "inflow"}, want: http.StatusBadRequest},
		{name: "unknown type", method: http.MethodPost, path: "/api/petty-cash", body: map[string]string{"amount": "5", "type": "gift"}, want: http.StatusBadRequest},
		{name: "pay pending delivery", method: http.MethodPatch, path: fmt.Sprintf("/api/deliveries/%d/status", delivery.ID), body: map[string]string{"status": "Paid"}, want: http.StatusConflict},
		{name: "approve delivery", method: http.MethodPatch, path: fmt.Sprintf("/api/deliveries/%d/status", delivery.ID), body: map[string]string{"status": "Approved"}, want: http.StatusOK},
		{name: "over-delivery", method: http.MethodPost, path: "/api/deliveries", body: map[string]any{"purchase_order_id": po.ID, "kilos": "7"}, want: http.StatusBadRequest},
		{name: "unknown order", method: http.MethodGet, path: "/api/purchase-orders/4242", want: http.StatusNotFound},
		{name: "bad window", method: http.MethodGet, path: "/api/expenses?from=2024-02-01&to=2024-01-01", want: http.StatusBadRequest},
		{name: "webhook disabled", method: http.MethodGet, path: "/webhook", want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, r, tt.method, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestOperationsEndpoints(t *testing.T) {
	r := newTestEngine(t)

	rec := do(t, r, http.MethodPost, "/api/production", map[string]string{"date": "2024-03-14", "kilos_in": "1000", "kilos_out": "120"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("production = %d %s", rec.Code, rec.Body)
	}
	p := decode[struct {
		ID      int64  `json:"id"`
		Surplus string `json:"surplus"`
	}](t, rec)
	if p.Surplus != "20" {
		t.Fatalf("surplus = %s", p.Surplus)
	}

	rec = do(t, r, http.MethodPut, fmt.Sprintf("/api/production/%d", p.ID), map[string]string{"kilos_in": "1000", "kilos_out": "150"})
	if got := decode[struct {
		Surplus string `json:"surplus"`
	}](t, rec); rec.Code != http.StatusOK || got.Surplus != "50" {
		t.Fatalf("update production = %d %s", rec.Code, rec.Body)
	}

	rec = do(t, r, http.MethodPost, "/api/employees", map[string]string{"name": "Mariama", "monthly_salary": "900"})
	emp := decode[struct {
		ID int64 `json:"id"`
	}](t, rec)
	rec = do(t, r, http.MethodPost, fmt.Sprintf("/api/employees/%d/salaries", emp.ID), map[string]string{"period": "2024-03"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("salary = %d %s", rec.Code, rec.Body)
	}

	rec = do(t, r, http.MethodGet, "/api/production?from=2024-03-14&to=2024-03-14", nil)
	list := decode[struct {
		Production []json.RawMessage `json:"production"`
	}](t, rec)
	if len(list.Production) != 1 {
		t.Fatalf("production list = %s", rec.Body)
	}

	rec = do(t, r, http.MethodGet, "/api/audit?limit=2", nil)
	events := decode[struct {
		Events []struct {
			Entity string `json:"entity"`
		} `json:"events"`
	}](t, rec)
	if len(events.Events) != 2 || events.Events[0].Entity != "salary_payment" {
		t.Fatalf("audit = %s", rec.Body)
	}

	rec = do(t, r, http.MethodGet, "/api/reports/summary?from=2024-03-01&to=2024-03-31", nil)
	sum := decode[struct {
		KilosIn string `json:"kilos_in"`
	}](t, rec)
	if rec.Code != http.StatusOK || sum.KilosIn != "1000" {
		t.Fatalf("summary = %d %s", rec.Code, rec.Body)
	}
}

func TestRequestID(t *testing.T) {
	r := newTestEngine(t)

	rec := do(t, r, http.MethodGet, "/healthz", nil)
	if _, err := uuid.Parse(rec.Header().Get(requestIDHeader)); err != nil {
		t.Fatalf("generated request id %q: %v", rec.Header().Get(requestIDHeader), err)
	}

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, id)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Header().Get(requestIDHeader) != id {
		t.Fatalf("request id not propagated: %q", rec.Header().Get(requestIDHeader))
	}
}
