package calculator

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-roti/internal/common"
)

func newTestRouter(t *testing.T) (http.Handler, *Service) {
	t.Helper()
	svc := newTestService(t)
	h := &Handler{Svc: svc}
	r := chi.NewRouter()
	r.Use(svc.Sessions.Middleware)
	r.Post("/calculators/discount", h.Discount)
	r.Post("/calculators/bundling", h.Bundling)
	r.Post("/calculators/hpp", h.HPP)
	r.Post("/calculators/overhead", h.Overhead)
	r.Post("/calculators/roi", h.ROI)
	r.Get("/calculators/{kind}/history", h.History)
	r.Delete("/calculators/session", h.EndSession)
	r.Post("/pricing/round", h.Round)
	r.Post("/pricing/classify", h.Classify)
	return r, svc
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(common.SessionHeader, testSession)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeData(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, dst))
}

func TestDiscountHandler(t *testing.T) {
	r, _ := newTestRouter(t)

	rr := do(t, r, http.MethodPost, "/calculators/discount", `{
		"productId": "roti-keju",
		"quantity": 1,
		"discount": {"kind": "percentage", "value": 10},
		"channelFee": {"enabled": true, "kind": "percentage", "value": 15},
		"rounding": true
	}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Equal(t, testSession, rr.Header().Get(common.SessionHeader))

	var res struct {
		Breakdown struct {
			FeeAmount int64 `json:"feeAmount"`
			Final     int64 `json:"final"`
		} `json:"breakdown"`
		Profit struct {
			Band  string `json:"band"`
			Label string `json:"label"`
		} `json:"profit"`
		Entry struct {
			ID string `json:"id"`
		} `json:"entry"`
	}
	decodeData(t, rr, &res)
	require.Equal(t, int64(2700), res.Breakdown.FeeAmount)
	require.Equal(t, int64(15500), res.Breakdown.Final)
	require.Equal(t, "good", res.Profit.Band)
	require.Equal(t, "Bagus", res.Profit.Label)
	require.NotEmpty(t, res.Entry.ID)
}

func TestDiscountHandlerErrors(t *testing.T) {
	r, _ := newTestRouter(t)

	rr := do(t, r, http.MethodPost, "/calculators/discount", `{"productId":"kue-lapis","quantity":1}`)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Contains(t, rr.Body.String(), "PRODUCT_NOT_FOUND")

	rr = do(t, r, http.MethodPost, "/calculators/discount", `{"productId":"roti-keju","quantity":0}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "VALIDATION_FAILED")

	rr = do(t, r, http.MethodPost, "/calculators/discount", `{"productId":"roti-keju","qty":1}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, r, http.MethodPost, "/calculators/discount", `{"productId":"roti-keju","quantity":9223372036854775}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "VALIDATION_FAILED")
	require.NotContains(t, rr.Body.String(), "safe")
}

func TestHistoryHandler(t *testing.T) {
	r, _ := newTestRouter(t)

	for i := 0; i < 3; i++ {
		rr := do(t, r, http.MethodPost, "/calculators/bundling", `{"lines":[{"productId":"donat-gula","quantity":6}],"rounding":true}`)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}

	rr := do(t, r, http.MethodGet, "/calculators/bundling/history", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var entries []map[string]any
	decodeData(t, rr, &entries)
	require.Len(t, entries, 3)

	rr = do(t, r, http.MethodGet, "/calculators/discount/history", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"data":[]}`, rr.Body.String())

	rr = do(t, r, http.MethodGet, "/calculators/roi/history", "")
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, r, http.MethodDelete, "/calculators/session", "")
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, r, http.MethodGet, "/calculators/bundling/history", "")
	require.JSONEq(t, `{"data":[]}`, rr.Body.String())
}

func TestHPPHandler(t *testing.T) {
	r, _ := newTestRouter(t)

	rr := do(t, r, http.MethodPost, "/calculators/hpp", `{"sellingPrice":10000,"hpp":8000,"markup":"2.5","rounding":true}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var res struct {
		Breakdown struct {
			MarkedUp int64 `json:"markedUp"`
			Final    int64 `json:"final"`
		} `json:"breakdown"`
	}
	decodeData(t, rr, &res)
	require.Equal(t, int64(10250), res.Breakdown.MarkedUp)
	require.Equal(t, int64(10500), res.Breakdown.Final)

	rr = do(t, r, http.MethodPost, "/calculators/hpp", `{"sellingPrice":10000,"markup":"3"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestOverheadAndROIHandlers(t *testing.T) {
	r, _ := newTestRouter(t)

	rr := do(t, r, http.MethodPost, "/calculators/overhead", `{"items":[{"name":"sewa","amount":900000}],"monthlyUnits":1000}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var overhead OverheadResult
	decodeData(t, rr, &overhead)
	require.Equal(t, int64(900), overhead.PerUnit)

	rr = do(t, r, http.MethodPost, "/calculators/roi", `{"investment":1000,"monthlyRevenue":500,"monthlyCosts":250,"months":6}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var roi ROIResult
	decodeData(t, rr, &roi)
	require.Equal(t, int64(1500), roi.TotalNet)
	require.Equal(t, int64(4), *roi.PaybackMonths)

	rr = do(t, r, http.MethodPost, "/calculators/roi", `{"investment":-1}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRoundAndClassifyHandlers(t *testing.T) {
	r, _ := newTestRouter(t)

	rr := do(t, r, http.MethodPost, "/pricing/round", `{"amount":25400}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"data":{"amount":25400,"rounded":25500}}`, rr.Body.String())

	rr = do(t, r, http.MethodPost, "/pricing/round", `{"amount":-1}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, r, http.MethodPost, "/pricing/classify", `{"percentage":93.75}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"data":{"percentage":93.75,"band":"good","label":"Bagus"}}`, rr.Body.String())
}
