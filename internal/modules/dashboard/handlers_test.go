package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	ledgerService := newTestLedger(t)
	require.NoError(t, ledgerService.Buy("AAPL", 10, 150.0))

	oracle := &stubOracle{prices: map[string]float64{"AAPL": 200.0}}
	handler := NewHandler(NewService(ledgerService, oracle, zerolog.Nop()), zerolog.Nop())

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})
	return r
}

func TestDashboardEndpoints(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{
		"/api/dashboard/stats",
		"/api/dashboard/live-value",
		"/api/dashboard/breakdown",
	} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest("GET", path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		})
	}
}

func TestDashboardStats_RepeatedReadsMatch(t *testing.T) {
	router := newTestRouter(t)

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest("GET", "/api/dashboard/stats", nil))
	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest("GET", "/api/dashboard/stats", nil))

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)

	// Bodies differ only in the metadata timestamp; the data payload must match
	var a, b struct {
		Data Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
	assert.Equal(t, a.Data, b.Data)
}
