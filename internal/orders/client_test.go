package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammi749/gamekeys/internal/api"
	"github.com/ammi749/gamekeys/internal/domain"
)

type staticCreds struct{}

func (staticCreds) TokenPair() (domain.TokenPair, bool) {
	return domain.TokenPair{Access: "acc", Refresh: "ref"}, true
}
func (staticCreds) ReplaceAccess(string) {}
func (staticCreds) Invalidate()          {}

func newClientTest(t *testing.T, router chi.Router) *Client {
	t.Helper()
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return NewClient(api.NewClient(server.URL, staticCreds{}))
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestGet_ParsesOrder(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/orders/{id}/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "42", chi.URLParam(r, "id"))
		respondJSON(w, http.StatusOK, map[string]any{
			"id": 42, "email": "gamer@example.com", "status": "FULFILLED",
			"payment_method": "STRIPE", "subtotal": "59.99",
			"cashback_used": "10.00", "total": "49.99", "cashback_earned": "2.50",
			"keys": []map[string]any{
				{"id": 1, "product_name": "Elden Ring", "key_code": "AAAA-BBBB", "platform": "Steam"},
			},
		})
	})
	sut := newClientTest(t, router)

	order, err := sut.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusFulfilled, order.Status)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("49.99")))
	require.Len(t, order.Keys, 1)
	assert.Equal(t, "AAAA-BBBB", order.Keys[0].KeyCode)
}

func TestMyOrders(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/orders/my_orders/", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, []map[string]any{
			{"id": 1, "status": "PAID", "total": "10.00"},
			{"id": 2, "status": "PENDING", "total": "20.00"},
		})
	})
	sut := newClientTest(t, router)

	list, err := sut.MyOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.OrderStatusPaid, list[0].Status)
}

func TestGetGuest_SendsEmail(t *testing.T) {
	router := chi.NewRouter()
	router.Post("/orders/{id}/guest/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "guest@example.com", body["email"])
		respondJSON(w, http.StatusOK, map[string]any{"id": 5, "email": "guest@example.com"})
	})
	sut := newClientTest(t, router)

	order, err := sut.GetGuest(context.Background(), 5, "guest@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(5), order.ID)
}

func TestCashbackTransactions(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/cashback-transactions/", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, []map[string]any{
			{"id": 1, "amount": "2.50", "transaction_type": "EARNED"},
			{"id": 2, "amount": "-1.00", "transaction_type": "SPENT"},
		})
	})
	sut := newClientTest(t, router)

	list, err := sut.CashbackTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "EARNED", list[0].Kind)
}
