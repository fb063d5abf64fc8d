package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dwight/internal/config"
	"dwight/internal/market"
	"dwight/internal/models"
	"dwight/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubPrices map[string]float64

func (s stubPrices) LastPrice(_ context.Context, symbol string) (*market.Quote, error) {
	price, ok := s[symbol]
	if !ok {
		return nil, market.ErrNoPriceData
	}
	return &market.Quote{Symbol: symbol, CurrentPrice: price, AsOf: time.Date(2026, 1, 2, 21, 0, 0, 0, time.UTC)}, nil
}

type resetCapture struct {
	tokens map[string]string
}

func (r *resetCapture) DeliverResetToken(_ context.Context, user *models.User, token string) error {
	r.tokens[user.Email] = token
	return nil
}

type apiClient struct {
	t      *testing.T
	engine *gin.Engine
	resets *resetCapture
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	resets := &resetCapture{tokens: map[string]string{}}
	engine := New(Deps{
		Config: &config.Config{
			JWT:  config.JWT{Secret: "router-test-secret", Lifetime: time.Hour, ResetTokenLifetime: time.Hour},
			CORS: config.CORS{AllowedOrigins: []string{"http://localhost:5173"}},
		},
		DB:        db,
		Prices:    stubPrices{"AAPL": 189.84},
		ResetSink: resets,
	})
	return &apiClient{t: t, engine: engine, resets: resets}
}

func (a *apiClient) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

// signup registers an account and returns a bearer token for it.
func (a *apiClient) signup(email string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/auth/register", "", map[string]string{"email": email, "password": "password123"})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return a.login(email, "password123")
}

func (a *apiClient) login(email, password string) string {
	a.t.Helper()
	form := url.Values{"username": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/auth/jwt/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decode(a.t, rec, &resp)
	require.Equal(a.t, "bearer", resp.TokenType)
	require.NotEmpty(a.t, resp.AccessToken)
	return resp.AccessToken
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decode(t, rec, &body)
	return body.Error.Code
}

type holdingBody struct {
	ID          uint      `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Symbol      string    `json:"symbol"`
	DisplayName *string   `json:"display_name"`
	Quantity    float64   `json:"quantity"`
	UnitCost    float64   `json:"unit_cost"`
	Category    string    `json:"category"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func TestRoot(t *testing.T) {
	api := newAPI(t)

	rec := api.do(http.MethodGet, "/", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Dwight is running"}`, rec.Body.String())
}

func TestHoldingLifecycle(t *testing.T) {
	api := newAPI(t)
	alice := api.signup("alice@example.com")
	bob := api.signup("bob@example.com")

	rec := api.do(http.MethodPost, "/holdings/", alice, map[string]interface{}{
		"symbol": "AAPL", "quantity": 10, "unit_cost": 150,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created holdingBody
	decode(t, rec, &created)
	assert.Equal(t, "AAPL", created.Symbol)
	assert.Equal(t, "stock", created.Category)
	assert.Equal(t, 10.0, created.Quantity)
	assert.Nil(t, created.DisplayName)

	path := "/holdings/" + jsonID(created.ID)

	t.Run("owner_can_read", func(t *testing.T) {
		rec := api.do(http.MethodGet, path, alice, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var got holdingBody
		decode(t, rec, &got)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("partial_update", func(t *testing.T) {
		rec := api.do(http.MethodPut, path, alice, map[string]interface{}{"quantity": 15})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got holdingBody
		decode(t, rec, &got)
		assert.Equal(t, 15.0, got.Quantity)
		assert.Equal(t, 150.0, got.UnitCost)
		assert.Equal(t, "AAPL", got.Symbol)
		assert.True(t, got.UpdatedAt.After(created.UpdatedAt))
		assert.True(t, got.CreatedAt.Equal(created.CreatedAt))
	})

	t.Run("other_user_sees_not_found", func(t *testing.T) {
		rec := api.do(http.MethodGet, path, bob, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "HOLDING_NOT_FOUND", errorCode(t, rec))

		rec = api.do(http.MethodPut, path, bob, map[string]interface{}{"quantity": 1})
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = api.do(http.MethodDelete, path, bob, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = api.do(http.MethodGet, "/holdings", bob, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
		assert.Equal(t, "0", rec.Header().Get("X-Total-Count"))
	})

	t.Run("owner_list", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/holdings", alice, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var list []holdingBody
		decode(t, rec, &list)
		require.Len(t, list, 1)
		assert.Equal(t, 15.0, list[0].Quantity)
		assert.Equal(t, "1", rec.Header().Get("X-Total-Count"))
	})

	t.Run("delete_twice", func(t *testing.T) {
		rec := api.do(http.MethodDelete, path, alice, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())

		rec = api.do(http.MethodDelete, path, alice, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = api.do(http.MethodGet, path, alice, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHoldingValidation(t *testing.T) {
	api := newAPI(t)
	token := api.signup("carol@example.com")

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"zero_quantity", map[string]interface{}{"symbol": "AAPL", "quantity": 0, "unit_cost": 1}},
		{"negative_cost", map[string]interface{}{"symbol": "AAPL", "quantity": 1, "unit_cost": -1}},
		{"long_symbol", map[string]interface{}{"symbol": "ABCDEFGHIJK", "quantity": 1, "unit_cost": 1}},
		{"missing_symbol", map[string]interface{}{"quantity": 1, "unit_cost": 1}},
		{"bad_category", map[string]interface{}{"symbol": "AAPL", "quantity": 1, "unit_cost": 1, "category": "bond"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(http.MethodPost, "/holdings/", token, tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
			assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
		})
	}

	t.Run("bad_id", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/holdings/abc", token, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("zero_values_on_update", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/holdings/", token, map[string]interface{}{"symbol": "AAPL", "quantity": 10, "unit_cost": 150})
		require.Equal(t, http.StatusCreated, rec.Code)
		var created holdingBody
		decode(t, rec, &created)
		path := "/holdings/" + jsonID(created.ID)

		patches := []map[string]interface{}{
			{"quantity": 0},
			{"unit_cost": 0},
			{"symbol": ""},
			{"category": ""},
			{"quantity": 20, "unit_cost": 0},
		}
		for _, patch := range patches {
			rec := api.do(http.MethodPut, path, token, patch)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "%v: %s", patch, rec.Body.String())
			assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
		}

		rec = api.do(http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var stored holdingBody
		decode(t, rec, &stored)
		assert.Equal(t, "AAPL", stored.Symbol)
		assert.Equal(t, 10.0, stored.Quantity)
		assert.Equal(t, 150.0, stored.UnitCost)
		assert.Equal(t, "stock", stored.Category)
		assert.True(t, stored.UpdatedAt.Equal(created.UpdatedAt))
	})

	t.Run("null_quantity_on_update", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/holdings/", token, map[string]interface{}{"symbol": "MSFT", "quantity": 2, "unit_cost": 300})
		require.Equal(t, http.StatusCreated, rec.Code)
		var created holdingBody
		decode(t, rec, &created)

		rec = api.do(http.MethodPut, "/holdings/"+jsonID(created.ID), token, map[string]interface{}{"quantity": nil})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	})
}

func TestAuthentication(t *testing.T) {
	api := newAPI(t)

	t.Run("missing_token", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/holdings/", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("garbage_token", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/users/me", "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("duplicate_email", func(t *testing.T) {
		api.signup("dave@example.com")
		rec := api.do(http.MethodPost, "/auth/register", "", map[string]string{"email": "DAVE@example.com", "password": "password123"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "REGISTER_USER_ALREADY_EXISTS", errorCode(t, rec))
	})

	t.Run("me_and_logout", func(t *testing.T) {
		token := api.signup("erin@example.com")

		rec := api.do(http.MethodGet, "/users/me", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var me struct {
			Email    string `json:"email"`
			IsActive bool   `json:"is_active"`
		}
		decode(t, rec, &me)
		assert.Equal(t, "erin@example.com", me.Email)
		assert.True(t, me.IsActive)

		rec = api.do(http.MethodPost, "/auth/jwt/logout", token, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("empty_values_on_update_me", func(t *testing.T) {
		token := api.signup("hank@example.com")

		for _, patch := range []map[string]interface{}{
			{"password": ""},
			{"email": ""},
			{"password": "short"},
		} {
			rec := api.do(http.MethodPatch, "/users/me", token, patch)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "%v: %s", patch, rec.Body.String())
		}

		rec := api.do(http.MethodGet, "/users/me", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var me struct {
			Email string `json:"email"`
		}
		decode(t, rec, &me)
		assert.Equal(t, "hank@example.com", me.Email)

		api.login("hank@example.com", "password123")
	})

	t.Run("password_reset", func(t *testing.T) {
		api.signup("frank@example.com")

		rec := api.do(http.MethodPost, "/auth/forgot-password", "", map[string]string{"email": "frank@example.com"})
		require.Equal(t, http.StatusAccepted, rec.Code)
		resetToken := api.resets.tokens["frank@example.com"]
		require.NotEmpty(t, resetToken)

		rec = api.do(http.MethodPost, "/auth/reset-password", "", map[string]string{"token": resetToken, "password": "new-password-1"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		api.login("frank@example.com", "new-password-1")

		rec = api.do(http.MethodPost, "/auth/reset-password", "", map[string]string{"token": resetToken, "password": "another-pass-2"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMarketQuote(t *testing.T) {
	api := newAPI(t)
	token := api.signup("grace@example.com")

	rec := api.do(http.MethodGet, "/market/quotes/AAPL", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var quote market.Quote
	decode(t, rec, &quote)
	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Equal(t, 189.84, quote.CurrentPrice)

	rec = api.do(http.MethodGet, "/market/quotes/ZZZZ", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NO_PRICE_DATA", errorCode(t, rec))

	rec = api.do(http.MethodGet, "/market/quotes/AAPL", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	api := newAPI(t)

	req := httptest.NewRequest(http.MethodOptions, "/holdings/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	api.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func jsonID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
