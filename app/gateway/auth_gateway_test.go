package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuthGatewayVerifyCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/verify-otp", r.URL.Path)

		var body struct {
			Identifier string `json:"identifier"`
			Code       string `json:"code"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user@example.com", body.Identifier)
		assert.Equal(t, "123456", body.Code)

		w.Write([]byte(`{"success":true,"message":"verified"}`))
	}))
	defer server.Close()

	gw := NewAuthGateway(server.URL, server.Client(), zap.NewNop())
	err := gw.VerifyCode(context.Background(), "user@example.com", "123456")

	assert.NoError(t, err)
}

func TestAuthGatewayRequestCodeTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	gw := NewAuthGateway(server.URL, server.Client(), zap.NewNop())
	err := gw.RequestCode(context.Background(), "user@example.com")

	require.Error(t, err)
	// The shared transport names the endpoint, not some other concern.
	assert.Contains(t, err.Error(), "/auth/request-otp")
	assert.NotContains(t, err.Error(), "cart")
}
