package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainhub-session/internal/common/errors"
	"trainhub-session/internal/common/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, logger.NewTestLogger(t))
}

// ==========================
// ExchangeCredentials Tests
// ==========================

func TestExchangeCredentials_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/token/", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@x.com", body["email"])
		assert.Equal(t, "secret", body["password"])

		w.Write([]byte(`{"access":"T1","refresh":"R1"}`))
	})

	pair, err := client.ExchangeCredentials(context.Background(), "a@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "T1", pair.Access)
	assert.Equal(t, "R1", pair.Refresh)
}

func TestExchangeCredentials_RejectedWithDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"No active account found with the given credentials"}`))
	})

	pair, err := client.ExchangeCredentials(context.Background(), "a@x.com", "wrong")
	assert.Nil(t, pair)
	require.Error(t, err)

	stdErr := errors.AsStandardError(err)
	assert.Equal(t, errors.ErrCodeCredentialsRejected, stdErr.Code)
	assert.Equal(t, "No active account found with the given credentials", errors.UserMessage(err))
}

func TestExchangeCredentials_RejectedWithoutDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"unexpected":"shape"}`))
	})

	_, err := client.ExchangeCredentials(context.Background(), "a@x.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Login failed", errors.UserMessage(err))
}

func TestExchangeCredentials_MalformedTokenPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing refresh", `{"access":"T1"}`},
		{"empty access", `{"access":"","refresh":"R1"}`},
		{"wrong types", `{"access":1,"refresh":2}`},
		{"not an object", `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			_, err := client.ExchangeCredentials(context.Background(), "a@x.com", "secret")
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeResponseInvalid, errors.AsStandardError(err).Code)
		})
	}
}

func TestExchangeCredentials_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()
	client := NewClient(srv.URL, time.Second, logger.NewTestLogger(t))

	_, err := client.ExchangeCredentials(context.Background(), "a@x.com", "secret")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeNetworkError, errors.AsStandardError(err).Code)
}

// ==========================
// FetchProfile Tests
// ==========================

func TestFetchProfile_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/accounts/users/me/", r.URL.Path)
		require.Equal(t, "Bearer T1", r.Header.Get("Authorization"))

		w.Write([]byte(`{
			"id": 42,
			"email": "a@x.com",
			"first_name": "A",
			"last_name": "B",
			"role": "trainer",
			"phone_number": null,
			"profile_picture": null
		}`))
	})

	profile, err := client.FetchProfile(context.Background(), "T1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), profile.ID)
	assert.Equal(t, "a@x.com", profile.Email)
	assert.Equal(t, "A B", profile.FullName())
	assert.Equal(t, "trainer", string(profile.Role))
	assert.Empty(t, profile.PhoneNumber)
}

func TestFetchProfile_Unauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Given token not valid for any token type"}`))
	})

	profile, err := client.FetchProfile(context.Background(), "stale")
	assert.Nil(t, profile)
	require.Error(t, err)
	assert.True(t, errors.IsSessionInvalidated(err))
	assert.Equal(t, "Given token not valid for any token type", errors.UserMessage(err))
}

func TestFetchProfile_ServerError(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantRetryable bool
	}{
		{"bad gateway", http.StatusBadGateway, true},
		{"service unavailable", http.StatusServiceUnavailable, true},
		{"forbidden", http.StatusForbidden, false},
		{"not found", http.StatusNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := client.FetchProfile(context.Background(), "T1")
			require.Error(t, err)
			assert.False(t, errors.IsSessionInvalidated(err))

			stdErr := errors.AsStandardError(err)
			assert.Equal(t, errors.ErrCodeProfileFetchFailed, stdErr.Code)
			assert.Equal(t, tt.wantRetryable, stdErr.Retryable)
		})
	}
}

func TestFetchProfile_MalformedProfile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"not-a-number","email":"a@x.com"}`))
	})

	_, err := client.FetchProfile(context.Background(), "T1")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeResponseInvalid, errors.AsStandardError(err).Code)
}

// ==========================
// NotifyLogout Tests
// ==========================

func TestNotifyLogout_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/accounts/users/logout/", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "R1", body["refresh"])

		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, client.NotifyLogout(context.Background(), "R1"))
}

func TestNotifyLogout_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := client.NotifyLogout(context.Background(), "R1")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeLogoutNotifyFailed, errors.AsStandardError(err).Code)
}

func TestIsTransientHTTPError(t *testing.T) {
	assert.True(t, isTransientHTTPError(http.StatusInternalServerError))
	assert.True(t, isTransientHTTPError(http.StatusBadGateway))
	assert.True(t, isTransientHTTPError(http.StatusServiceUnavailable))
	assert.True(t, isTransientHTTPError(http.StatusGatewayTimeout))
	assert.False(t, isTransientHTTPError(http.StatusUnauthorized))
	assert.False(t, isTransientHTTPError(http.StatusBadRequest))
}
