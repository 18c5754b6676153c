// internal/api/client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trainhub-session/internal/common/errors"
	httpx "trainhub-session/internal/common/http"
	"trainhub-session/internal/common/logger"
	"trainhub-session/internal/common/validation"
	"trainhub-session/internal/models"
)

// Endpoint paths on the TrainHub backend, relative to the base URL.
const (
	tokenPath       = "/token/"
	currentUserPath = "/accounts/users/me/"
	logoutPath      = "/accounts/users/logout/"
)

// Client talks to the TrainHub REST backend. It performs no retries; every
// failure is returned as a StandardError for the session manager to surface.
type Client struct {
	baseURL    string
	httpClient *httpx.Client
	logger     logger.Logger
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpx.NewClient(timeout),
		logger:     log,
	}
}

// credentialRequest is the body of the credential exchange call.
type credentialRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// errorBody is the backend's error envelope; detail carries the
// user-facing message.
type errorBody struct {
	Detail string `json:"detail"`
}

// ExchangeCredentials trades an email/password pair for a token pair via
// POST /token/. Non-success responses surface the server's detail message.
func (c *Client) ExchangeCredentials(ctx context.Context, email, password string) (*models.TokenPair, error) {
	jsonData, err := json.Marshal(credentialRequest{Email: email, Password: password})
	if err != nil {
		return nil, errors.NewSerializationError(err)
	}

	req, err := http.NewRequest("POST", c.baseURL+tokenPath, bytes.NewReader(jsonData))
	if err != nil {
		return nil, errors.NewHTTPRequestError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.DoInstrumented(ctx, req, "exchange_credentials")
	if err != nil {
		return nil, errors.NewNetworkError("credential exchange", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNetworkError("credential exchange", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.NewCredentialsRejectedError(parseDetail(body))
	}

	result, err := validation.ValidateJSON(body, tokenPairSchema)
	if err != nil || !result.Valid {
		return nil, errors.NewResponseInvalidError("token", summaryOrErr(result, err))
	}

	var pair models.TokenPair
	if err := json.Unmarshal(body, &pair); err != nil {
		return nil, errors.NewDeserializationError("token response", err)
	}

	return &pair, nil
}

// FetchProfile retrieves the authenticated principal via
// GET /accounts/users/me/. A 401 is distinguished from other failures so
// the session manager can force a local logout.
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (*models.UserProfile, error) {
	req, err := http.NewRequest("GET", c.baseURL+currentUserPath, nil)
	if err != nil {
		return nil, errors.NewHTTPRequestError(err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.DoInstrumented(ctx, req, "fetch_profile")
	if err != nil {
		return nil, errors.NewNetworkError("profile fetch", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNetworkError("profile fetch", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, errors.NewSessionInvalidatedError(parseDetail(body))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("profile fetch rejected", map[string]interface{}{
			"status": resp.StatusCode,
		})
		return nil, errors.NewProfileFetchFailedError(isTransientHTTPError(resp.StatusCode))
	}

	result, err := validation.ValidateJSON(body, userProfileSchema)
	if err != nil || !result.Valid {
		return nil, errors.NewResponseInvalidError("user profile", summaryOrErr(result, err))
	}

	var profile models.UserProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, errors.NewDeserializationError("user profile", err)
	}

	return &profile, nil
}

// logoutRequest is the body of the logout notification call.
type logoutRequest struct {
	Refresh string `json:"refresh"`
}

// NotifyLogout posts the refresh token to the backend so the server-side
// session can be invalidated. The response body is ignored; callers treat
// any returned error as best-effort only.
func (c *Client) NotifyLogout(ctx context.Context, refreshToken string) error {
	jsonData, err := json.Marshal(logoutRequest{Refresh: refreshToken})
	if err != nil {
		return errors.NewSerializationError(err)
	}

	req, err := http.NewRequest("POST", c.baseURL+logoutPath, bytes.NewReader(jsonData))
	if err != nil {
		return errors.NewHTTPRequestError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.DoInstrumented(ctx, req, "notify_logout")
	if err != nil {
		return errors.NewLogoutNotifyFailedError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return errors.NewLogoutNotifyFailedError(
			fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	return nil
}

// parseDetail extracts the backend's detail message, empty when the body
// is not the expected envelope.
func parseDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	return eb.Detail
}

func summaryOrErr(result *validation.ValidationResult, err error) string {
	if err != nil {
		return err.Error()
	}
	return result.ErrorSummary()
}

// isTransientHTTPError returns true if the HTTP status code indicates a
// potentially transient error.
func isTransientHTTPError(statusCode int) bool {
	switch statusCode {
	case http.StatusInternalServerError, // 500
		http.StatusBadGateway,         // 502
		http.StatusServiceUnavailable, // 503
		http.StatusGatewayTimeout:     // 504
		return true
	default:
		return false
	}
}
