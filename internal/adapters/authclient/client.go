package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/markethub/user-card-service/internal/domain"
	"github.com/markethub/user-card-service/internal/ports"
)

type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client calls the authentication service to provision login credentials
// for newly registered users.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 8 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
	}
}

type createCredentialsRequest struct {
	UserID   string `json:"userId"`
	Login    string `json:"login"`
	Password string `json:"password"`
}

type createCredentialsResponse struct {
	UserID string `json:"userId"`
}

type upstreamError struct {
	Message string `json:"message"`
}

func (c *Client) CreateCredentials(ctx context.Context, creds domain.Credentials) (ports.CredentialResult, error) {
	body, err := json.Marshal(createCredentialsRequest{
		UserID:   creds.UserID.String(),
		Login:    creds.Login,
		Password: creds.Password,
	})
	if err != nil {
		return ports.CredentialResult{}, fmt.Errorf("marshal credentials request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/auth/credentials", bytes.NewReader(body))
	if err != nil {
		return ports.CredentialResult{}, fmt.Errorf("build credentials request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.CredentialResult{}, fmt.Errorf("%w: auth service unreachable: %v", domain.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return ports.CredentialResult{}, fmt.Errorf("%w: read auth service response: %v", domain.ErrDependencyUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var out createCredentialsResponse
		if unmarshalErr := json.Unmarshal(raw, &out); unmarshalErr != nil {
			return ports.CredentialResult{}, fmt.Errorf("%w: decode auth service response: %v", domain.ErrDependencyUnavailable, unmarshalErr)
		}
		externalID, parseErr := uuid.Parse(out.UserID)
		if parseErr != nil {
			return ports.CredentialResult{}, fmt.Errorf("%w: auth service returned malformed user id %q", domain.ErrDependencyUnavailable, out.UserID)
		}
		return ports.CredentialResult{ExternalUserID: externalID}, nil
	case resp.StatusCode == http.StatusConflict:
		return ports.CredentialResult{}, fmt.Errorf("%w: %s", domain.ErrConflict, upstreamMessage(raw, "login is already taken"))
	default:
		return ports.CredentialResult{}, fmt.Errorf("%w: auth service responded with status %d", domain.ErrDependencyUnavailable, resp.StatusCode)
	}
}

func upstreamMessage(raw []byte, fallback string) string {
	var e upstreamError
	if err := json.Unmarshal(raw, &e); err == nil && strings.TrimSpace(e.Message) != "" {
		return e.Message
	}
	return fallback
}
