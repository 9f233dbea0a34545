// Package identity exchanges mini-program login codes for user identities.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wordfriend/internal/domain"

	"go.uber.org/zap"
)

// Client calls the code2session endpoint
type Client struct {
	appID      string
	secret     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new identity client
func NewClient(appID, secret, baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		appID:      appID,
		secret:     secret,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type sessionResponse struct {
	OpenID     string `json:"openid"`
	SessionKey string `json:"session_key"`
	ErrCode    int    `json:"errcode"`
	ErrMsg     string `json:"errmsg"`
}

// Exchange trades a one-time login code for the user's openid and session key.
// A code the provider rejects is reported as domain.ErrInvalidArgument.
func (c *Client) Exchange(ctx context.Context, code string) (*domain.Identity, error) {
	query := url.Values{}
	query.Set("appid", c.appID)
	query.Set("secret", c.secret)
	query.Set("js_code", code)
	query.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/sns/jscode2session?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build code2session request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call code2session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("code2session returned status %d", resp.StatusCode)
	}

	var body sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode code2session response: %w", err)
	}

	if body.ErrCode != 0 {
		c.logger.Warn("Login code rejected",
			zap.Int("errcode", body.ErrCode),
			zap.String("errmsg", body.ErrMsg),
		)
		return nil, fmt.Errorf("%w: login code rejected (%d %s)", domain.ErrInvalidArgument, body.ErrCode, body.ErrMsg)
	}
	if body.OpenID == "" {
		return nil, fmt.Errorf("code2session response has no openid")
	}

	return &domain.Identity{OpenID: body.OpenID, SessionKey: body.SessionKey}, nil
}
