// Package api is the HTTP client for the server's JSON API. It carries
// only opaque ciphertext and auth material; key derivation and
// encryption happen in the caller before anything reaches this package.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/legacykeeper/internal/common"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetToken stores the access token attached to authenticated requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Account mirrors the server's account representation.
type Account struct {
	Email                 string `json:"email"`
	HeartbeatIntervalDays int    `json:"heartbeat_interval_days"`
	GracePeriodDays       int    `json:"grace_period_days"`
	LastHeartbeatAt       string `json:"last_heartbeat_at"`
	TransmissionTriggered bool   `json:"transmission_triggered"`
}

type Entry struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Category         string `json:"category"`
	EncryptedContent string `json:"encrypted_content,omitempty"`
	StorageKey       string `json:"storage_key,omitempty"`
	CreatedAt        string `json:"created_at"`
}

type Heir struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Notified bool   `json:"notified"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(common.AccessTokenHeaderName, c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError(resp)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// statusError maps HTTP statuses back to the shared sentinels so callers
// can branch with errors.Is.
func statusError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	msg := body.Error
	if msg == "" {
		msg = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", common.ErrorUnauthorized, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrorNotFound, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", common.ErrAlreadyTriggered, msg)
	default:
		return fmt.Errorf("%w: %s", common.ErrorInternal, msg)
	}
}

func (c *Client) Register(ctx context.Context, email string, salt, verifier []byte) error {
	return c.do(ctx, http.MethodPost, "/api/register", map[string]any{
		"email": email, "salt": salt, "verifier": verifier,
	}, nil)
}

func (c *Client) GetSalt(ctx context.Context, email string) ([]byte, error) {
	var out struct {
		Salt []byte `json:"salt"`
	}
	path := "/api/salt?email=" + url.QueryEscape(email)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Salt, nil
}

func (c *Client) Login(ctx context.Context, email string, verifier []byte) (string, error) {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/login", map[string]any{
		"email": email, "verifier": verifier,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

func (c *Client) Heartbeat(ctx context.Context) (string, error) {
	var out struct {
		LastHeartbeatAt string `json:"last_heartbeat_at"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/heartbeat", nil, &out); err != nil {
		return "", err
	}
	return out.LastHeartbeatAt, nil
}

func (c *Client) GetAccount(ctx context.Context) (*Account, error) {
	var out Account
	if err := c.do(ctx, http.MethodGet, "/api/account", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSettings(ctx context.Context, intervalDays, graceDays int) error {
	return c.do(ctx, http.MethodPut, "/api/settings", map[string]any{
		"heartbeat_interval_days": intervalDays,
		"grace_period_days":       graceDays,
	}, nil)
}

func (c *Client) AddEntry(ctx context.Context, title, category, encryptedContent, storageKey string) (*Entry, error) {
	var out Entry
	err := c.do(ctx, http.MethodPost, "/api/entries", map[string]any{
		"title":             title,
		"category":          category,
		"encrypted_content": encryptedContent,
		"storage_key":       storageKey,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListEntries(ctx context.Context) ([]Entry, error) {
	var out []Entry
	if err := c.do(ctx, http.MethodGet, "/api/entries", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetEntry(ctx context.Context, id string) (*Entry, error) {
	var out Entry
	if err := c.do(ctx, http.MethodGet, "/api/entries/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/entries/"+url.PathEscape(id), nil, nil)
}

func (c *Client) PresignPut(ctx context.Context) (key, uploadURL string, err error) {
	var out struct {
		StorageKey string `json:"storage_key"`
		URL        string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/entries/presign-put", nil, &out); err != nil {
		return "", "", err
	}
	return out.StorageKey, out.URL, nil
}

func (c *Client) PresignGet(ctx context.Context, id string) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	path := "/api/entries/" + url.PathEscape(id) + "/presign-get"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *Client) AddHeir(ctx context.Context, name, email string) (*Heir, error) {
	var out Heir
	err := c.do(ctx, http.MethodPost, "/api/heirs", map[string]any{
		"name": name, "email": email,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListHeirs(ctx context.Context) ([]Heir, error) {
	var out []Heir
	if err := c.do(ctx, http.MethodGet, "/api/heirs", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteHeir(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/heirs/"+url.PathEscape(id), nil, nil)
}

// HeirVault fetches the encrypted entries behind an heir access link.
func (c *Client) HeirVault(ctx context.Context, token string) ([]Entry, error) {
	var out struct {
		Entries []Entry `json:"entries"`
	}
	if err := c.do(ctx, http.MethodGet, "/legacy/"+url.PathEscape(token), nil, &out); err != nil {
		return nil, err
	}
	return out.Entries, nil
}
