package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        200,
			MaxIdleConnsPerHost: 200,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

type credentials struct {
	BaseURL   string
	CookieKey string
	SID       string
	Email     string
	Password  string
}

func (c credentials) validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("--base-url is required")
	}
	if strings.TrimSpace(c.SID) == "" && strings.TrimSpace(c.Email) == "" {
		return errors.New("either --sid or --email is required")
	}
	return nil
}

func (c credentials) url(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + path
}

// session returns the sid to send with every request, logging in with the
// configured email and password when no sid was given.
func (c credentials) session(ctx context.Context, client *http.Client) (string, error) {
	if sid := strings.TrimSpace(c.SID); sid != "" {
		return sid, nil
	}
	body, err := json.Marshal(map[string]string{"email": c.Email, "password": c.Password})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/api/auth/login"), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "login")
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed: status=%d", resp.StatusCode)
	}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == c.CookieKey && cookie.Value != "" {
			return cookie.Value, nil
		}
	}
	return "", fmt.Errorf("login response has no %s cookie", c.CookieKey)
}

func healthCheck(ctx context.Context, client *http.Client, c credentials) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/health"), nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("health check failed: status=%d", resp.StatusCode)
	}
	return nil
}
