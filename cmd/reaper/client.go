package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/service/bookings/models"
)

const reapPath = "/api/v1/internal/bookings/reap-expired"

var (
	ErrUnauthorized  = errors.New("reaper: internal token rejected")
	ErrUnexpected    = errors.New("reaper: unexpected response")
	ErrRequestFailed = errors.New("reaper: request failed")
)

// reapClient вызывает reap-expired движка от имени системы
type reapClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func newReapClient(baseURL, token string, timeout time.Duration) *reapClient {
	return &reapClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Reap отменяет неоплаченные бронирования старше olderThan
func (c *reapClient) Reap(ctx context.Context, olderThan time.Duration, limit int) (*models.ReapExpiredResponse, error) {
	body, err := json.Marshal(models.ReapExpiredRequest{
		OlderThanMinutes: int(olderThan / time.Minute),
		Limit:            limit,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+reapPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderInternalToken, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	default:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnexpected, resp.StatusCode, string(raw))
	}

	var result models.ReapExpiredResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnexpected, err)
	}
	return &result, nil
}
