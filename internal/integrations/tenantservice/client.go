package tenantservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// Client клиент для работы с TenantService (хранилище конфигурации тенантов)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента TenantService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetTenant получает тенанта (таймзона, менеджеры)
func (c *Client) GetTenant(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error) {
	url := fmt.Sprintf("%s/internal/tenants/%s", c.baseURL, tenantID)

	var tenant Tenant
	if err := c.get(ctx, url, ErrTenantNotFound, &tenant); err != nil {
		return nil, err
	}

	if tenant.ID != tenantID {
		return nil, fmt.Errorf("%w: tenant id mismatch: want %s, got %s", ErrInvalidResponse, tenantID, tenant.ID)
	}

	return tenant.ToDomain(), nil
}

// GetSessionType получает тип сессии тенанта (длительность, вместимость, цена)
func (c *Client) GetSessionType(ctx context.Context, tenantID, sessionTypeID uuid.UUID) (*domain.SessionType, error) {
	url := fmt.Sprintf("%s/internal/tenants/%s/session-types/%s", c.baseURL, tenantID, sessionTypeID)

	var sessionType SessionType
	if err := c.get(ctx, url, ErrSessionTypeNotFound, &sessionType); err != nil {
		return nil, err
	}

	return sessionType.ToDomain(), nil
}

func (c *Client) get(ctx context.Context, url string, notFound error, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("TenantService request failed: url=%s, error=%v", url, err)
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return fmt.Errorf("%w: invalid id format", ErrInvalidResponse)
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
