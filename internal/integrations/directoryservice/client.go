package directoryservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с DirectoryService (салоны, услуги, специалисты)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента DirectoryService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetShop получает салон по ID
func (c *Client) GetShop(ctx context.Context, shopID int64) (*Shop, error) {
	url := fmt.Sprintf("%s/internal/shops/%d", c.baseURL, shopID)

	var shop Shop
	if err := c.getJSON(ctx, url, &shop, ErrShopNotFound); err != nil {
		return nil, err
	}
	return &shop, nil
}

// GetService получает услугу салона по ID
func (c *Client) GetService(ctx context.Context, shopID, serviceID int64) (*Service, error) {
	url := fmt.Sprintf("%s/internal/shops/%d/services/%d", c.baseURL, shopID, serviceID)

	var service Service
	if err := c.getJSON(ctx, url, &service, ErrServiceNotFound); err != nil {
		return nil, err
	}
	return &service, nil
}

// GetSpecialist получает специалиста по ID
func (c *Client) GetSpecialist(ctx context.Context, specialistID int64) (*Specialist, error) {
	url := fmt.Sprintf("%s/internal/specialists/%d", c.baseURL, specialistID)

	var specialist Specialist
	if err := c.getJSON(ctx, url, &specialist, ErrSpecialistNotFound); err != nil {
		return nil, err
	}
	return &specialist, nil
}

// ListSpecialistsForService получает специалистов салона, назначенных
// на услугу. Жесткий фильтр по требуемым навыкам выполняется на вызывающей
// стороне по данным профиля
func (c *Client) ListSpecialistsForService(ctx context.Context, shopID, serviceID int64) ([]*Specialist, error) {
	url := fmt.Sprintf("%s/internal/shops/%d/services/%d/specialists", c.baseURL, shopID, serviceID)

	var specialists []*Specialist
	if err := c.getJSON(ctx, url, &specialists, ErrServiceNotFound); err != nil {
		return nil, err
	}
	return specialists, nil
}

// getJSON выполняет GET запрос и декодирует JSON ответ
// notFoundErr возвращается для статуса 404
func (c *Client) getJSON(ctx context.Context, url string, out interface{}, notFoundErr error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return notFoundErr
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
