// Package client предоставляет HTTP-клиент для API сервиса обработки чеков.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound возвращается, если сервис не знает чек с указанным идентификатором.
var ErrNotFound = errors.New("receipt not found")

// APIError описывает ошибку, возвращённую сервисом.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Is позволяет сопоставлять ответ 404 с ErrNotFound через errors.Is.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client инкапсулирует HTTP-взаимодействие с сервисом обработки чеков.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type processResponse struct {
	ID string `json:"id"`
}

type pointsResponse struct {
	Points int64 `json:"points"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewClient создаёт клиент для сервиса по указанному адресу.
// Адрес без схемы дополняется префиксом http://.
func NewClient(baseURL string, timeout time.Duration) *Client {
	base := strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ProcessReceipt отправляет чек в формате JSON и возвращает присвоенный ему идентификатор.
func (c *Client) ProcessReceipt(ctx context.Context, receipt []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/receipts/process", bytes.NewReader(receipt))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var result processResponse
	if err := c.do(req, &result); err != nil {
		return "", err
	}

	if result.ID == "" {
		return "", fmt.Errorf("empty receipt id in response")
	}

	return result.ID, nil
}

// GetPoints запрашивает количество баллов, начисленных за чек.
func (c *Client) GetPoints(ctx context.Context, id string) (int64, error) {
	endpoint := fmt.Sprintf("%s/api/receipts/%s/points", c.baseURL, url.PathEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	var result pointsResponse
	if err := c.do(req, &result); err != nil {
		return 0, err
	}

	return result.Points, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func decodeAPIError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("read error response: %w", err)
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}

	var payload errorResponse
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		apiErr.Message = payload.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}

	return apiErr
}
