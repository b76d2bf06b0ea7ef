package anchor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"anchorsite/models"
)

// Client is a typed client for the Anchor management API, which owns
// availability, Sunday lunch menus and table bookings. Authentication is a
// static X-API-Key header.
type Client struct {
	hc      *http.Client
	baseURL string
	apiKey  string
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		hc:      &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// APIError is a non-success answer from the management API. The API wraps
// errors as {"error": {"message": ..., "correlation_id": ...}}.
type APIError struct {
	Status        int
	Message       string
	CorrelationID string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("anchor api: %s (status=%d)", e.Message, e.Status)
	}
	return fmt.Sprintf("anchor api: request failed (status=%d)", e.Status)
}

// envelope is the management API's response wrapper. Some endpoints return
// the payload bare, others under "data"; decode handles both.
type envelope struct {
	Success *bool           `json:"success,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *struct {
		Message       string `json:"message"`
		CorrelationID string `json:"correlation_id"`
	} `json:"error,omitempty"`
}

// GetAvailability returns the day-level availability used to render the
// booking calendar. The endpoint requires a party size; two covers is the
// calendar's neutral probe.
func (c *Client) GetAvailability(ctx context.Context, date string) (*models.DayAvailability, error) {
	return c.fetchAvailability(ctx, date, 2)
}

// GetTimeSlots returns the bookable sittings for a date and party size.
func (c *Client) GetTimeSlots(ctx context.Context, date string, partySize int) ([]models.TimeSlot, error) {
	day, err := c.fetchAvailability(ctx, date, partySize)
	if err != nil {
		return nil, err
	}
	return day.TimeSlots, nil
}

func (c *Client) fetchAvailability(ctx context.Context, date string, partySize int) (*models.DayAvailability, error) {
	query := map[string]string{
		"date":       date,
		"party_size": strconv.Itoa(partySize),
	}
	body, err := c.do(ctx, http.MethodGet, "/table-bookings/availability", query, nil, "")
	if err != nil {
		return nil, err
	}
	var day models.DayAvailability
	if err := json.Unmarshal(body, &day); err != nil {
		return nil, fmt.Errorf("decode availability: %w", err)
	}
	if day.Date == "" {
		day.Date = date
	}
	return &day, nil
}

// GetSundayLunchMenu returns the current Sunday roast pre-order menu.
func (c *Client) GetSundayLunchMenu(ctx context.Context) (*models.SundayLunchMenu, error) {
	body, err := c.do(ctx, http.MethodGet, "/table-bookings/menu/sunday-lunch", nil, nil, "")
	if err != nil {
		return nil, err
	}
	var menu models.SundayLunchMenu
	if err := json.Unmarshal(body, &menu); err != nil {
		return nil, fmt.Errorf("decode sunday lunch menu: %w", err)
	}
	return &menu, nil
}

// CreateBooking submits a booking. idempotencyKey guards against duplicate
// creation when a confirm is retried after a network failure.
func (c *Client) CreateBooking(ctx context.Context, req models.TableBookingRequest, idempotencyKey string) (*models.TableBookingResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode booking request: %w", err)
	}
	body, err := c.do(ctx, http.MethodPost, "/table-bookings", nil, payload, idempotencyKey)
	if err != nil {
		return nil, err
	}
	var res models.TableBookingResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode booking response: %w", err)
	}
	return &res, nil
}

// GetBooking looks up an existing booking by its reference.
func (c *Client) GetBooking(ctx context.Context, reference string) (*models.TableBookingResponse, error) {
	body, err := c.do(ctx, http.MethodGet, "/table-bookings/"+reference, nil, nil, "")
	if err != nil {
		return nil, err
	}
	var res models.TableBookingResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode booking: %w", err)
	}
	return &res, nil
}

// GetBusinessHours returns the venue's published schedule, including
// per-day kitchen hours and special closures.
func (c *Client) GetBusinessHours(ctx context.Context) (*models.BusinessHours, error) {
	body, err := c.do(ctx, http.MethodGet, "/business/hours", nil, nil, "")
	if err != nil {
		return nil, err
	}
	var hours models.BusinessHours
	if err := json.Unmarshal(body, &hours); err != nil {
		return nil, fmt.Errorf("decode business hours: %w", err)
	}
	return &hours, nil
}

// Ping probes the API with the cheapest authenticated call.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.GetBusinessHours(ctx)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query map[string]string, body []byte, idempotencyKey string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	if query != nil {
		q := req.URL.Query()
		for k, v := range query {
			q.Add(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("anchor api: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("anchor api: read response: %w", err)
	}

	var env envelope
	_ = json.Unmarshal(raw, &env)

	if res.StatusCode >= 400 || (env.Success != nil && !*env.Success) {
		apiErr := &APIError{Status: res.StatusCode}
		if env.Error != nil {
			apiErr.Message = env.Error.Message
			apiErr.CorrelationID = env.Error.CorrelationID
		}
		return nil, apiErr
	}

	if len(env.Data) > 0 {
		return env.Data, nil
	}
	return raw, nil
}
