package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/hotel_booking/internal/model"
)

// ErrDisabled is returned by every Disabled call.
var ErrDisabled = errors.New("remote api disabled")

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: %d", e.Method, e.Path, e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Client talks to the hotel REST API. Each call is a single attempt.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for baseURL, e.g. http://localhost:8080/api.
// A zero timeout keeps the transport default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) ListRooms(ctx context.Context, availableOnly bool) ([]model.Room, error) {
	path := "/rooms"
	if availableOnly {
		path += "?" + url.Values{"available": {"true"}}.Encode()
	}
	var rooms []model.Room
	if err := c.do(ctx, http.MethodGet, path, nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (c *Client) ListBookings(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := c.do(ctx, http.MethodGet, "/bookings", nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) GetBooking(ctx context.Context, id int64) (*model.Booking, error) {
	var b model.Booking
	if err := c.do(ctx, http.MethodGet, "/bookings/"+strconv.FormatInt(id, 10), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) CreateBooking(ctx context.Context, draft model.BookingDraft) (*model.Booking, error) {
	var b model.Booking
	if err := c.do(ctx, http.MethodPost, "/bookings", draft, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) UpdateBookingStatus(ctx context.Context, id int64, status model.BookingStatus) (*model.Booking, error) {
	var b model.Booking
	path := "/bookings/" + strconv.FormatInt(id, 10) + "/status"
	if err := c.do(ctx, http.MethodPut, path, model.StatusUpdate{Status: status}, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) CancelBooking(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/bookings/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) PayBooking(ctx context.Context, id int64) (*model.Booking, error) {
	var b model.Booking
	path := "/bookings/" + strconv.FormatInt(id, 10) + "/payment"
	if err := c.do(ctx, http.MethodPut, path, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) FreeRoom(ctx context.Context, roomID int64) (*model.Room, error) {
	var r model.Room
	path := "/rooms/" + strconv.FormatInt(roomID, 10) + "/free"
	if err := c.do(ctx, http.MethodPut, path, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) FreeAllRooms(ctx context.Context) error {
	return c.do(ctx, http.MethodPut, "/rooms/free-all", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func errorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(data))
}
