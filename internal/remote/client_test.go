package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Freeeeeet/hotel_booking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/", 0)
}

func TestClient_ListRoomsAvailableOnly(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/rooms", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("available"))
		_, _ = io.WriteString(w, `[{"roomId":1,"roomNumber":"101","pricePerNight":3500,"available":true}]`)
	})

	rooms, err := c.ListRooms(context.Background(), true)

	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, 3500.0, rooms[0].PricePerNight)
}

func TestClient_CreateBookingSendsDraft(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var draft model.BookingDraft
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&draft))
		assert.Equal(t, "ann@example.com", draft.GuestEmail)

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"bookingId":12,"status":"PENDING","checkInDate":"2025-06-01","checkOutDate":"2025-06-03","room":{"roomId":2},"totalPrice":11000}`)
	})

	b, err := c.CreateBooking(context.Background(), model.BookingDraft{
		RoomID: 2, GuestName: "Ann", GuestEmail: "ann@example.com",
		CheckInDate: "2025-06-01", CheckOutDate: "2025-06-03",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(12), b.BookingID)
	assert.Equal(t, int64(2), b.LinkedRoomID())
	assert.Equal(t, time.June, b.CheckInDate.Month())
}

func TestClient_StatusUpdateBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/bookings/5/status", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"status":"APPROVED"}`, string(body))
		_, _ = io.WriteString(w, `{"bookingId":5,"status":"APPROVED"}`)
	})

	b, err := c.UpdateBookingStatus(context.Background(), 5, model.BookingStatusApproved)

	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusApproved, b.Status)
}

func TestClient_NonSuccessIsStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"Booking not found"}`)
	})

	_, err := c.GetBooking(context.Background(), 9)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, "Booking not found", se.Message)
	assert.True(t, IsNotFound(err))
}

func TestClient_VoidEndpoints(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.CancelBooking(context.Background(), 3))
	require.NoError(t, c.FreeAllRooms(context.Background()))

	assert.Equal(t, []string{"DELETE /api/bookings/3", "PUT /api/rooms/free-all"}, paths)
}

func TestClient_UnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := NewClient(srv.URL+"/api", time.Second)
	srv.Close()

	_, err := c.ListBookings(context.Background())

	assert.Error(t, err)
	assert.False(t, IsNotFound(err))
}

func TestDisabled(t *testing.T) {
	var d Disabled
	_, err := d.ListRooms(context.Background(), false)
	assert.ErrorIs(t, err, ErrDisabled)
	assert.ErrorIs(t, d.FreeAllRooms(context.Background()), ErrDisabled)
}
