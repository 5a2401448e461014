package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Freeeeeet/hotel_booking/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GET /api/rooms[?available=true]
func (s *Server) listRooms(c *gin.Context) {
	rooms := s.store.Rooms(c.Request.Context())
	if available, _ := strconv.ParseBool(c.Query("available")); available {
		rooms = domain.FilterAvailable(rooms)
	}
	c.JSON(http.StatusOK, rooms)
}

// GET /api/rooms/:id
func (s *Server) getRoom(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	for _, r := range s.store.Rooms(c.Request.Context()) {
		if r.RoomID == id {
			c.JSON(http.StatusOK, r)
			return
		}
	}
	errorJSON(c, http.StatusNotFound, fmt.Sprintf("Room not found with id: %d", id))
}

// PUT /api/rooms/:id/free
func (s *Server) freeRoom(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var res domain.FreeResult
	err := s.store.Update(c.Request.Context(), func(l *domain.Ledger) error {
		var err error
		res, err = l.FreeRoom(id)
		return err
	})
	if errors.Is(err, domain.ErrRoomNotFound) {
		errorJSON(c, http.StatusNotFound, fmt.Sprintf("Room not found with id: %d", id))
		return
	}
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to free room: "+err.Error())
		return
	}

	s.logger.Info("Room freed", zap.Int64("room_id", id), zap.Int("released", len(res.Removed)))
	c.JSON(http.StatusOK, res.Room)
}

// PUT /api/rooms/free-all
func (s *Server) freeAllRooms(c *gin.Context) {
	var released int
	_ = s.store.Update(c.Request.Context(), func(l *domain.Ledger) error {
		released = len(l.FreeAll())
		return nil
	})

	s.logger.Info("All rooms freed", zap.Int("released", released))
	c.Status(http.StatusOK)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		errorJSON(c, http.StatusBadRequest, "Invalid id: "+c.Param("id"))
		return 0, false
	}
	return id, true
}
