package service

import (
	"context"

	"github.com/Freeeeeet/hotel_booking/internal/domain"
	"github.com/Freeeeeet/hotel_booking/internal/eventbus"
	"github.com/Freeeeeet/hotel_booking/internal/model"
	"github.com/Freeeeeet/hotel_booking/internal/storage"
	"go.uber.org/zap"
)

type SettingsService struct {
	store  *storage.Store
	bus    *eventbus.Bus
	logger *zap.Logger
}

func NewSettingsService(store *storage.Store, bus *eventbus.Bus, logger *zap.Logger) *SettingsService {
	return &SettingsService{store: store, bus: bus, logger: logger}
}

func (s *SettingsService) HotelInfo(ctx context.Context) model.HotelInfo {
	info := domain.DefaultHotelInfo()
	s.store.GetJSON(ctx, storage.KeyHotelInfo, &info)
	return info
}

func (s *SettingsService) UpdateHotelInfo(ctx context.Context, info model.HotelInfo) {
	s.store.PutJSON(ctx, storage.KeyHotelInfo, info)
	s.logger.Info("Hotel info updated", zap.String("name", info.Name))
	s.refresh(ctx, eventbus.SourceAdminDashboard)
}

// ResetSystem wipes every collection and session.
func (s *SettingsService) ResetSystem(ctx context.Context) {
	s.store.Clear(ctx)
	s.logger.Warn("System reset, all stored data cleared")
	s.refresh(ctx, eventbus.SourceSystemReset)
}

func (s *SettingsService) refresh(ctx context.Context, source string) {
	if err := s.bus.Publish(ctx, eventbus.DataRefreshEvent{Source: source}); err != nil {
		s.logger.Error("Failed to publish refresh", zap.Error(err))
	}
}
