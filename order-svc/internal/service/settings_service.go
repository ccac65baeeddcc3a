package service

import (
	"context"
	"fmt"
	"strings"

	"restobar/events"
	"restobar/order-svc/internal/domain"

	"github.com/rs/zerolog"
)

type SettingsService struct {
	settings SettingsRepository
	notifier Notifier
	logger   zerolog.Logger
}

func NewSettingsService(settings SettingsRepository, notifier Notifier, logger zerolog.Logger) *SettingsService {
	return &SettingsService{settings: settings, notifier: notifier, logger: logger}
}

func (s *SettingsService) Get(ctx context.Context) (*domain.Settings, error) {
	return s.settings.GetSettings(ctx)
}

func (s *SettingsService) IsOpen(ctx context.Context) (bool, error) {
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return false, err
	}
	return settings.IsOpen, nil
}

// ToggleOpen flips whether customers may place orders and tells the staff
// screens about it.
func (s *SettingsService) ToggleOpen(ctx context.Context) (bool, error) {
	open, err := s.settings.ToggleOpen(ctx)
	if err != nil {
		return false, err
	}

	state := "closed"
	if open {
		state = "open"
	}
	s.logger.Info().Bool("is_open", open).Msg("restaurant status changed")

	s.notifier.Notify(ctx, events.Event{
		Type:     events.TypeRestaurantStatusChanged,
		Realtime: events.RealtimeRestaurant,
		Message:  fmt.Sprintf("Restaurant is now %s.", state),
		Data:     events.Payload{Status: state},
	})
	return open, nil
}

func (s *SettingsService) UpdateImage(ctx context.Context, kind domain.SettingsImage, url string) (*domain.Settings, error) {
	if !kind.Valid() {
		return nil, domain.Validationf("unknown settings image %q", kind)
	}
	if url == "" {
		return nil, domain.Validationf("an image file is required")
	}
	if err := s.settings.UpdateSettingsImage(ctx, kind, url); err != nil {
		return nil, err
	}
	return s.settings.GetSettings(ctx)
}

func (s *SettingsService) UpdateSiteName(ctx context.Context, name string) (*domain.Settings, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Validationf("site name is required")
	}
	if err := s.settings.UpdateSiteName(ctx, name); err != nil {
		return nil, err
	}
	return s.settings.GetSettings(ctx)
}
