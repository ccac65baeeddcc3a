package service

import (
	"context"
	"fmt"

	"restobar/order-svc/internal/domain"

	"github.com/rs/zerolog"
)

type PWDService struct {
	requests PWDRepository
	logger   zerolog.Logger
}

func NewPWDService(requests PWDRepository, logger zerolog.Logger) *PWDService {
	return &PWDService{requests: requests, logger: logger}
}

func (s *PWDService) Submit(ctx context.Context, userID int, documentPath string) (*domain.PWDRequest, error) {
	if documentPath == "" {
		return nil, domain.Validationf("PWD ID document is required")
	}

	pending, err := s.requests.HasPWDRequest(ctx, userID, domain.PWDPending)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, domain.ErrPWDRequestPending
	}

	req := &domain.PWDRequest{UserID: userID, DocumentPath: documentPath, Status: domain.PWDPending}
	if err := s.requests.CreatePWDRequest(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *PWDService) Review(ctx context.Context, id int, approve bool) (*domain.PWDRequest, error) {
	req, err := s.requests.GetPWDRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	target := domain.PWDRejected
	if approve {
		target = domain.PWDApproved
	}
	if req.Status != domain.PWDPending {
		return nil, fmt.Errorf("%w: PWD request is already %s", domain.ErrStateConflict, req.Status)
	}

	updated, err := s.requests.UpdatePWDStatus(ctx, id, domain.PWDPending, target)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, fmt.Errorf("%w: PWD request %d changed concurrently", domain.ErrStateConflict, id)
	}
	req.Status = target

	s.logger.Info().Int("pwd_request_id", id).Int("user_id", req.UserID).Str("status", string(target)).Msg("PWD request reviewed")
	return req, nil
}

func (s *PWDService) ListPending(ctx context.Context) ([]domain.PWDRequest, error) {
	return s.requests.ListPWDRequests(ctx, domain.PWDPending)
}
