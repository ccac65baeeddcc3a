package service

import (
	"context"
	"fmt"
	"strings"

	"restobar/events"
	"restobar/order-svc/internal/domain"
)

type ReviewService struct {
	repository ReviewRepository
	cache      ReviewCache
	notifier   Notifier
}

func NewReviewService(repository ReviewRepository, cache ReviewCache, notifier Notifier) *ReviewService {
	return &ReviewService{
		repository: repository,
		cache:      cache,
		notifier:   notifier,
	}
}

func (s *ReviewService) Submit(ctx context.Context, review *domain.Review) error {
	review.Comment = strings.TrimSpace(review.Comment)
	if review.Rating < 1 || review.Rating > 5 {
		return domain.Validationf("rating must be between 1 and 5")
	}
	if review.Comment == "" {
		return domain.Validationf("comment is required")
	}

	valid, err := s.repository.IsOrderReviewable(ctx, review.OrderID, review.UserID)
	if err != nil {
		return fmt.Errorf("failed to validate order: %w", err)
	}
	if !valid {
		return domain.ErrOrderNotReviewable
	}

	cacheKey := s.cache.ReviewMarkerKey(review.OrderID, review.UserID)
	if exists, _ := s.cache.Exists(ctx, cacheKey); exists {
		return domain.ErrDuplicateReview
	}

	existingID, err := s.repository.GetExistingReviewID(ctx, review.OrderID, review.UserID)
	if err != nil {
		return err
	}
	if existingID > 0 {
		_ = s.cache.SetMarker(ctx, cacheKey)
		return domain.ErrDuplicateReview
	}

	if err := s.repository.InsertReview(ctx, review); err != nil {
		return err
	}

	_ = s.cache.SetMarker(ctx, cacheKey)

	s.notifier.Notify(ctx, events.Event{
		Type:    events.TypeReviewCreated,
		Message: fmt.Sprintf("New %d-star review for order #%d.", review.Rating, review.OrderID),
		Data: events.Payload{
			OrderID: review.OrderID,
			UserID:  review.UserID,
			Rating:  review.Rating,
		},
	})

	return nil
}

func (s *ReviewService) ListForUser(ctx context.Context, userID int) ([]domain.Review, error) {
	return s.repository.ListReviewsByUser(ctx, userID)
}

func (s *ReviewService) List(ctx context.Context) ([]domain.ReviewDetail, error) {
	return s.repository.ListReviews(ctx)
}
