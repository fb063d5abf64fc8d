package services

import (
	"context"
	"errors"

	apperrors "dwight/internal/errors"
	"dwight/internal/models"
	"dwight/internal/repository"
	"dwight/internal/schemas"
)

// holdingService handles holding-related business logic.
type holdingService struct {
	repo repository.HoldingRepository
}

// NewHoldingService creates a new HoldingServicer.
func NewHoldingService(repo repository.HoldingRepository) HoldingServicer {
	return &holdingService{repo: repo}
}

// ListHoldings returns the owner's holdings in creation order and the total
// count before paging.
func (s *holdingService) ListHoldings(ctx context.Context, ownerID string, filter HoldingFilter) ([]models.Holding, int64, error) {
	opts := repository.ListOptions{Category: filter.Category}
	if filter.Page.IsSet() {
		page := filter.Page
		page.Defaults()
		opts.Page = &page
	}

	holdings, total, err := s.repo.List(ctx, ownerID, opts)
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return holdings, total, nil
}

// GetHolding retrieves one of the owner's holdings.
func (s *holdingService) GetHolding(ctx context.Context, ownerID string, id uint) (*models.Holding, error) {
	holding, err := s.repo.Get(ctx, id, ownerID)
	if err != nil {
		return nil, mapRepoError(err, apperrors.ErrHoldingNotFound)
	}
	return holding, nil
}

// CreateHolding validates the payload and stores it under ownerID.
func (s *holdingService) CreateHolding(ctx context.Context, ownerID string, in schemas.HoldingCreate) (*models.Holding, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	holding, err := s.repo.Create(ctx, ownerID, in.ToModel())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return holding, nil
}

// UpdateHolding validates the patch and applies only the fields it carries.
func (s *holdingService) UpdateHolding(ctx context.Context, ownerID string, id uint, in schemas.HoldingUpdate) (*models.Holding, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	holding, err := s.repo.Update(ctx, id, ownerID, in.Apply)
	if err != nil {
		return nil, mapRepoError(err, apperrors.ErrHoldingNotFoundOrUnauthorized)
	}
	return holding, nil
}

// DeleteHolding permanently removes one of the owner's holdings.
func (s *holdingService) DeleteHolding(ctx context.Context, ownerID string, id uint) error {
	deleted, err := s.repo.Delete(ctx, id, ownerID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !deleted {
		return apperrors.ErrHoldingNotFoundOrUnauthorized
	}
	return nil
}

func mapRepoError(err error, notFound *apperrors.AppError) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
