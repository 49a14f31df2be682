package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cse-motors/dealership-system/internal/core/domain"
	"github.com/cse-motors/dealership-system/internal/core/ports"
)

// InventoryService is thin glue over the catalog repository: validate the
// form input, stamp timestamps, persist. No business rules live here.
type InventoryService struct {
	repo      ports.InventoryRepository
	validator *CredentialValidator
	logger    zerolog.Logger
}

func NewInventoryService(repo ports.InventoryRepository, validator *CredentialValidator, logger zerolog.Logger) *InventoryService {
	return &InventoryService{repo: repo, validator: validator, logger: logger}
}

func (s *InventoryService) AddClassification(ctx context.Context, input ports.ClassificationInput) (*domain.Classification, error) {
	if err := s.validator.ValidateStruct(input); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateClassification(ctx, &domain.Classification{Name: input.Name})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("classification", created.Name).Msg("classification added")
	return created, nil
}

func (s *InventoryService) ListClassifications(ctx context.Context) ([]*domain.Classification, error) {
	return s.repo.ListClassifications(ctx)
}

func (s *InventoryService) AddVehicle(ctx context.Context, input ports.VehicleInput) (*domain.Vehicle, error) {
	if err := s.validator.ValidateStruct(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.CreateVehicle(ctx, vehicleFromInput(input, now))
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("vehicle_id", created.ID).Str("make", created.Make).Str("model", created.Model).Msg("vehicle added")
	return created, nil
}

func (s *InventoryService) UpdateVehicle(ctx context.Context, id string, input ports.VehicleInput) (*domain.Vehicle, error) {
	if err := s.validator.ValidateStruct(input); err != nil {
		return nil, err
	}

	vehicle := vehicleFromInput(input, time.Now().UTC())
	vehicle.ID = id
	updated, err := s.repo.UpdateVehicle(ctx, vehicle)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("vehicle_id", id).Msg("vehicle updated")
	return updated, nil
}

func (s *InventoryService) GetVehicle(ctx context.Context, id string) (*domain.Vehicle, error) {
	return s.repo.FindVehicleByID(ctx, id)
}

func (s *InventoryService) ListByClassification(ctx context.Context, classificationID string) ([]*domain.Vehicle, error) {
	return s.repo.ListVehiclesByClassification(ctx, classificationID)
}

// Search matches a keyword against make, model and description. A blank
// keyword returns an empty result rather than the whole catalog.
func (s *InventoryService) Search(ctx context.Context, keyword string) ([]*domain.Vehicle, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []*domain.Vehicle{}, nil
	}
	return s.repo.SearchVehicles(ctx, keyword)
}

func vehicleFromInput(input ports.VehicleInput, now time.Time) *domain.Vehicle {
	return &domain.Vehicle{
		ClassificationID: input.ClassificationID,
		Make:             input.Make,
		Model:            input.Model,
		Year:             input.Year,
		Description:      input.Description,
		Price:            input.Price,
		Miles:            input.Miles,
		Color:            input.Color,
		ImagePath:        input.ImagePath,
		ThumbnailPath:    input.ThumbnailPath,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
