package ports

import (
	"context"

	"github.com/cse-motors/dealership-system/internal/core/domain"
)

// VehicleInput carries the fields for adding or updating a vehicle.
type VehicleInput struct {
	ClassificationID string  `validate:"required"`
	Make             string  `validate:"required"`
	Model            string  `validate:"required"`
	Year             int     `validate:"required,gte=1900,lte=2100"`
	Description      string  `validate:"required"`
	Price            float64 `validate:"required,gt=0"`
	Miles            int     `validate:"gte=0"`
	Color            string  `validate:"required"`
	ImagePath        string
	ThumbnailPath    string
}

// ClassificationInput carries the fields for adding a classification.
type ClassificationInput struct {
	Name string `validate:"required,alphanum,min=2"`
}

// InventoryRepository defines persistence operations for the vehicle catalog.
type InventoryRepository interface {
	CreateClassification(ctx context.Context, c *domain.Classification) (*domain.Classification, error)
	ListClassifications(ctx context.Context) ([]*domain.Classification, error)

	CreateVehicle(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error)
	FindVehicleByID(ctx context.Context, id string) (*domain.Vehicle, error)
	ListVehiclesByClassification(ctx context.Context, classificationID string) ([]*domain.Vehicle, error)

	// SearchVehicles matches the keyword against make, model and description.
	SearchVehicles(ctx context.Context, keyword string) ([]*domain.Vehicle, error)
}

// InventoryService defines the catalog use-cases exposed to the route layer.
type InventoryService interface {
	AddClassification(ctx context.Context, input ClassificationInput) (*domain.Classification, error)
	ListClassifications(ctx context.Context) ([]*domain.Classification, error)

	AddVehicle(ctx context.Context, input VehicleInput) (*domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, id string, input VehicleInput) (*domain.Vehicle, error)
	GetVehicle(ctx context.Context, id string) (*domain.Vehicle, error)
	ListByClassification(ctx context.Context, classificationID string) ([]*domain.Vehicle, error)
	Search(ctx context.Context, keyword string) ([]*domain.Vehicle, error)
}
