package domain

import (
	"errors"
	"time"
)

var (
	ErrClassificationNotFound  = errors.New("classification not found")
	ErrDuplicateClassification = errors.New("classification already exists")
	ErrVehicleNotFound         = errors.New("vehicle not found")
)

// Classification groups vehicles for navigation and browsing (e.g. "SUV",
// "Sedan", "Truck").
type Classification struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Vehicle is a single inventory item offered by the dealership.
type Vehicle struct {
	ID               string    `json:"id"`
	ClassificationID string    `json:"classification_id"`
	Make             string    `json:"make"`
	Model            string    `json:"model"`
	Year             int       `json:"year"`
	Description      string    `json:"description"`
	Price            float64   `json:"price"`
	Miles            int       `json:"miles"`
	Color            string    `json:"color"`
	ImagePath        string    `json:"image_path,omitempty"`
	ThumbnailPath    string    `json:"thumbnail_path,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
