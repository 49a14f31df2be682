package handler

import (
	"github.com/cse-motors/dealership-system/internal/core/domain"
	"github.com/cse-motors/dealership-system/internal/core/ports"
)

type addClassificationRequest struct {
	Name string `json:"name" form:"classification_name"`
}

type vehicleRequest struct {
	ClassificationID string  `json:"classification_id" form:"classification_id"`
	Make             string  `json:"make"              form:"inv_make"`
	Model            string  `json:"model"             form:"inv_model"`
	Year             int     `json:"year"              form:"inv_year"`
	Description      string  `json:"description"       form:"inv_description"`
	Price            float64 `json:"price"             form:"inv_price"`
	Miles            int     `json:"miles"             form:"inv_miles"`
	Color            string  `json:"color"             form:"inv_color"`
	ImagePath        string  `json:"image_path"        form:"inv_image"`
	ThumbnailPath    string  `json:"thumbnail_path"    form:"inv_thumbnail"`
}

func (r vehicleRequest) toInput() ports.VehicleInput {
	return ports.VehicleInput{
		ClassificationID: r.ClassificationID,
		Make:             r.Make,
		Model:            r.Model,
		Year:             r.Year,
		Description:      r.Description,
		Price:            r.Price,
		Miles:            r.Miles,
		Color:            r.Color,
		ImagePath:        r.ImagePath,
		ThumbnailPath:    r.ThumbnailPath,
	}
}

type classificationListResponse struct {
	Classifications []*domain.Classification `json:"classifications"`
}

type vehicleListResponse struct {
	Vehicles []*domain.Vehicle `json:"vehicles"`
}

type searchResponse struct {
	Keyword  string            `json:"keyword"`
	Vehicles []*domain.Vehicle `json:"vehicles"`
}
