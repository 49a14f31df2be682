package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cse-motors/dealership-system/internal/api/flash"
	"github.com/cse-motors/dealership-system/internal/api/metrics"
	"github.com/cse-motors/dealership-system/internal/core/domain"
	"github.com/cse-motors/dealership-system/internal/core/ports"
)

// InventoryHandler exposes the vehicle catalog: public browse and search,
// plus the staff-only management routes (guarded by RequireRole upstream).
type InventoryHandler struct {
	inventory ports.InventoryService
	notices   ports.NoticeStore
}

func NewInventoryHandler(inventory ports.InventoryService, notices ports.NoticeStore) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, notices: notices}
}

// ListClassifications returns all classifications.
//
// @Summary      List classifications
// @Tags         inventory
// @Produce      json
// @Success      200  {object}  classificationListResponse
// @Router       /inv/classifications [get]
func (h *InventoryHandler) ListClassifications(c echo.Context) error {
	classifications, err := h.inventory.ListClassifications(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, classificationListResponse{Classifications: classifications})
}

// ListByClassification returns the vehicles in one classification.
//
// @Summary      Browse vehicles by classification
// @Tags         inventory
// @Produce      json
// @Param        classification_id  path  string  true  "Classification ID"
// @Success      200  {object}  vehicleListResponse
// @Router       /inv/classification/{classification_id} [get]
func (h *InventoryHandler) ListByClassification(c echo.Context) error {
	vehicles, err := h.inventory.ListByClassification(c.Request().Context(), c.Param("classification_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vehicleListResponse{Vehicles: vehicles})
}

// VehicleDetail returns a single vehicle.
//
// @Summary      Vehicle detail
// @Tags         inventory
// @Produce      json
// @Param        vehicle_id  path  string  true  "Vehicle ID"
// @Success      200  {object}  domain.Vehicle
// @Failure      404  {object}  errorResponse
// @Router       /inv/vehicle/{vehicle_id} [get]
func (h *InventoryHandler) VehicleDetail(c echo.Context) error {
	vehicle, err := h.inventory.GetVehicle(c.Request().Context(), c.Param("vehicle_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vehicle)
}

// Search matches a keyword against make, model and description.
//
// @Summary      Search vehicles
// @Tags         inventory
// @Produce      json
// @Param        q  query  string  true  "Keyword"
// @Success      200  {object}  searchResponse
// @Router       /search [get]
func (h *InventoryHandler) Search(c echo.Context) error {
	keyword := c.QueryParam("q")
	metrics.VehicleSearchesTotal.Inc()

	vehicles, err := h.inventory.Search(c.Request().Context(), keyword)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, searchResponse{Keyword: keyword, Vehicles: vehicles})
}

// AddClassification creates a classification. Staff only.
//
// @Summary      Add a classification
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body      addClassificationRequest  true  "Classification"
// @Success      201   {object}  domain.Classification
// @Failure      400   {object}  fieldErrorsResponse
// @Failure      403   {object}  errorResponse
// @Router       /inv/classifications [post]
func (h *InventoryHandler) AddClassification(c echo.Context) error {
	var req addClassificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	created, err := h.inventory.AddClassification(c.Request().Context(), ports.ClassificationInput{Name: req.Name})
	if err != nil {
		var fields domain.FieldErrors
		if errors.As(err, &fields) {
			return c.JSON(http.StatusBadRequest, fieldErrorsResponse{
				Errors: fields,
				Fields: map[string]string{"classification_name": req.Name},
			})
		}
		return err
	}

	_ = flash.Push(c, h.notices, "success", "Classification added.")
	return c.JSON(http.StatusCreated, created)
}

// AddVehicle creates a vehicle. Staff only.
//
// @Summary      Add a vehicle
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body      vehicleRequest  true  "Vehicle"
// @Success      201   {object}  domain.Vehicle
// @Failure      400   {object}  fieldErrorsResponse
// @Failure      403   {object}  errorResponse
// @Router       /inv/vehicles [post]
func (h *InventoryHandler) AddVehicle(c echo.Context) error {
	var req vehicleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	created, err := h.inventory.AddVehicle(c.Request().Context(), req.toInput())
	if err != nil {
		var fields domain.FieldErrors
		if errors.As(err, &fields) {
			return c.JSON(http.StatusBadRequest, fieldErrorsResponse{Errors: fields})
		}
		return err
	}

	_ = flash.Push(c, h.notices, "success", "Vehicle added to inventory.")
	return c.JSON(http.StatusCreated, created)
}

// UpdateVehicle replaces a vehicle's fields. Staff only.
//
// @Summary      Update a vehicle
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        vehicle_id  path  string          true  "Vehicle ID"
// @Param        body        body  vehicleRequest  true  "Vehicle"
// @Success      200   {object}  domain.Vehicle
// @Failure      400   {object}  fieldErrorsResponse
// @Failure      404   {object}  errorResponse
// @Router       /inv/vehicles/{vehicle_id} [put]
func (h *InventoryHandler) UpdateVehicle(c echo.Context) error {
	var req vehicleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.inventory.UpdateVehicle(c.Request().Context(), c.Param("vehicle_id"), req.toInput())
	if err != nil {
		var fields domain.FieldErrors
		if errors.As(err, &fields) {
			return c.JSON(http.StatusBadRequest, fieldErrorsResponse{Errors: fields})
		}
		return err
	}

	return c.JSON(http.StatusOK, updated)
}
