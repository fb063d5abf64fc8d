package schemas

import (
	"time"

	apperrors "dwight/internal/errors"
	"dwight/internal/models"
	"dwight/internal/validator"
)

// HoldingCreate is the payload for recording a new holding.
type HoldingCreate struct {
	Symbol      string               `json:"symbol" binding:"required,min=1,max=10" example:"AAPL"`
	DisplayName *string              `json:"display_name" binding:"omitempty,max=100" example:"Apple Inc."`
	Quantity    float64              `json:"quantity" binding:"required,gt=0" example:"10"`
	UnitCost    float64              `json:"unit_cost" binding:"required,gt=0" example:"150.00"`
	AcquiredAt  *time.Time           `json:"acquired_at"`
	Category    models.AssetCategory `json:"category" binding:"omitempty,asset_category" example:"stock"`
	Notes       *string              `json:"notes" binding:"omitempty,max=255"`
}

// Validate checks field constraints.
func (h *HoldingCreate) Validate() error {
	return validator.Struct(h)
}

// ToModel builds an unsaved holding. Server-managed fields stay zero so the
// repository can fill them in.
func (h *HoldingCreate) ToModel() *models.Holding {
	holding := &models.Holding{
		Symbol:      h.Symbol,
		DisplayName: h.DisplayName,
		Quantity:    h.Quantity,
		UnitCost:    h.UnitCost,
		Category:    h.Category,
		Notes:       h.Notes,
	}
	if h.AcquiredAt != nil {
		holding.AcquiredAt = *h.AcquiredAt
	}
	return holding
}

// HoldingUpdate is a sparse patch. Only fields present in the payload are
// validated and applied.
type HoldingUpdate struct {
	Symbol      Optional[string]               `json:"symbol" binding:"omitempty,min=1,max=10" swaggertype:"string"`
	DisplayName Optional[string]               `json:"display_name" binding:"omitempty,max=100" swaggertype:"string"`
	Quantity    Optional[float64]              `json:"quantity" binding:"omitempty,gt=0" swaggertype:"number"`
	UnitCost    Optional[float64]              `json:"unit_cost" binding:"omitempty,gt=0" swaggertype:"number"`
	AcquiredAt  Optional[time.Time]            `json:"acquired_at" swaggertype:"string" format:"date-time"`
	Category    Optional[models.AssetCategory] `json:"category" binding:"omitempty,asset_category" swaggertype:"string"`
	Notes       Optional[string]               `json:"notes" binding:"omitempty,max=255" swaggertype:"string"`
}

// Validate checks field constraints and rejects explicit nulls on fields
// that cannot be cleared.
func (h *HoldingUpdate) Validate() error {
	var details []apperrors.FieldError
	for name, null := range map[string]bool{
		"symbol":      h.Symbol.Null,
		"quantity":    h.Quantity.Null,
		"unit_cost":   h.UnitCost.Null,
		"acquired_at": h.AcquiredAt.Null,
		"category":    h.Category.Null,
	} {
		if null {
			details = append(details, apperrors.FieldError{Field: name, Message: "may not be null"})
		}
	}
	if len(details) > 0 {
		sortFieldErrors(details)
		return apperrors.WithDetails(apperrors.ErrValidation, details)
	}
	return validator.Struct(h)
}

// IsEmpty reports whether the patch carries no fields at all.
func (h *HoldingUpdate) IsEmpty() bool {
	return !h.Symbol.Set && !h.DisplayName.Set && !h.Quantity.Set && !h.UnitCost.Set &&
		!h.AcquiredAt.Set && !h.Category.Set && !h.Notes.Set
}

// Changes lists the fields present in the patch with their new values. An
// explicit null is recorded as nil.
func (h *HoldingUpdate) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	recordChange(changes, "symbol", h.Symbol)
	recordChange(changes, "display_name", h.DisplayName)
	recordChange(changes, "quantity", h.Quantity)
	recordChange(changes, "unit_cost", h.UnitCost)
	recordChange(changes, "acquired_at", h.AcquiredAt)
	recordChange(changes, "category", h.Category)
	recordChange(changes, "notes", h.Notes)
	return changes
}

func recordChange[T any](changes map[string]interface{}, field string, o Optional[T]) {
	switch {
	case !o.Set:
	case o.Null:
		changes[field] = nil
	default:
		changes[field] = o.Value
	}
}

// Apply merges the present fields into holding. An explicit null clears
// display_name and notes.
func (h *HoldingUpdate) Apply(holding *models.Holding) {
	if h.Symbol.HasValue() {
		holding.Symbol = h.Symbol.Value
	}
	if h.DisplayName.Set {
		holding.DisplayName = h.DisplayName.Ptr()
	}
	if h.Quantity.HasValue() {
		holding.Quantity = h.Quantity.Value
	}
	if h.UnitCost.HasValue() {
		holding.UnitCost = h.UnitCost.Value
	}
	if h.AcquiredAt.HasValue() {
		holding.AcquiredAt = h.AcquiredAt.Value
	}
	if h.Category.HasValue() {
		holding.Category = h.Category.Value
	}
	if h.Notes.Set {
		holding.Notes = h.Notes.Ptr()
	}
}

// HoldingRead is the response shape for a stored holding.
type HoldingRead struct {
	ID          uint                 `json:"id" example:"1"`
	OwnerID     string               `json:"owner_id" example:"0190c4d2-6f1e-7c3a-9b1d-2f4e5a6b7c8d"`
	Symbol      string               `json:"symbol" example:"AAPL"`
	DisplayName *string              `json:"display_name"`
	Quantity    float64              `json:"quantity" example:"10"`
	UnitCost    float64              `json:"unit_cost" example:"150.00"`
	AcquiredAt  time.Time            `json:"acquired_at"`
	Category    models.AssetCategory `json:"category" example:"stock"`
	Notes       *string              `json:"notes"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// NewHoldingRead converts a stored holding.
func NewHoldingRead(h *models.Holding) HoldingRead {
	return HoldingRead{
		ID:          h.ID,
		OwnerID:     h.OwnerID,
		Symbol:      h.Symbol,
		DisplayName: h.DisplayName,
		Quantity:    h.Quantity,
		UnitCost:    h.UnitCost,
		AcquiredAt:  h.AcquiredAt,
		Category:    h.Category,
		Notes:       h.Notes,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
	}
}

// NewHoldingReads converts a list, never returning nil.
func NewHoldingReads(holdings []models.Holding) []HoldingRead {
	out := make([]HoldingRead, 0, len(holdings))
	for i := range holdings {
		out = append(out, NewHoldingRead(&holdings[i]))
	}
	return out
}
