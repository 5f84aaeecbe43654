package update_series

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// UpdateSeriesRequest HTTP request model; применяется к будущим детям серии
type UpdateSeriesRequest struct {
	Notes *string          `json:"notes,omitempty"`
	Price *decimal.Decimal `json:"price,omitempty"`
	State *string          `json:"state,omitempty"`
}

// ToDomainPatch конвертирует запрос в изменение серии
func (r *UpdateSeriesRequest) ToDomainPatch() (domain.SeriesPatch, error) {
	patch := domain.SeriesPatch{
		Notes: r.Notes,
		Price: r.Price,
	}
	if r.State != nil {
		state, err := domain.ParseAppointmentState(*r.State)
		if err != nil {
			return patch, fmt.Errorf("state: %w", err)
		}
		patch.State = &state
	}
	return patch, nil
}
