package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// CreateClientRequest новый клиент
type CreateClientRequest struct {
	Name  string  `json:"name"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}

// ClientResponse клиент арендатора
type ClientResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ClientListResponse страница клиентов
type ClientListResponse struct {
	Clients []*ClientResponse `json:"clients"`
	Total   int               `json:"total"`
}

// FromDomainClient конвертирует клиента в response
func FromDomainClient(c *domain.Client) *ClientResponse {
	return &ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
	}
}
