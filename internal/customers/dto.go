package customers

import (
	"time"

	"github.com/lucasferraz/ordersys-backend/pkg/db/models"
)

// CustomerDTO is the API-facing customer shape.
type CustomerDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Document  string    `json:"document"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCustomerInput carries the fields accepted on customer creation. The
// document is normalized before persistence.
type CreateCustomerInput struct {
	Name     string `json:"name" validate:"required,min=3,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Document string `json:"document" validate:"required"`
}

// UpdateCustomerInput carries the fields accepted on customer edit. Nil
// fields are left untouched.
type UpdateCustomerInput struct {
	Name     *string `json:"name" validate:"omitempty,min=3,max=120"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Document *string `json:"document"`
}

// ListFilter narrows customer listings. Zero-valued fields are ignored.
type ListFilter struct {
	ID         *int64
	Name       string
	Email      string
	Document   string
	CreatedMin *time.Time
}

// ToDTO maps a persisted customer onto the API shape.
func ToDTO(m models.Customer) CustomerDTO {
	return CustomerDTO{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Document:  m.Document,
		CreatedAt: m.CreatedAt,
	}
}
