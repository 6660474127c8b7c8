package dto

import "time"

// CreateStoreRequest entrada para crear una tienda.
type CreateStoreRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
	Address     string `json:"address" validate:"max=200"`
}

// UpdateStoreRequest entrada para actualizar una tienda.
type UpdateStoreRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Address     *string `json:"address" validate:"omitempty,max=200"`
}

// StoreResponse salida de una tienda.
type StoreResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CurrentStoreResponse tienda actual de la sesión; Selected=false si no hay
// ninguna seleccionada (el cliente debe mostrar el selector).
type CurrentStoreResponse struct {
	Selected bool           `json:"selected"`
	Store    *StoreResponse `json:"store,omitempty"`
}
