package entity

import "time"

// Store representa una tienda. Un usuario puede tener cero o más tiendas;
// exactamente una es la "tienda actual" por sesión.
type Store struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Address     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
