package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías válidas para Product.
var Categories = []string{
	"Electronica",
	"Moda",
	"Comida",
	"Libros",
	"Hogar",
	"Deporte",
	"Otra",
}

// IsValidCategory indica si la categoría pertenece a la lista fija.
func IsValidCategory(c string) bool {
	for _, cat := range Categories {
		if cat == c {
			return true
		}
	}
	return false
}

// Product representa un producto del inventario de una tienda.
// Stock solo se modifica vía movimientos de inventario (nunca por edición directa).
type Product struct {
	ID        string
	StoreID   string
	Name      string
	Category  string
	UnitCost  decimal.Decimal // costo unitario
	SalePrice decimal.Decimal // precio de venta
	Stock     int64           // invariante: >= 0 después de cada movimiento confirmado
	ImageURL  string
	Barcode   string // único global (formato NETREF#### si es generado)
	CreatedAt time.Time
	UpdatedAt time.Time
}
