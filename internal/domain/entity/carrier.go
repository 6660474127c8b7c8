package entity

// Carrier transportadora para envíos (catálogo de solo lectura).
type Carrier struct {
	ID       string
	Name     string
	Code     string
	IsActive bool
}
