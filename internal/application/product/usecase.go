// Package product maneja el CRUD de productos, la generación de códigos de
// barras y la importación masiva. El stock nunca se edita aquí: solo cambia
// vía movimientos de inventario.
package product

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/netxel/inventario-api/internal/application/dto"
	"github.com/netxel/inventario-api/internal/domain"
	"github.com/netxel/inventario-api/internal/domain/entity"
	"github.com/netxel/inventario-api/internal/domain/repository"
	pkgbarcode "github.com/netxel/inventario-api/pkg/barcode"
	"github.com/netxel/inventario-api/pkg/retry"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Tope de productos traídos para búsqueda por nombre; la búsqueda normalizada
// se hace en memoria sobre el catálogo de la tienda.
const searchFetchLimit = 500

// UseCase casos de uso CRUD para productos de una tienda.
type UseCase struct {
	repo      repository.ProductRepository
	storeRepo repository.StoreRepository
	retry     retry.Policy
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.ProductRepository, storeRepo repository.StoreRepository, policy retry.Policy) *UseCase {
	return &UseCase{repo: repo, storeRepo: storeRepo, retry: policy}
}

func (uc *UseCase) ensureOwned(storeID, userID string) error {
	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil {
		return err
	}
	if store == nil {
		return domain.ErrNotFound
	}
	if store.UserID != userID {
		return domain.ErrForbidden
	}
	return nil
}

// Create crea un producto. Si no trae código de barras se genera uno único
// (NETREF####); si trae uno, se verifica que no exista.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*entity.Product, error) {
	if strings.TrimSpace(in.Name) == "" || in.StoreID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.IsValidCategory(in.Category) {
		return nil, domain.ErrInvalidInput
	}
	if in.Stock < 0 || in.UnitCost.IsNegative() || in.SalePrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.ensureOwned(in.StoreID, userID); err != nil {
		return nil, err
	}

	code := strings.TrimSpace(in.Barcode)
	if code == "" {
		generated, err := pkgbarcode.GenerateUnique(uc.repo)
		if err != nil {
			return nil, err
		}
		code = generated
	} else {
		exists, err := uc.repo.BarcodeExists(code)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicate
		}
	}

	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		StoreID:   in.StoreID,
		Name:      in.Name,
		Category:  in.Category,
		UnitCost:  in.UnitCost,
		SalePrice: in.SalePrice,
		Stock:     in.Stock,
		ImageURL:  in.ImageURL,
		Barcode:   code,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Get obtiene un producto verificando propiedad de su tienda.
func (uc *UseCase) Get(userID, productID string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.ensureOwned(product.StoreID, userID); err != nil {
		return nil, err
	}
	return product, nil
}

// GetByBarcode busca un producto por código de barras (ruta del escáner).
func (uc *UseCase) GetByBarcode(userID, code string) (*entity.Product, error) {
	if strings.TrimSpace(code) == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.repo.GetByBarcode(code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.ensureOwned(product.StoreID, userID); err != nil {
		return nil, err
	}
	return product, nil
}

// Update actualiza nombre/categoría/precios/imagen. El stock y el código de
// barras no se tocan por esta vía.
func (uc *UseCase) Update(userID, productID string, in dto.UpdateProductRequest) (*entity.Product, error) {
	product, err := uc.Get(userID, productID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = *in.Name
	}
	if in.Category != nil {
		if !entity.IsValidCategory(*in.Category) {
			return nil, domain.ErrInvalidInput
		}
		product.Category = *in.Category
	}
	if in.UnitCost != nil {
		if in.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.UnitCost = *in.UnitCost
	}
	if in.SalePrice != nil {
		if in.SalePrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.SalePrice = *in.SalePrice
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete elimina un producto (borrado duro). Sus movimientos quedan en el libro
// y los listados muestran el nombre centinela.
func (uc *UseCase) Delete(userID, productID string) error {
	if _, err := uc.Get(userID, productID); err != nil {
		return err
	}
	return uc.repo.Delete(productID)
}

// List lista los productos de una tienda (created_at DESC), con reintentos.
func (uc *UseCase) List(ctx context.Context, userID, storeID string, limit, offset int) ([]*entity.Product, error) {
	if err := uc.ensureOwned(storeID, userID); err != nil {
		return nil, err
	}
	var products []*entity.Product
	err := uc.retry.Do(ctx, func() error {
		var err error
		products, err = uc.repo.ListByStore(storeID, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Search filtra los productos de la tienda por nombre, insensible a mayúsculas
// y acentos ("electronica" encuentra "Electrónica").
func (uc *UseCase) Search(ctx context.Context, userID, storeID, query string) ([]*entity.Product, error) {
	products, err := uc.List(ctx, userID, storeID, searchFetchLimit, 0)
	if err != nil {
		return nil, err
	}
	needle := normalize(query)
	if needle == "" {
		return products, nil
	}
	matched := make([]*entity.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(normalize(p.Name), needle) || strings.Contains(normalize(p.Category), needle) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// BulkImport crea productos a partir de filas ya parseadas (importación desde
// hoja de cálculo). Las filas son independientes: se reporta resultado por fila.
func (uc *UseCase) BulkImport(ctx context.Context, userID string, lines []dto.CreateProductRequest) []BulkLine {
	results := make([]BulkLine, 0, len(lines))
	for i, line := range lines {
		product, err := uc.Create(ctx, userID, line)
		results = append(results, BulkLine{Index: i, Product: product, Err: err})
	}
	return results
}

// BulkLine resultado de una fila de importación masiva.
type BulkLine struct {
	Index   int
	Product *entity.Product
	Err     error
}

// normalize pasa a minúsculas y elimina diacríticos (NFD + remover marcas).
func normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return strings.ToLower(strings.TrimSpace(out))
}
