// Package barcode genera códigos de barras únicos para productos y los
// renderiza como imagen Code 128.
package barcode

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"image/png"
	"math/big"

	bc "github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
)

// Prefix prefijo de los códigos generados por la aplicación.
const Prefix = "NETREF"

const maxAttempts = 10

// UniquenessChecker verifica si un código ya existe (lo implementa el
// repositorio de productos).
type UniquenessChecker interface {
	BarcodeExists(barcode string) (bool, error)
}

// Random devuelve un código candidato PREFIX + 4 dígitos (1000-9999).
func Random() string {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		// math/big sobre crypto/rand solo falla si el reader falla; caer a 1000
		return Prefix + "1000"
	}
	return fmt.Sprintf("%s%d", Prefix, 1000+n.Int64())
}

// GenerateUnique genera un código que no existe aún, con un máximo de
// intentos contra el verificador de unicidad.
func GenerateUnique(checker UniquenessChecker) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		candidate := Random()
		exists, err := checker.BarcodeExists(candidate)
		if err != nil {
			return "", fmt.Errorf("verificar código: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no se pudo generar un código único después de %d intentos", maxAttempts)
}

// RenderPNG renderiza el código como imagen PNG Code 128 escalada a width x height.
func RenderPNG(value string, width, height int) ([]byte, error) {
	encoded, err := code128.Encode(value)
	if err != nil {
		return nil, fmt.Errorf("codificar code128: %w", err)
	}
	scaled, err := bc.Scale(encoded, width, height)
	if err != nil {
		return nil, fmt.Errorf("escalar código: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("codificar png: %w", err)
	}
	return buf.Bytes(), nil
}
