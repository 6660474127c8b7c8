// Package retry centraliza la política de reintentos con backoff lineal
// que antes estaba duplicada en cada punto de llamada al backend.
package retry

import (
	"context"
	"time"
)

// Policy define una política de reintentos: número máximo de intentos y
// retardo base. El retardo crece linealmente: delay * número de intento.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultPolicy 3 intentos con 1s de retardo base.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, Delay: time.Second}
}

// Do ejecuta op hasta que tenga éxito o se agoten los intentos.
// Respeta la cancelación del contexto entre intentos y devuelve el último error.
func (p Policy) Do(ctx context.Context, op func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lastErr = op(); lastErr == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Delay * time.Duration(i+1)):
		}
	}
	return lastErr
}
