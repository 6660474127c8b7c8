package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fast(attempts int) Policy {
	return Policy{MaxAttempts: attempts, Delay: time.Millisecond}
}

func TestDo_ExitoInmediato(t *testing.T) {
	calls := 0
	err := fast(3).Do(context.Background(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

// Falla dos veces y se recupera en el tercer intento.
func TestDo_RecuperaTrasFallos(t *testing.T) {
	calls := 0
	err := fast(3).Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("temporal")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_AgotaIntentos(t *testing.T) {
	boom := errors.New("permanente")
	calls := 0
	err := fast(3).Do(context.Background(), func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom, "debe devolver el último error")
	assert.Equal(t, 3, calls)
}

// El contexto cancelado corta la espera entre intentos.
func TestDo_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	policy := Policy{MaxAttempts: 5, Delay: time.Hour} // espera enorme: solo sale por ctx
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := policy.Do(ctx, func() error {
		calls++
		return errors.New("temporal")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "no debe reintentar tras la cancelación")
}
