package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(attempts int) Policy {
	return Policy{Name: "test", Attempts: attempts, Base: time.Millisecond, Max: 2 * time.Millisecond}
}

func TestDo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		failures  int
		err       error
		attempts  int
		wantCalls int
		wantErr   bool
	}{
		{"first try", 0, nil, 3, 1, false},
		{"recovers", 2, Temporary(errors.New("busy")), 3, 3, false},
		{"exhausted", 5, Temporary(errors.New("busy")), 3, 3, true},
		{"permanent", 5, errors.New("syntax error"), 3, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			calls := 0
			err := Do(context.Background(), fastPolicy(tt.attempts), func(context.Context) error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValue_ReturnsResult(t *testing.T) {
	t.Parallel()

	calls := 0
	v, err := Value(context.Background(), fastPolicy(3), func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", Temporary(errors.New("refused"))
		}
		return "pool", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "pool", v)
	assert.Equal(t, 2, calls)
}

func TestValue_StopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	p := Policy{Attempts: 10, Base: time.Hour, Max: time.Hour}
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := Value(ctx, p, func(context.Context) (int, error) {
		calls++
		return 0, Temporary(errors.New("down"))
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestPolicy_CustomRetryable(t *testing.T) {
	t.Parallel()

	p := fastPolicy(4)
	p.Retryable = func(error) bool { return true }
	calls := 0
	_ = Do(context.Background(), p, func(context.Context) error {
		calls++
		return errors.New("anything")
	})
	assert.Equal(t, 4, calls)
}

func TestPolicy_Delay(t *testing.T) {
	t.Parallel()

	p := Policy{Base: 100 * time.Millisecond, Max: time.Second}.withDefaults()
	assert.Equal(t, 100*time.Millisecond, p.delay(1))
	assert.Equal(t, 200*time.Millisecond, p.delay(2))
	assert.Equal(t, 800*time.Millisecond, p.delay(4))
	assert.Equal(t, time.Second, p.delay(10))

	p.Jitter = 0.5
	for range 50 {
		d := p.delay(2)
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		assert.LessOrEqual(t, d, 300*time.Millisecond)
	}
}

func TestIsTransient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("duplicate key"), false},
		{"marked", fmt.Errorf("wrap: %w", Temporary(errors.New("x"))), true},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), false},
		{"connection exception", &pgconn.PgError{Code: "08006"}, true},
		{"too many connections", &pgconn.PgError{Code: "53300"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"refused", fmt.Errorf("dial: %w", syscall.ECONNREFUSED), true},
		{"dial op", &net.OpError{Op: "dial", Err: errors.New("no route")}, true},
		{"message", errors.New("read tcp: i/o timeout"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}
