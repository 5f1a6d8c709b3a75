package errors

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecover_WithPanic(t *testing.T) {
	render := func() (err error) {
		defer Recover(&err, "render confusion matrix")
		panic("index out of range")
	}

	err := render()

	var panicErr *PanicError
	require.True(t, As(err, &panicErr))
	assert.Equal(t, "render confusion matrix", panicErr.Operation)
	assert.Equal(t, "index out of range", panicErr.PanicValue)
	assert.NotEmpty(t, panicErr.StackTrace)
	assert.Equal(t, "panic in render confusion matrix: index out of range", panicErr.Error())
	assert.True(t, strings.Contains(panicErr.String(), "Stack trace:"))
	assert.Equal(t, ExitFailure, ExitCode(err))
}

func TestRecover_WithoutPanic(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err, "noop")
		return nil
	}
	assert.NoError(t, fn())
}

func TestRecover_KeepsExistingError(t *testing.T) {
	original := NewIOError("write", "artifacts/model.gob", fmt.Errorf("disk full"))

	fn := func() (err error) {
		defer Recover(&err, "persist")
		err = original
		panic("after error")
	}

	err := fn()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic in persist")
	assert.Contains(t, err.Error(), "disk full")
	assert.True(t, Is(err, original))
	assert.Equal(t, ExitIO, ExitCode(err))
}

func TestSafeExecute(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		assert.NoError(t, SafeExecute("op", func() error { return nil }))
	})

	t.Run("returned error passes through", func(t *testing.T) {
		want := fmt.Errorf("function error")
		assert.Equal(t, want, SafeExecute("op", func() error { return want }))
	})

	t.Run("panic with error value unwraps", func(t *testing.T) {
		cause := NewValueError("plot", "empty grid")
		err := SafeExecute("op", func() error { panic(cause) })

		var panicErr *PanicError
		require.True(t, As(err, &panicErr))
		var valueErr *ValueError
		assert.True(t, As(err, &valueErr))
	})

	t.Run("panic with plain value", func(t *testing.T) {
		err := SafeExecute("op", func() error { panic(42) })

		var panicErr *PanicError
		require.True(t, As(err, &panicErr))
		assert.Equal(t, 42, panicErr.PanicValue)
		assert.Nil(t, panicErr.Unwrap())
	})
}

func BenchmarkSafeExecute_NoPanic(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = SafeExecute("bench", func() error { return nil })
	}
}
