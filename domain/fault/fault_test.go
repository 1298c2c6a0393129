package fault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	for _, sentinel := range []error{
		task.ErrValidation,
		task.ErrNotFound,
		user.ErrInvalidUsername,
		user.ErrUnauthenticated,
		user.ErrInvalidToken,
	} {
		t.Run(sentinel.Error(), func(t *testing.T) {
			wrapped := fmt.Errorf("%w: detail", sentinel)

			f, ok := From(wrapped)
			require.True(t, ok)
			assert.ErrorIs(t, f.Err(), sentinel)
		})
	}
}

func TestFrom_NonDomainError(t *testing.T) {
	_, ok := From(errors.New("disk full"))
	assert.False(t, ok)

	_, ok = From(nil)
	assert.False(t, ok)
}

func TestErr_Empty(t *testing.T) {
	assert.NoError(t, Fault{}.Err())
}

func TestErr_UnknownCode(t *testing.T) {
	err := Fault{Code: "boom", Message: "bad"}.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestErr_KeepsSingleSentinelText(t *testing.T) {
	f, ok := From(fmt.Errorf("%w: title is required", task.ErrValidation))
	require.True(t, ok)
	assert.Equal(t, "validation failed: title is required", f.Err().Error())
}
