package buildutil

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStop(t *testing.T) {
	messages := []string{
		"nasm is required",
		"",
		"Unknown architecture 'mips'.",
	}

	for _, message := range messages {
		t.Run(fmt.Sprintf("help mode %q", message), func(t *testing.T) {
			assert.NoError(t, Stop(message, true))
		})

		t.Run(fmt.Sprintf("build mode %q", message), func(t *testing.T) {
			err := Stop(message, false)
			require.Error(t, err)
			assert.Equal(t, message, err.Error())

			var stopErr *StopError
			require.ErrorAs(t, err, &stopErr)
			assert.Equal(t, message, stopErr.Message)
		})
	}
}

func TestStopf(t *testing.T) {
	err := Stopf(false, "tool %s not found", "nasm")
	assert.EqualError(t, err, "tool nasm not found")
	assert.NoError(t, Stopf(true, "tool %s not found", "nasm"))
}

func TestIsStop(t *testing.T) {
	err := Stop("boom", false)
	assert.True(t, IsStop(err))
	assert.True(t, IsStop(fmt.Errorf("configure: %w", err)))
	assert.False(t, IsStop(fmt.Errorf("boom")))
	assert.False(t, IsStop(nil))
}
