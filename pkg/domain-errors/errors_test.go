package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapAndHasCode(t *testing.T) {
	root := errors.New("connection refused")
	err := Wrap(root, CodeInternal, "failed to load draft")

	assert.True(t, HasCode(err, CodeInternal))
	assert.False(t, HasCode(err, CodeNotFound))
	assert.ErrorIs(t, err, root)
	assert.Equal(t, "internal_error: failed to load draft: connection refused", err.Error())
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestAsThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("handler: %w", New(CodeValidation, "unknown field"))

	de, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, de.Code)
	assert.Equal(t, "unknown field", de.Message)
}
