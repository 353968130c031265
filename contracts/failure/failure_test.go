package failure

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAssignsStatusByKind(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, New(KindNotFound, "X_NOT_FOUND", "x").Status)
	assert.Equal(t, http.StatusBadRequest, New(KindInvalidInput, "X_INVALID", "x").Status)
	assert.Equal(t, http.StatusConflict, New(KindStateConflict, "X_CONFLICT", "x").Status)
	assert.Equal(t, http.StatusBadRequest, New(KindLimitExceeded, "X_LIMIT", "x").Status)
	assert.Equal(t, http.StatusTooManyRequests, Temporal("X_DAILY", "x").Status)
}

func TestWrappedFailureKeepsIdentity(t *testing.T) {
	sentinel := New(KindNotFound, "DRAFT_NOT_FOUND", "draft not found")
	wrapped := fmt.Errorf("load draft: %w", sentinel)

	require.ErrorIs(t, wrapped, sentinel)
	var typed *Error
	require.ErrorAs(t, wrapped, &typed)
	assert.Equal(t, "DRAFT_NOT_FOUND", typed.Code)
	assert.False(t, errors.Is(wrapped, New(KindNotFound, "DRAFT_NOT_FOUND", "draft not found")))
}
