package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpolitiadis/fanvise-sub000/internal/apperr"
)

func TestNewsStoreCheckDimensionPinsOnFirstCall(t *testing.T) {
	s := &NewsStore{}
	require.NoError(t, s.checkDimension(768))
	require.NoError(t, s.checkDimension(768))
}

func TestNewsStoreCheckDimensionRejectsMismatch(t *testing.T) {
	s := &NewsStore{}
	require.NoError(t, s.checkDimension(768))

	err := s.checkDimension(384)
	require.Error(t, err)
	var inv *apperr.InvariantViolation
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "embedding_dimension_mismatch", inv.Kind)
}

func TestNewsStoreCheckDimensionRejectsEmptyVector(t *testing.T) {
	s := &NewsStore{}
	assert.Error(t, s.checkDimension(0))
}
