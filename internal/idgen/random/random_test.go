package random

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_GetID(t *testing.T) {
	g := New("bk_")

	a, err := g.GetID(context.Background())
	require.NoError(t, err)

	b, err := g.GetID(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "bk_"))

	_, err = uuid.Parse(strings.TrimPrefix(a, "bk_"))
	assert.NoError(t, err)
}
