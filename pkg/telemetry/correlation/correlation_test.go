package correlation

import (
	"context"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCorrelationIDKeepsExisting(t *testing.T) {
	ctx := ContextWithCorrelationID(context.Background(), "01HZY7Q4D6N1J5XKQ4M0V6W2TB")

	_, cid := EnsureCorrelationID(ctx)
	assert.Equal(t, "01HZY7Q4D6N1J5XKQ4M0V6W2TB", cid)
}

func TestEnsureCorrelationIDGeneratesULID(t *testing.T) {
	ctx, cid := EnsureCorrelationID(context.Background())

	_, err := ulid.ParseStrict(cid)
	require.NoError(t, err)
	assert.Equal(t, cid, ExtractCorrelationID(ctx))
}

func TestFromHeaderRejectsGarbage(t *testing.T) {
	assert.Empty(t, FromHeader("not-a-ulid"))
	assert.Empty(t, FromHeader("  "))
	assert.Equal(t, "01HZY7Q4D6N1J5XKQ4M0V6W2TB", FromHeader(" 01HZY7Q4D6N1J5XKQ4M0V6W2TB "))
}
