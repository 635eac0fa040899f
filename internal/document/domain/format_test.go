package domain

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$412,000", FormatPrice(41200000))
	assert.Equal(t, "$1,250", FormatPrice(125099))
	assert.Equal(t, "Call for pricing", FormatPrice(0))
	assert.Equal(t, "$0", FormatAmount(0))
	assert.Equal(t, "-$12", FormatAmount(-1200))
}

func TestSpecLine(t *testing.T) {
	assert.Equal(t, "4 bd | 2.5 ba | 2,450 sq ft", SpecLine(4, 2.5, 2450))
	assert.Equal(t, "3 bd", SpecLine(3, 0, 0))
	assert.Equal(t, "", SpecLine(0, 0, 0))
}

func TestParseIDs(t *testing.T) {
	ids, err := ParseIDs(" 11, 12,,13 ")
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{11, 12, 13}, ids)

	_, err = ParseIDs("11,abc")
	assert.ErrorIs(t, err, ErrInvalidIDs)
	_, err = ParseIDs(" , ")
	assert.ErrorIs(t, err, ErrInvalidIDs)
	_, err = ParseIDs("-4")
	assert.ErrorIs(t, err, ErrInvalidIDs)
}
