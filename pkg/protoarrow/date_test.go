package protoarrow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCivilToDays(t *testing.T) {
	cases := []struct {
		year, month, day int32
		want             int32
	}{
		{1970, 1, 1, 0},
		{1969, 12, 31, -1},
		{1970, 1, 2, 1},
		{2000, 3, 1, 11017},
		{9999, 12, 31, 2932896},
	}
	for _, c := range cases {
		got := civilToDays(c.year, c.month, c.day)
		assert.Equalf(t, c.want, got, "civilToDays(%d, %d, %d)", c.year, c.month, c.day)
	}
}

func TestIsValidCivilDate(t *testing.T) {
	assert.True(t, isValidCivilDate(2024, 2, 29)) // leap year
	assert.False(t, isValidCivilDate(2023, 2, 29))
	assert.False(t, isValidCivilDate(2023, 4, 31))
	assert.False(t, isValidCivilDate(2023, 13, 1))
	assert.False(t, isValidCivilDate(2023, 0, 1))
	assert.False(t, isValidCivilDate(2023, 1, 0))
	assert.True(t, isValidCivilDate(0, 1, 1))
}
