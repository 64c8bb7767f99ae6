package patientid

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	tests := []struct {
		last string
		want string
	}{
		{last: "", want: "PAT001"},
		{last: "PAT001", want: "PAT002"},
		{last: "PAT009", want: "PAT010"},
		{last: "PAT041", want: "PAT042"},
		{last: "PAT099", want: "PAT100"},
		{last: "PAT999", want: "PAT1000"},
		{last: "PAT1000", want: "PAT1001"},
	}

	for _, tt := range tests {
		t.Run(tt.last, func(t *testing.T) {
			got, err := Next(tt.last)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNext_Malformed(t *testing.T) {
	for _, last := range []string{"PAT", "PAT1", "PAT01", "pat001", "PAT00A", "ABC001", "PAT-01"} {
		t.Run(last, func(t *testing.T) {
			_, err := Next(last)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestNext_LargestSequenceHasNoSuccessor(t *testing.T) {
	last := Prefix + strconv.Itoa(math.MaxInt)
	require.True(t, Valid(last))

	got, err := Next(last)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Empty(t, got)
}

func TestNextAfter(t *testing.T) {
	got, err := NextAfter(0)
	require.NoError(t, err)
	assert.Equal(t, First, got)

	got, err = NextAfter(999)
	require.NoError(t, err)
	assert.Equal(t, "PAT1000", got)

	_, err = NextAfter(math.MaxInt)
	assert.ErrorIs(t, err, ErrMalformed)
	_, err = NextAfter(-1)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("PAT001"))
	assert.True(t, Valid("PAT1234"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("PAT12"))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "PAT007", Format(7))
	assert.Equal(t, "PAT012", Format(12))
	assert.Equal(t, "PAT1000", Format(1000))
}
