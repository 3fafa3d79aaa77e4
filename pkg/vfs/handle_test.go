package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleBytes(t *testing.T) {
	tests := []struct {
		name   string
		handle Handle
		want   []byte
	}{
		{
			name:   "zero handle",
			handle: Handle(0),
			want:   []byte{0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name:   "small handle",
			handle: Handle(1),
			want:   []byte{0, 0, 0, 0, 0, 0, 0, 1},
		},
		{
			name:   "large handle",
			handle: Handle(0xDEADBEEFCAFE),
			want:   []byte{0, 0, 0xDE, 0xAD, 0xBE, 0xEF, 0xCA, 0xFE},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.handle.Bytes()
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, HandleSize)
		})
	}
}

func TestHandleFromBytes(t *testing.T) {
	t.Run("RoundTrips", func(t *testing.T) {
		original := Handle(42)

		parsed, err := HandleFromBytes(original.Bytes())
		require.NoError(t, err)
		assert.Equal(t, original, parsed)
	})

	t.Run("RejectsShortPayload", func(t *testing.T) {
		_, err := HandleFromBytes([]byte{0, 0, 0, 1})
		assert.ErrorIs(t, err, ErrBadHandle)
	})

	t.Run("RejectsLongPayload", func(t *testing.T) {
		_, err := HandleFromBytes(make([]byte, 12))
		assert.ErrorIs(t, err, ErrBadHandle)
	})

	t.Run("RejectsEmptyPayload", func(t *testing.T) {
		_, err := HandleFromBytes(nil)
		assert.ErrorIs(t, err, ErrBadHandle)
	})
}
