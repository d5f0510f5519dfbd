package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	for k := Kind(0); k < maxKind; k++ {
		require.NotEmpty(t, k.String(), "kind %d missing a string representation", k)
	}
}

func TestKindGoString(t *testing.T) {
	require.Equal(t, "';'", SEMICOLON.GoString())
	require.Equal(t, "end of file", EOF.GoString())
	require.Equal(t, "print", PRINT.GoString())
}

func TestKeywords(t *testing.T) {
	for word, k := range Keywords {
		require.Equal(t, word, kindNames[k])
	}
	require.Len(t, Keywords, 16)
}
