package vm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValuesEqualPrimitives(t *testing.T) {
	require.True(t, valuesEqual(Nil{}, Nil{}))
	require.True(t, valuesEqual(Bool(true), Bool(true)))
	require.False(t, valuesEqual(Bool(true), Bool(false)))
	require.True(t, valuesEqual(Number(1), Number(1)))
	require.False(t, valuesEqual(Number(1), Number(2)))
	require.False(t, valuesEqual(Nil{}, Bool(false)), "nil and false are distinct values")
	require.False(t, valuesEqual(Number(0), Bool(false)), "0 and false are distinct values")
}

func TestStringInterningGivesIdentity(t *testing.T) {
	th := NewThread()
	a := th.internString("hello")
	b := th.internString("hel" + "lo")
	require.Same(t, a, b)
	require.True(t, valuesEqual(a, b))
}

func TestIsFalsey(t *testing.T) {
	require.True(t, isFalsey(Nil{}))
	require.True(t, isFalsey(Bool(false)))
	require.False(t, isFalsey(Bool(true)))
	require.False(t, isFalsey(Number(0)))
	require.False(t, isFalsey(Number(1)))
}

func TestNumberString(t *testing.T) {
	require.Equal(t, "3", Number(3).String())
	require.Equal(t, "3.5", Number(3.5).String())
	require.Equal(t, "-1", Number(-1).String())
}
