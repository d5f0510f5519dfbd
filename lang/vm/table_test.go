package vm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func internFor(t *testing.T, chars string) *String {
	t.Helper()
	return &String{chars: chars, hash: hashString(chars)}
}

func TestTableSetGetDelete(t *testing.T) {
	tbl := newTable()
	a := internFor(t, "a")
	b := internFor(t, "b")

	require.True(t, tbl.Set(a, Number(1)))
	require.True(t, tbl.Set(b, Number(2)))
	require.False(t, tbl.Set(a, Number(3)), "re-setting an existing key is not a new key")

	v, ok := tbl.Get(a)
	require.True(t, ok)
	require.Equal(t, Number(3), v)

	require.True(t, tbl.Delete(a))
	_, ok = tbl.Get(a)
	require.False(t, ok)

	v, ok = tbl.Get(b)
	require.True(t, ok)
	require.Equal(t, Number(2), v)
}

func TestTableGrowsAndSurvivesTombstones(t *testing.T) {
	tbl := newTable()
	var keys []*String
	for i := 0; i < 200; i++ {
		k := internFor(t, fmt.Sprintf("key%d", i))
		keys = append(keys, k)
		tbl.Set(k, Number(float64(i)))
	}
	for i := 0; i < 200; i += 2 {
		require.True(t, tbl.Delete(keys[i]))
	}
	for i := 0; i < 200; i++ {
		v, ok := tbl.Get(keys[i])
		if i%2 == 0 {
			require.False(t, ok)
		} else {
			require.True(t, ok)
			require.Equal(t, Number(float64(i)), v)
		}
	}
}

func TestTableFindString(t *testing.T) {
	tbl := newTable()
	s := internFor(t, "hello")
	tbl.Set(s, Nil{})

	found := tbl.findString("hello", hashString("hello"))
	require.Same(t, s, found)

	require.Nil(t, tbl.findString("nope", hashString("nope")))
}

func TestTableAddAll(t *testing.T) {
	src := newTable()
	dst := newTable()
	a := internFor(t, "a")
	src.Set(a, Number(1))

	dst.addAll(src)
	v, ok := dst.Get(a)
	require.True(t, ok)
	require.Equal(t, Number(1), v)
}

func TestTableRemoveWhite(t *testing.T) {
	tbl := newTable()
	live := internFor(t, "live")
	dead := internFor(t, "dead")
	live.marked = true
	tbl.Set(live, Nil{})
	tbl.Set(dead, Nil{})

	tbl.removeWhite()

	_, ok := tbl.Get(live)
	require.True(t, ok)
	_, ok = tbl.Get(dead)
	require.False(t, ok)
}
