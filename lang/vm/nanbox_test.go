package vm

import "testing"

func TestNanBoxRoundTrip(t *testing.T) {
	cases := []Value{Nil{}, Bool(true), Bool(false), Number(3.25), Number(-17)}
	for _, v := range cases {
		var packed NanBox
		switch x := v.(type) {
		case Nil:
			packed = PackNil()
		case Bool:
			packed = PackBool(bool(x))
		case Number:
			packed = PackNumber(float64(x))
		}
		got := packed.ToValue()
		if got != v {
			t.Fatalf("round trip of %v produced %v", v, got)
		}
	}
}
