package hw

import "testing"

func TestDSPPerMACKnownTypes(t *testing.T) {
	cases := []struct {
		dt   DataType
		want float64
	}{
		{Float, 5},
		{Fixed16, 1},
	}
	for _, c := range cases {
		got, err := c.dt.DSPPerMAC()
		if err != nil {
			t.Fatalf("DSPPerMAC(%q): %v", c.dt, err)
		}
		if got != c.want {
			t.Errorf("DSPPerMAC(%q) = %v, want %v", c.dt, got, c.want)
		}
	}
}

func TestDSPPerMACUnknownType(t *testing.T) {
	if _, err := DataType("bfloat16").DSPPerMAC(); err == nil {
		t.Errorf("expected an error for an unrecognized data type")
	}
}

func TestCloneIsIndependentCopy(t *testing.T) {
	p := DefaultPrecision()
	p.InNumT = 16

	clone := p.Clone()
	clone.InNumT = 32

	if p.InNumT != 16 {
		t.Errorf("mutating the clone changed the original: InNumT = %d, want 16", p.InNumT)
	}
}
