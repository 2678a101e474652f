package lfsfmt

import "testing"

func TestEnc16RoundTrip(t *testing.T) {
	cases := []uint16{0, 1, 0xFF, 0x100, 0xBEEF, 0xFFFF}
	for _, c := range cases {
		e := Enc16(c)
		if got := Dec16(e[:]); got != c {
			t.Fatalf("Enc16/Dec16 round trip failed for %#x: got %#x", c, got)
		}
	}
}

func TestEnc32RoundTrip(t *testing.T) {
	cases := []uint32{0, 1, 0xFF, 0x100, 0x10203040, 0xFFFFFFFF}
	for _, c := range cases {
		e := Enc32(c)
		if got := Dec32(e[:]); got != c {
			t.Fatalf("Enc32/Dec32 round trip failed for %#x: got %#x", c, got)
		}
	}
}

func TestEnc32IsLittleEndian(t *testing.T) {
	e := Enc32(0x10203040)
	want := [4]byte{0x40, 0x30, 0x20, 0x10}
	if e != want {
		t.Fatalf("Enc32 is not little-endian: got %v want %v", e, want)
	}
}

func TestPutEnc32(t *testing.T) {
	buf := make([]byte, 12)
	PutEnc32(buf, 4, 0xCAFEBABE)
	if got := Dec32(buf[4:8]); got != 0xCAFEBABE {
		t.Fatalf("PutEnc32 wrote wrong bytes: got %#x", got)
	}
	for i, b := range buf {
		if i >= 4 && i < 8 {
			continue
		}
		if b != 0 {
			t.Fatalf("PutEnc32 touched byte %d outside its slot", i)
		}
	}
}
