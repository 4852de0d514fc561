package kdf

import (
	"bytes"
	"testing"
)

// FuzzParsePHC feeds arbitrary strings to the PHC decoder. Anything it accepts
// must survive an encode/parse round trip unchanged.
func FuzzParsePHC(f *testing.F) {
	a, err := NewArgon2(fastParams())
	if err != nil {
		f.Fatal(err)
	}
	d, err := a.Derive([]byte("seed"), []byte("salt"))
	if err != nil {
		f.Fatal(err)
	}
	valid := d.Encode()

	f.Add(valid)
	f.Add("")
	f.Add("$argon2id$v=19$m=64,t=1,p=1$$")
	f.Add("$argon2i$v=19$m=64,t=1,p=1$c2FsdHNhbHQ$aGFzaA")
	f.Add("$argon2id$v=16$m=64,t=1,p=1$c2FsdHNhbHQ$aGFzaA")
	f.Add(valid[:len(valid)/2])

	f.Fuzz(func(t *testing.T, input string) {
		got, err := ParsePHC(input)
		if err != nil {
			return
		}

		again, err := ParsePHC(got.Encode())
		if err != nil {
			t.Fatalf("re-encoded digest rejected: %v", err)
		}
		if !bytes.Equal(got.Hash, again.Hash) || !bytes.Equal(got.Salt, again.Salt) {
			t.Fatal("round trip changed hash or salt")
		}
		if got.Params != again.Params {
			t.Fatalf("round trip changed params: %+v vs %+v", got.Params, again.Params)
		}
	})
}
