package encoder

// Encoder renders digests under a policy validated once at construction.
type Encoder struct {
	policy   Policy
	special  string
	alphabet string
}

// New validates p and returns an encoder for it.
func New(p Policy) (*Encoder, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Encoder{
		policy:   p,
		special:  p.SpecialAlphabet(),
		alphabet: p.Alphabet(),
	}, nil
}

// Policy returns the policy e enforces.
func (e *Encoder) Policy() Policy {
	return e.policy
}

// Encode maps digest to a password.
func (e *Encoder) Encode(digest []byte) (string, error) {
	s, err := NewSampler(digest)
	if err != nil {
		return "", err
	}
	return e.render(s), nil
}

func (e *Encoder) render(s *Sampler) string {
	p := e.policy
	out := make([]byte, 0, p.Length)

	pick := func(alphabet string, n int) {
		for i := 0; i < n; i++ {
			out = append(out, alphabet[s.Intn(len(alphabet))])
		}
	}

	pick(Lower, p.MinLower)
	pick(Digits, p.MinDigits)
	if p.IncludeUpper {
		pick(Upper, p.MinUpper)
	}
	if p.IncludeSpecial {
		pick(e.special, p.MinSpecial)
	}
	pick(e.alphabet, p.Length-len(out))

	for i := len(out) - 1; i > 0; i-- {
		j := s.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}

	return string(out)
}

// Encode validates p and maps digest to a password in one call.
func Encode(digest []byte, p Policy) (string, error) {
	e, err := New(p)
	if err != nil {
		return "", err
	}
	return e.Encode(digest)
}
