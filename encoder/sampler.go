package encoder

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/hkdf"
)

const samplerInfo = "argonchain/encoder/v1"

// ErrEmptyDigest is returned when there is no seed material.
var ErrEmptyDigest = errors.New("digest must not be empty")

// Sampler is a deterministic source of uniform indices seeded by a digest.
// It is not safe for concurrent use.
type Sampler struct {
	stream *chacha20.Cipher
	buf    [64]byte
	pos    int
}

// NewSampler seeds a sampler from digest.
func NewSampler(digest []byte) (*Sampler, error) {
	if len(digest) == 0 {
		return nil, ErrEmptyDigest
	}

	kdf := hkdf.New(sha256.New, digest, nil, []byte(samplerInfo))
	key := make([]byte, chacha20.KeySize)
	nonce := make([]byte, chacha20.NonceSize)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive sampler key: %w", err)
	}
	if _, err := io.ReadFull(kdf, nonce); err != nil {
		return nil, fmt.Errorf("derive sampler nonce: %w", err)
	}

	stream, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		return nil, fmt.Errorf("init sampler stream: %w", err)
	}

	s := &Sampler{stream: stream}
	s.refill()
	return s, nil
}

func (s *Sampler) refill() {
	clear(s.buf[:])
	s.stream.XORKeyStream(s.buf[:], s.buf[:])
	s.pos = 0
}

func (s *Sampler) uint32() uint32 {
	if s.pos+4 > len(s.buf) {
		s.refill()
	}
	v := binary.LittleEndian.Uint32(s.buf[s.pos:])
	s.pos += 4
	return v
}

// Intn returns a uniform integer in [0, n). It panics if n <= 0.
func (s *Sampler) Intn(n int) int {
	if n <= 0 {
		panic("encoder: Intn called with non-positive bound")
	}
	bound := uint64(n)
	space := uint64(1) << 32
	limit := space - space%bound
	for {
		v := uint64(s.uint32())
		if v < limit {
			return int(v % bound)
		}
	}
}
