package kdf

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	// MinMemoryKiB is the smallest memory cost accepted regardless of parallelism.
	MinMemoryKiB uint32 = 64
	// MaxMemoryKiB caps memory cost at 4 GiB.
	MaxMemoryKiB uint32 = 4 * 1024 * 1024

	minTimeCost    uint32 = 1
	minParallelism uint8  = 1
	minSaltLength  uint32 = 8
	maxSaltLength  uint32 = sha256.Size
	minKeyLength   uint32 = 16
	maxKeyLength   uint32 = 1024
	algorithmID           = "argon2id"
)

var (
	// ErrInvalidParams is returned when cost parameters fall outside the accepted range.
	ErrInvalidParams = errors.New("invalid argon2 parameters")
	// ErrDerive is returned when the primitive fails while hashing.
	ErrDerive = errors.New("argon2 derivation failed")
	// ErrInvalidEncoding is returned by [ParsePHC] for malformed strings.
	ErrInvalidEncoding = errors.New("invalid PHC encoding")
)

// Params are the Argon2id tunables.
type Params struct {
	Time        uint32
	Memory      uint32 // in KiB
	Parallelism uint8
	KeyLength   uint32
	SaltLength  uint32
}

// DefaultParams returns interactive-grade parameters.
func DefaultParams() Params {
	return Params{
		Time:        3,
		Memory:      64 * 1024,
		Parallelism: 2,
		KeyLength:   32,
		SaltLength:  16,
	}
}

// LegacyParams returns the heavyweight parameters of the classic command line
// tool: 20 passes over ~1 GB.
func LegacyParams() Params {
	return Params{
		Time:        20,
		Memory:      1024000,
		Parallelism: 1,
		KeyLength:   32,
		SaltLength:  16,
	}
}

// Validate reports whether p can be handed to the primitive.
func (p Params) Validate() error {
	if p.Time < minTimeCost {
		return fmt.Errorf("%w: time cost must be >= %d", ErrInvalidParams, minTimeCost)
	}
	if p.Parallelism < minParallelism {
		return fmt.Errorf("%w: parallelism must be >= %d", ErrInvalidParams, minParallelism)
	}
	if p.Memory < MinMemoryKiB {
		return fmt.Errorf("%w: memory must be >= %d KiB", ErrInvalidParams, MinMemoryKiB)
	}
	// Argon2 needs at least 8 KiB per lane.
	if p.Memory < 8*uint32(p.Parallelism) {
		return fmt.Errorf("%w: memory must be >= %d KiB for parallelism %d", ErrInvalidParams, 8*uint32(p.Parallelism), p.Parallelism)
	}
	if p.Memory > MaxMemoryKiB {
		return fmt.Errorf("%w: memory must be <= %d KiB", ErrInvalidParams, MaxMemoryKiB)
	}
	if p.KeyLength < minKeyLength || p.KeyLength > maxKeyLength {
		return fmt.Errorf("%w: key length must be within [%d, %d]", ErrInvalidParams, minKeyLength, maxKeyLength)
	}
	if p.SaltLength < minSaltLength || p.SaltLength > maxSaltLength {
		return fmt.Errorf("%w: salt length must be within [%d, %d]", ErrInvalidParams, minSaltLength, maxSaltLength)
	}
	return nil
}

// Digest is one raw Argon2id output together with the inputs needed to encode it.
type Digest struct {
	Hash   []byte
	Salt   []byte
	Params Params
}

// Encode renders d as a PHC string.
func (d Digest) Encode() string {
	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		d.Params.Memory,
		d.Params.Time,
		d.Params.Parallelism,
		base64.RawStdEncoding.EncodeToString(d.Salt),
		base64.RawStdEncoding.EncodeToString(d.Hash),
	)
}

// Argon2 derives digests with a fixed parameter set.
type Argon2 struct {
	params Params
}

// NewArgon2 validates params and returns a deriver.
func NewArgon2(params Params) (*Argon2, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Argon2{params: params}, nil
}

// Params returns the parameters a was built with.
func (a *Argon2) Params() Params {
	return a.params
}

// Derive hashes secret under salt. The salt is normalized to SaltLength bytes first.
func (a *Argon2) Derive(secret, salt []byte) (d Digest, err error) {
	if a == nil {
		return Digest{}, fmt.Errorf("%w: nil deriver", ErrDerive)
	}

	normalized := NormalizeSalt(salt, a.params.SaltLength)

	defer func() {
		if r := recover(); r != nil {
			d = Digest{}
			err = fmt.Errorf("%w: %v", ErrDerive, r)
		}
	}()

	hash := argon2.IDKey(
		secret,
		normalized,
		a.params.Time,
		a.params.Memory,
		a.params.Parallelism,
		a.params.KeyLength,
	)

	return Digest{Hash: hash, Salt: normalized, Params: a.params}, nil
}

// Verify recomputes the digest for secret and salt and compares it to encoded
// in constant time. The parameters embedded in encoded are used, not a's.
func (a *Argon2) Verify(secret, salt []byte, encoded string) (bool, error) {
	parsed, err := ParsePHC(encoded)
	if err != nil {
		return false, err
	}

	normalized := NormalizeSalt(salt, uint32(len(parsed.Salt)))
	if subtle.ConstantTimeCompare(normalized, parsed.Salt) != 1 {
		return false, nil
	}

	computed := argon2.IDKey(
		secret,
		normalized,
		parsed.Params.Time,
		parsed.Params.Memory,
		parsed.Params.Parallelism,
		uint32(len(parsed.Hash)),
	)

	return subtle.ConstantTimeCompare(computed, parsed.Hash) == 1, nil
}

// NormalizeSalt maps an arbitrary salt to exactly n bytes (n <= 32).
func NormalizeSalt(salt []byte, n uint32) []byte {
	sum := sha256.Sum256(salt)
	if n > uint32(len(sum)) {
		n = uint32(len(sum))
	}
	out := make([]byte, n)
	copy(out, sum[:n])
	return out
}

// ParsePHC decodes a PHC string produced by [Digest.Encode].
func ParsePHC(encoded string) (Digest, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return Digest{}, fmt.Errorf("%w: wrong field count", ErrInvalidEncoding)
	}

	if parts[1] != algorithmID {
		return Digest{}, fmt.Errorf("%w: unsupported algorithm", ErrInvalidEncoding)
	}

	versionPart := parts[2]
	if !strings.HasPrefix(versionPart, "v=") {
		return Digest{}, fmt.Errorf("%w: missing version", ErrInvalidEncoding)
	}
	version, err := strconv.Atoi(strings.TrimPrefix(versionPart, "v="))
	if err != nil || version != argon2.Version {
		return Digest{}, fmt.Errorf("%w: unsupported version", ErrInvalidEncoding)
	}

	params, err := parseParams(parts[3])
	if err != nil {
		return Digest{}, err
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) < int(minSaltLength) {
		return Digest{}, fmt.Errorf("%w: bad salt", ErrInvalidEncoding)
	}

	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(hash) == 0 {
		return Digest{}, fmt.Errorf("%w: bad hash", ErrInvalidEncoding)
	}

	params.SaltLength = uint32(len(salt))
	params.KeyLength = uint32(len(hash))

	return Digest{Hash: hash, Salt: salt, Params: params}, nil
}

func parseParams(part string) (Params, error) {
	pairs := strings.Split(part, ",")
	if len(pairs) != 3 {
		return Params{}, fmt.Errorf("%w: parameter format", ErrInvalidEncoding)
	}

	var (
		memorySet, timeSet, parallelismSet bool
		params                             Params
	)

	for _, pair := range pairs {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return Params{}, fmt.Errorf("%w: parameter entry", ErrInvalidEncoding)
		}

		switch kv[0] {
		case "m":
			v, err := strconv.ParseUint(kv[1], 10, 32)
			if err != nil || v < uint64(MinMemoryKiB) || v > uint64(MaxMemoryKiB) {
				return Params{}, fmt.Errorf("%w: memory parameter", ErrInvalidEncoding)
			}
			params.Memory = uint32(v)
			memorySet = true
		case "t":
			v, err := strconv.ParseUint(kv[1], 10, 32)
			if err != nil || v < uint64(minTimeCost) {
				return Params{}, fmt.Errorf("%w: time parameter", ErrInvalidEncoding)
			}
			params.Time = uint32(v)
			timeSet = true
		case "p":
			v, err := strconv.ParseUint(kv[1], 10, 8)
			if err != nil || v < uint64(minParallelism) {
				return Params{}, fmt.Errorf("%w: parallelism parameter", ErrInvalidEncoding)
			}
			params.Parallelism = uint8(v)
			parallelismSet = true
		default:
			return Params{}, fmt.Errorf("%w: unsupported parameter %q", ErrInvalidEncoding, kv[0])
		}
	}

	if !memorySet || !timeSet || !parallelismSet {
		return Params{}, fmt.Errorf("%w: missing parameters", ErrInvalidEncoding)
	}

	return params, nil
}
