package crypto

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/tea"
)

const (
	// TEAKeySize is the key length accepted by NewTEA.
	TEAKeySize = tea.KeySize

	// teaRounds is 16 TEA cycles; x/crypto/tea counts each half-cycle as a round.
	teaRounds = 32

	teaBlock = tea.BlockSize
)

var (
	// ErrTEAKeySize indicates a key that is not 16 bytes long.
	ErrTEAKeySize = errors.New("tea key must be 16 bytes")
	// ErrTEACiphertext indicates a ciphertext with a bad length or padding.
	ErrTEACiphertext = errors.New("malformed tea ciphertext")
)

// TEA implements the protocol's chained TEA mode: each 8-byte block is
// XORed with the previous ciphertext before encryption and the previous
// plaintext-input after, with random head padding and seven zero tail bytes.
type TEA struct {
	block cipher.Block
}

// NewTEA creates a cipher for a 16-byte key.
func NewTEA(key []byte) (*TEA, error) {
	if len(key) != TEAKeySize {
		return nil, fmt.Errorf("%w: got %d", ErrTEAKeySize, len(key))
	}
	c, err := tea.NewCipherWithRounds(key, teaRounds)
	if err != nil {
		return nil, fmt.Errorf("failed to create tea cipher: %w", err)
	}
	return &TEA{block: c}, nil
}

func (t *TEA) encode(v uint64) uint64 {
	var in, out [teaBlock]byte
	binary.BigEndian.PutUint64(in[:], v)
	t.block.Encrypt(out[:], in[:])
	return binary.BigEndian.Uint64(out[:])
}

func (t *TEA) decode(v uint64) uint64 {
	var in, out [teaBlock]byte
	binary.BigEndian.PutUint64(in[:], v)
	t.block.Decrypt(out[:], in[:])
	return binary.BigEndian.Uint64(out[:])
}

// Encrypt seals src. The output is always a multiple of 8 bytes and at least 16.
func (t *TEA) Encrypt(src []byte) ([]byte, error) {
	fill := 10 - (len(src)+1)%8
	dst := make([]byte, fill+len(src)+7)
	if _, err := rand.Read(dst[:fill]); err != nil {
		return nil, fmt.Errorf("failed to generate tea padding: %w", err)
	}
	dst[0] = byte(fill-3) | 0xf8
	copy(dst[fill:], src)

	var iv1, iv2, holder uint64
	for i := 0; i < len(dst); i += teaBlock {
		block := binary.BigEndian.Uint64(dst[i:])
		holder = block ^ iv1
		iv1 = t.encode(holder) ^ iv2
		iv2 = holder
		binary.BigEndian.PutUint64(dst[i:], iv1)
	}
	return dst, nil
}

// Decrypt opens data produced by Encrypt. It checks the length, the head
// padding and the zero tail and never panics on malformed input.
func (t *TEA) Decrypt(data []byte) ([]byte, error) {
	if len(data) < 2*teaBlock || len(data)%teaBlock != 0 {
		return nil, fmt.Errorf("%w: length %d", ErrTEACiphertext, len(data))
	}
	dst := make([]byte, len(data))
	var iv1, iv2, holder uint64
	for i := 0; i < len(dst); i += teaBlock {
		iv1 = binary.BigEndian.Uint64(data[i:])
		iv2 = t.decode(iv2 ^ iv1)
		binary.BigEndian.PutUint64(dst[i:], iv2^holder)
		holder = iv1
	}

	start := int(dst[0]&7) + 3
	end := len(dst) - 7
	for _, b := range dst[end:] {
		if b != 0 {
			logrus.WithFields(logrus.Fields{
				"function": "TEA.Decrypt",
				"length":   len(data),
			}).Debug("TEA tail check failed, wrong key or corrupted data")
			return nil, fmt.Errorf("%w: bad tail", ErrTEACiphertext)
		}
	}
	if start > end {
		return nil, fmt.Errorf("%w: padding %d exceeds payload", ErrTEACiphertext, start)
	}
	return dst[start:end], nil
}
