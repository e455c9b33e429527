// Package common holds small helpers shared by the admin client packages.
package common

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
)

const (
	letters   = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
	digits    = "23456789"
	codeChars = letters + digits
)

// secureRandomInt returns a uniformly distributed number in [0, max) from
// crypto/rand.
func secureRandomInt(max int) (int, error) {
	if max <= 0 {
		return 0, fmt.Errorf("max must be positive, got %d", max)
	}
	if max > math.MaxInt32 {
		return 0, fmt.Errorf("max too large: %d", max)
	}

	// largest multiple of max that fits, to avoid modulo bias
	limit := (math.MaxUint64 / uint64(max)) * uint64(max)

	for {
		var buf [8]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return 0, fmt.Errorf("failed to generate random bytes: %w", err)
		}
		n := binary.BigEndian.Uint64(buf[:])
		if n < limit {
			return int(n % uint64(max)), nil
		}
	}
}

// RandomCode returns a random string of the given length that starts with a
// letter. Characters that are easy to confuse (0, O, 1, l, I) are excluded so the
// code can be read back from a terminal.
func RandomCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive, got %d", length)
	}
	result := make([]byte, length)
	for i := range result {
		set := codeChars
		if i == 0 {
			set = letters
		}
		idx, err := secureRandomInt(len(set))
		if err != nil {
			return "", fmt.Errorf("failed to generate character at position %d: %w", i, err)
		}
		result[i] = set[idx]
	}
	return string(result), nil
}
