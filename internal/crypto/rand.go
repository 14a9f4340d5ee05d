package crypto

import (
	"crypto/rand"
	"encoding/binary"

	"wasp/internal/domain/types"
)

// RandBytes returns n cryptographically random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// RandRegistrationID returns a random registration id in the
// 14-bit range 1..16380 (spec.md §3).
func RandRegistrationID() (types.RegistrationID, error) {
	const rangeSize = 16381 // 0..16380, rejecting 0 leaves 1..16380 reachable
	for {
		var buf [2]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return 0, err
		}
		v := binary.BigEndian.Uint16(buf[:]) % rangeSize
		if v == 0 {
			continue
		}
		return types.RegistrationID(v), nil
	}
}
