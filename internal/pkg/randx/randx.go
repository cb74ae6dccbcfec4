/*
Package randx provides functions for generating session identifiers and
message identifiers.

Session ids use cryptographically secure Base62 randomness; message ids are
time-prefixed with a UUID suffix so they sort roughly by send time while
staying unique under same-millisecond sends.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	// SessionIDPrefix is the prefix for transport-assigned session ids.
	SessionIDPrefix = "s_"

	// SessionIDRawLength is the length of the random Base62 part of a session id.
	SessionIDRawLength = 12
)

// base62String generates a random Base62 string of the given length using
// crypto/rand.
func base62String(length int) (string, error) {
	result := make([]byte, length)

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %v", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// SessionID generates a transport-assigned session identifier, unique per
// connection.
func SessionID() (string, error) {
	raw, err := base62String(SessionIDRawLength)
	if err != nil {
		return "", err
	}

	return SessionIDPrefix + raw, nil
}

// MessageID generates a message identifier: current unix milliseconds, a
// dash, and a UUID v4 tiebreak. The time prefix gives ids a monotonic bias
// for ordering; the suffix guarantees uniqueness within a millisecond.
func MessageID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.New().String())
}
