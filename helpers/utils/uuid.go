package utils

import (
	"crypto/rand"
	"fmt"
)

// GenerateShortID returns a short id (8 hex chars), used for request ids
func GenerateShortID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("%x", b)
}
