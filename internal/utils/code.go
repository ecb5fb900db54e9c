package utils

import (
    "crypto/rand"
    "fmt"
    "math/big"
    "strings"

    "github.com/google/uuid"
)

// NewActivationCode returns the opaque code embedded in a pass's QR
// image. A UUID keeps codes unguessable and collision-free without a
// uniqueness round-trip; the "GP-" prefix lets the scanner distinguish
// a QR payload from a typed PIN at a glance.
func NewActivationCode() string {
    return "GP-" + strings.ToUpper(uuid.NewString())
}

// NewPIN returns a 6-digit numeric PIN for manual entry at the till,
// drawn from crypto/rand. Leading zeros are preserved. PINs are not
// unique by construction; issuance retries on a collision.
func NewPIN() (string, error) {
    n, err := rand.Int(rand.Reader, big.NewInt(1000000))
    if err != nil {
        return "", err
    }
    return fmt.Sprintf("%06d", n.Int64()), nil
}
