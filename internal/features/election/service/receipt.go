package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// receiptAlphabet avoids ambiguous characters (0/O, 1/I/L) so voters can
// read the code back over the phone.
const receiptAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// NewReceiptCode generates a receipt code like "VR-7KQ2-M4XD" using a
// cryptographically secure source.
func NewReceiptCode() (string, error) {
	chars := make([]byte, 8)
	max := big.NewInt(int64(len(receiptAlphabet)))
	for i := range chars {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate receipt code: %w", err)
		}
		chars[i] = receiptAlphabet[n.Int64()]
	}
	return fmt.Sprintf("VR-%s-%s", chars[:4], chars[4:]), nil
}
