package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateRandomToken генерирует криптографически стойкий токен
// длиной byteLen байт в hex-кодировке
func GenerateRandomToken(byteLen int) (string, error) {
	buf := make([]byte, byteLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
