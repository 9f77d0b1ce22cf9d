// Package shareid generates short public identifiers for shared stories.
package shareid

import (
	"crypto/rand"
	"fmt"
)

// alphabet задает алфавит публичных идентификаторов
const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Length длина публичного идентификатора истории
const Length = 12

// New создает короткий случайный идентификатор для публичной ссылки
// Уникальность обеспечивается ограничением в хранилище и повтором при коллизии
func New() (string, error) {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate share id: %w", err)
	}

	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}

	return string(buf), nil
}
