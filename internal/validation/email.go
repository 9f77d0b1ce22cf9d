package validation

import (
	"fmt"
	"regexp"
)

// EmailPattern определяет допустимый формат email
// Упрощенная проверка: локальная часть, @, домен с точкой
var EmailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const (
	// MaxEmailLen максимальная длина email
	MaxEmailLen = 254
	// MinPasswordLen минимальная длина пароля
	MinPasswordLen = 8
	// MaxNameLen максимальная длина отображаемого имени
	MaxNameLen = 128
)

// ValidateEmail проверяет, что email непустой и похож на адрес
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}

	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLen)
	}

	if !EmailPattern.MatchString(email) {
		return fmt.Errorf("email format is invalid")
	}

	return nil
}

// ValidatePassword проверяет минимальные требования к паролю
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}

	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	return nil
}

// ValidateName проверяет отображаемое имя (пустое допустимо)
func ValidateName(name string) error {
	if len(name) > MaxNameLen {
		return fmt.Errorf("name must not exceed %d characters", MaxNameLen)
	}

	return nil
}
