package validation

import (
	"fmt"
	"strings"
)

// MinPasswordLength — минимальная длина пароля.
const MinPasswordLength = 6

// ValidatePassword проверяет пароль до хеширования.
// Требования:
// - Минимум 6 символов
// - Не содержит слово "password" в любом регистре
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("пароль должен быть не менее %d символов", MinPasswordLength)
	}

	if strings.Contains(strings.ToLower(password), "password") {
		return fmt.Errorf("пароль не может содержать слово \"password\"")
	}

	return nil
}
