package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinNameLength        = 2
	MaxNameLength        = 100
	MaxCompanyNameLength = 200
	MaxPhoneLength       = 20
	MaxJobTitleLength    = 200
	MaxJobDescription    = 5000
	MaxCandidates        = 100
)

var (
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	phoneRegex       = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{4,}$`)
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}

	if !emailLocalRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}
	if !emailDomainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidatePhone проверяет номер телефона.
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return fmt.Errorf("телефон обязателен")
	}
	if utf8.RuneCountInString(phone) > MaxPhoneLength {
		return fmt.Errorf("телефон должен быть не более %d символов", MaxPhoneLength)
	}
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("телефон имеет некорректный формат")
	}
	return nil
}

// ValidateCandidates проверяет список email адресов кандидатов.
func ValidateCandidates(candidates []string) error {
	if len(candidates) > MaxCandidates {
		return fmt.Errorf("количество кандидатов не может превышать %d", MaxCandidates)
	}

	seen := make(map[string]bool)
	for _, email := range candidates {
		if err := ValidateEmail(email); err != nil {
			return fmt.Errorf("кандидат %q: %w", email, err)
		}

		lower := strings.ToLower(strings.TrimSpace(email))
		if seen[lower] {
			return fmt.Errorf("кандидат %q указан дважды", email)
		}
		seen[lower] = true
	}

	return nil
}
