package models

import (
	"time"

	"github.com/google/uuid"
)

// Каналы верификации аккаунта.
const (
	VerificationChannelEmail = "email"
	VerificationChannelPhone = "phone"
)

// User описывает аккаунт рекрутёра.
// Секретные поля (хеш пароля, токены, OTP) наружу не сериализуются —
// клиенту уходит только dto.PublicUser.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	CompanyName  string    `db:"company_name" json:"company_name"`
	Phone        string    `db:"phone" json:"phone"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`

	EmailVerified bool `db:"email_verified" json:"email_verified"`
	PhoneVerified bool `db:"phone_verified" json:"phone_verified"`

	// Ожидающие OTP по каналам. Пустой слот — оба поля NULL.
	EmailOTP        *string    `db:"email_otp" json:"-"`
	EmailOTPExpires *time.Time `db:"email_otp_expires" json:"-"`
	PhoneOTP        *string    `db:"phone_otp" json:"-"`
	PhoneOTPExpires *time.Time `db:"phone_otp_expires" json:"-"`

	IsDeleted bool      `db:"is_deleted" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// UserToken — один действующий bearer токен аккаунта.
// Коллекция токенов неупорядочена: у аккаунта может быть ноль, один
// или несколько одновременно действующих токенов (мультисессии).
type UserToken struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Token     string    `db:"token" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// OTPSlot возвращает ожидающий код и срок его действия для канала.
func (u *User) OTPSlot(channel string) (code *string, expires *time.Time) {
	if channel == VerificationChannelPhone {
		return u.PhoneOTP, u.PhoneOTPExpires
	}
	return u.EmailOTP, u.EmailOTPExpires
}

// IsVerified сообщает, подтверждён ли канал.
func (u *User) IsVerified(channel string) bool {
	if channel == VerificationChannelPhone {
		return u.PhoneVerified
	}
	return u.EmailVerified
}

// CanPostJob — производное право аккаунта: публиковать вакансии можно
// только после подтверждения и email, и телефона.
func (u *User) CanPostJob() bool {
	return u.EmailVerified && u.PhoneVerified
}
