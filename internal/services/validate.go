package services

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

var allowedAvatarTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

func IsAllowedAvatarType(contentType string) bool {
	return allowedAvatarTypes[contentType]
}

// ValidateRegistration checks every field of a registration request and
// returns a ValidationError for the first violation. It touches neither the
// database nor storage.
func ValidateRegistration(in RegisterInput) *ValidationError {
	// Length limits count characters, not bytes, so multibyte names and
	// passwords are measured the same as ASCII ones.
	name := strings.TrimSpace(in.Name)
	if nameLen := utf8.RuneCountInString(name); nameLen < 3 || nameLen > 30 {
		return &ValidationError{Field: "name", Reason: "must be between 3 and 30 characters"}
	}

	email := strings.TrimSpace(in.Email)
	parsed, err := mail.ParseAddress(email)
	if err != nil || parsed.Address != email {
		// ParseAddress also accepts display-name forms like "Ann <ann@x.com>";
		// only a bare address may be stored.
		return &ValidationError{Field: "email", Reason: "must be a valid email address"}
	}

	if in.Phone <= 0 {
		return &ValidationError{Field: "phone", Reason: "must be a positive number"}
	}

	if passwordLen := utf8.RuneCountInString(in.Password); passwordLen < 8 || passwordLen > 32 {
		return &ValidationError{Field: "password", Reason: "must be between 8 and 32 characters"}
	}

	if !in.Role.Valid() {
		return &ValidationError{Field: "role", Reason: "must be Admin or Student"}
	}

	if !IsAllowedAvatarType(in.AvatarContentType) {
		return &ValidationError{Field: "avatar", Reason: "must be a PNG, JPEG or WebP image"}
	}

	return nil
}
