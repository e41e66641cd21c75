package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Field length limits, matching the public form contract.
const (
	NameMinLen    = 2
	NameMaxLen    = 100
	EmailMaxLen   = 100
	MessageMinLen = 10
	MessageMaxLen = 5000
)

// User-facing validation messages, keyed per field in FieldErrors.
const (
	MsgNameRequired    = "Name is required."
	MsgNameTooShort    = "Name must be at least 2 characters long."
	MsgNameTooLong     = "Name cannot exceed 100 characters."
	MsgEmailRequired   = "Email is required."
	MsgEmailTooLong    = "Email cannot exceed 100 characters."
	MsgEmailInvalid    = "Please enter a valid email address."
	MsgMessageRequired = "Message is required."
	MsgMessageTooShort = "Message must be at least 10 characters long."
	MsgMessageTooLong  = "Message cannot exceed 5000 characters."
)

// Fields holds the sanitized values of an accepted submission. Values are
// trimmed and control-character free but NOT HTML-escaped; any consumer
// embedding them in markup must escape them itself.
type Fields struct {
	Name    string
	Email   string
	Message string
}

// FieldErrors maps a field name (name, email, message) to a human-readable
// validation message. It is transient and never persisted.
type FieldErrors map[string]string

var emailValidator = validator.New()

// Validate sanitizes the raw inputs and checks every field independently,
// collecting an error for each violated rule rather than stopping at the
// first. On success the returned Fields carry the trimmed values and the
// error map is empty.
func Validate(rawName, rawEmail, rawMessage string) (Fields, FieldErrors) {
	fields := Fields{
		Name:    sanitizeLine(rawName),
		Email:   sanitizeLine(rawEmail),
		Message: sanitizeText(rawMessage),
	}

	errs := FieldErrors{}

	switch n := utf8.RuneCountInString(fields.Name); {
	case n == 0:
		errs["name"] = MsgNameRequired
	case n < NameMinLen:
		errs["name"] = MsgNameTooShort
	case n > NameMaxLen:
		errs["name"] = MsgNameTooLong
	}

	switch {
	case fields.Email == "":
		errs["email"] = MsgEmailRequired
	case utf8.RuneCountInString(fields.Email) > EmailMaxLen:
		errs["email"] = MsgEmailTooLong
	case !validEmail(fields.Email):
		errs["email"] = MsgEmailInvalid
	}

	switch n := utf8.RuneCountInString(fields.Message); {
	case n == 0:
		errs["message"] = MsgMessageRequired
	case n < MessageMinLen:
		errs["message"] = MsgMessageTooShort
	case n > MessageMaxLen:
		errs["message"] = MsgMessageTooLong
	}

	if len(errs) > 0 {
		return Fields{}, errs
	}
	return fields, nil
}

// validEmail checks local-part "@" domain with at least one dot in the
// domain and no embedded whitespace. The grammar check itself is delegated
// to the validator library; the dot rule is enforced on top because a bare
// hostname ("user@localhost") is not deliverable from a public form.
func validEmail(email string) bool {
	if strings.IndexFunc(email, unicode.IsSpace) >= 0 {
		return false
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	if !strings.Contains(domain, ".") {
		return false
	}
	return emailValidator.Var(email, "email") == nil
}

// sanitizeLine strips all control characters and trims surrounding
// whitespace; used for single-line fields (name, email).
func sanitizeLine(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s))
}

// sanitizeText is sanitizeLine for multi-line fields: newlines and tabs
// survive, every other control character is dropped.
func sanitizeText(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s))
}
