package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		want     string
	}{
		{"Abcdef1!", ""},
		{"Str0ng#Passw0rd", ""},
		{"abcdefgh", msgPasswordUpper},
		{"Ab1!", msgPasswordShort},
		{"ABCDEFG1!", msgPasswordLower},
		{"Abcdefgh!", msgPasswordDigit},
		{"Abcdefgh1", msgPasswordSymbol},
		{"Abcdefg 1", ""},
		{"", msgPasswordShort},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePassword(tt.password))
		})
	}
}

// accepts iff length >= 8 and each character class is present
func TestValidatePasswordAgreesWithRules(t *testing.T) {
	alphabet := []string{"a", "B", "3", "$", "aa", "BB", "33", "$$"}
	var candidates []string
	for _, a := range alphabet {
		for _, b := range alphabet {
			for _, c := range alphabet {
				for _, d := range alphabet {
					candidates = append(candidates, a+b+c+d)
				}
			}
		}
	}

	for _, p := range candidates {
		want := len(p) >= 8 &&
			strings.ContainsAny(p, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") &&
			strings.ContainsAny(p, "abcdefghijklmnopqrstuvwxyz") &&
			strings.ContainsAny(p, "0123456789") &&
			strings.ContainsAny(p, "$")
		assert.Equal(t, want, ValidatePassword(p) == "", p)
	}
}

func TestNormalizeAndValidateEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  USER@Example.COM "))
	assert.Equal(t, "user@example.com", NormalizeEmail("<user@example.com>"))
	assert.Empty(t, ValidateEmail(NormalizeEmail("  USER@Example.COM ")))

	assert.Equal(t, msgEmailInvalid, ValidateEmail(""))
	assert.Equal(t, msgEmailInvalid, ValidateEmail("not-an-email"))
	assert.Equal(t, msgEmailInvalid, ValidateEmail("user@"))

	long := strings.Repeat("a", 64) + "@" + strings.Repeat("b", 63) + "." + strings.Repeat("c", 63) + "." + strings.Repeat("d", 60) + ".com"
	assert.Greater(t, len(long), MaxEmailLength)
	assert.Contains(t, []string{msgEmailInvalid, msgEmailTooLong}, ValidateEmail(long))
}

func TestNameRules(t *testing.T) {
	assert.Equal(t, "Mary Jane O'Neil-Smith", NormalizeName("  Mary   Jane\tO'Neil-Smith "))
	assert.Empty(t, ValidateName(NormalizeName("  Mary   Jane ")))
	assert.Equal(t, msgNameShort, ValidateName(NormalizeName(" J ")))
	assert.Equal(t, msgNameLong, ValidateName(strings.Repeat("a", 101)))
	assert.Equal(t, msgNameInvalid, ValidateName("R2D2"))
	assert.Equal(t, "script", NormalizeName("<script>"))
}

func TestSignInFormValidate(t *testing.T) {
	assert.Empty(t, SignInForm{Email: " Me@Site.io ", Password: "Abcdef1!"}.Validate())

	messages := SignInForm{Email: "nope", Password: "abcdefgh"}.Validate()
	assert.Equal(t, []string{msgEmailInvalid, msgPasswordUpper}, messages)

	normalized := SignInForm{Email: " Me@Site.io ", Password: " Abcdef1! "}.Normalize()
	assert.Equal(t, "me@site.io", normalized.Email)
	assert.Equal(t, " Abcdef1! ", normalized.Password, "passwords are used as typed")
}

func TestSignUpFormValidate(t *testing.T) {
	valid := SignUpForm{Email: "me@site.io", Password: "Abcdef1!", ConfirmPassword: "Abcdef1!", FullName: "Ada Lovelace"}
	assert.Empty(t, valid.Validate())

	messages := SignUpForm{Email: "me@site.io", Password: "Abcdef1!", ConfirmPassword: "Abcdef1?", FullName: "A"}.Validate()
	assert.Equal(t, []string{msgNameShort, msgPasswordMismatch}, messages)

	all := SignUpForm{Email: "x", Password: "short", ConfirmPassword: "", FullName: "1"}.Validate()
	assert.Equal(t, []string{msgEmailInvalid, msgPasswordShort, msgNameShort, msgPasswordMismatch}, all)
}
