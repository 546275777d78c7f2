// Package validation holds the registration field rules shared by the HTTP
// service and the registration form.
package validation

import (
	"regexp"

	"github.com/SudilMin/Devthon-website/internal/domain"
)

var (
	// emailPattern is the loose grammar used by the form before submission.
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// phonePattern accepts Sri Lankan mobile numbers: +947XXXXXXXX, 07XXXXXXXX or 7XXXXXXXX.
	phonePattern = regexp.MustCompile(`^(\+94|0)?7[0-9]{8}$`)

	oldNICPattern = regexp.MustCompile(`^[0-9]{9}[vVxX]$`)
	newNICPattern = regexp.MustCompile(`^[0-9]{12}$`)

	whatsappPattern = regexp.MustCompile(`^https://chat\.whatsapp\.com/[A-Za-z0-9]+$`)
)

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsPhone reports whether s is a regional mobile number. Whitespace is ignored.
func IsPhone(s string) bool {
	return phonePattern.MatchString(domain.StripSpaces(s))
}

// IsNIC reports whether s is a national identity card number in either the
// old (9 digits + letter) or the new (12 digits) format.
func IsNIC(s string) bool {
	return oldNICPattern.MatchString(s) || newNICPattern.MatchString(s)
}

// IsWhatsappGroup reports whether s is a WhatsApp group invite link.
func IsWhatsappGroup(s string) bool {
	return whatsappPattern.MatchString(s)
}

// IsAcademicYear reports whether s is one of the accepted academic years.
func IsAcademicYear(s string) bool {
	for _, y := range domain.AcademicYears {
		if s == y {
			return true
		}
	}
	return false
}
