// Package pseudonym derives masked labels from patient records and provides
// the reversible field cipher. Masks are deterministic and not reversible by
// themselves; recovery of the original values goes through the cipher.
package pseudonym

import "fmt"

const (
	maskedNamePrefix   = "ANON_"
	contactPlaceholder = "XXX-XXX-"
	contactMaskedAll   = "XXX-XXX-XXXX"
)

// MaskPatientID returns the fixed-width pseudonym label for a patient id.
// Same id always yields the same label.
func MaskPatientID(id int64) string {
	return fmt.Sprintf("%s%04d", maskedNamePrefix, id)
}

// MaskContact keeps only the last 4 characters of the contact and replaces
// the rest with a fixed placeholder. Contacts shorter than 4 characters mask
// to the all-placeholder value so nothing leaks. Counting is per character,
// not per byte, so multibyte contacts never leak extra characters or split
// a rune.
func MaskContact(raw string) string {
	runes := []rune(raw)
	if len(runes) >= 4 {
		return contactPlaceholder + string(runes[len(runes)-4:])
	}
	return contactMaskedAll
}
