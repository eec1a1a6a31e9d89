package enums

import "fmt"

// PrivacyLevel controls who may read a genealogy.
type PrivacyLevel string

const (
	PrivacyPublic  PrivacyLevel = "public"
	PrivacyPrivate PrivacyLevel = "private"
	PrivacyFamily  PrivacyLevel = "family"
)

var validPrivacyLevels = []PrivacyLevel{
	PrivacyPublic,
	PrivacyPrivate,
	PrivacyFamily,
}

// String implements fmt.Stringer.
func (p PrivacyLevel) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PrivacyLevel.
func (p PrivacyLevel) IsValid() bool {
	for _, candidate := range validPrivacyLevels {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePrivacyLevel converts raw input into a PrivacyLevel.
func ParsePrivacyLevel(value string) (PrivacyLevel, error) {
	for _, candidate := range validPrivacyLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid privacy level %q", value)
}
