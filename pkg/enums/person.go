package enums

import "fmt"

// Gender is the recorded gender of a person row.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

var validGenders = []Gender{
	GenderMale,
	GenderFemale,
	GenderUnknown,
}

// String implements fmt.Stringer.
func (g Gender) String() string {
	return string(g)
}

// IsValid reports whether the value is a known Gender.
func (g Gender) IsValid() bool {
	for _, candidate := range validGenders {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGender converts raw input into a Gender.
func ParseGender(value string) (Gender, error) {
	for _, candidate := range validGenders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid gender %q", value)
}

// EventType classifies a person life event.
type EventType string

const (
	EventTypeBirth     EventType = "birth"
	EventTypeDeath     EventType = "death"
	EventTypeMarriage  EventType = "marriage"
	EventTypeEducation EventType = "education"
	EventTypeCareer    EventType = "career"
	EventTypeOther     EventType = "other"
)

var validEventTypes = []EventType{
	EventTypeBirth,
	EventTypeDeath,
	EventTypeMarriage,
	EventTypeEducation,
	EventTypeCareer,
	EventTypeOther,
}

// String implements fmt.Stringer.
func (e EventType) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EventType.
func (e EventType) IsValid() bool {
	for _, candidate := range validEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEventType converts raw input into an EventType.
func ParseEventType(value string) (EventType, error) {
	for _, candidate := range validEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
