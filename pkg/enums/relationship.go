package enums

import "fmt"

// RelationshipType links two persons. Parent is directional (person1 is the
// parent of person2); spouse and sibling are symmetric with arbitrary storage
// order.
type RelationshipType string

const (
	RelationshipParent  RelationshipType = "parent"
	RelationshipSpouse  RelationshipType = "spouse"
	RelationshipSibling RelationshipType = "sibling"
)

// legacyRelationshipChild is accepted on input for compatibility with older
// clients and normalized to a parent row with the endpoints swapped.
const legacyRelationshipChild = "child"

var validRelationshipTypes = []RelationshipType{
	RelationshipParent,
	RelationshipSpouse,
	RelationshipSibling,
}

// String implements fmt.Stringer.
func (r RelationshipType) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RelationshipType.
func (r RelationshipType) IsValid() bool {
	for _, candidate := range validRelationshipTypes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRelationshipType converts raw input into a RelationshipType. The second
// return value reports whether the legacy child alias was used, in which case
// the caller must swap the endpoints.
func ParseRelationshipType(value string) (RelationshipType, bool, error) {
	if value == legacyRelationshipChild {
		return RelationshipParent, true, nil
	}
	for _, candidate := range validRelationshipTypes {
		if string(candidate) == value {
			return candidate, false, nil
		}
	}
	return "", false, fmt.Errorf("invalid relationship type %q", value)
}
