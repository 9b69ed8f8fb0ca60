package crm

import "github.com/samber/lo"

// Filter categories, named by the wire names the view layer sends.
const (
	CategoryLastName       = "last_name"
	CategoryFirstName      = "first_name"
	CategoryContactNumber  = "contact_number"
	CategoryEmail          = "email"
	CategoryTags           = "tags"
	CategoryInterest       = "interest"
	CategoryHasInstruments = "hasInstruments"
)

// Categories lists the known filter categories in display order.
func Categories() []string {
	return []string{
		CategoryLastName,
		CategoryFirstName,
		CategoryContactNumber,
		CategoryEmail,
		CategoryTags,
		CategoryInterest,
		CategoryHasInstruments,
	}
}

// FilterState holds the selected values of every filter category. The seven
// known categories are closed struct fields; values toggled under any other
// name land in an overflow map at the boundary and never reach the predicate.
// FilterState is a value type: Change and ClearAll return fresh states and
// never mutate the receiver's slices.
type FilterState struct {
	LastName       []string `json:"last_name"`
	FirstName      []string `json:"first_name"`
	ContactNumber  []string `json:"contact_number"`
	Email          []string `json:"email"`
	Tags           []string `json:"tags"`
	Interest       []string `json:"interest"`
	HasInstruments []string `json:"hasInstruments"`

	extra map[string][]string
}

// Toggle removes value from values if present, preserving the order of the
// remainder, and appends it otherwise. The input slice is left untouched.
func Toggle(values []string, value string) []string {
	if lo.Contains(values, value) {
		return lo.Without(values, value)
	}
	out := make([]string, 0, len(values)+1)
	out = append(out, values...)
	return append(out, value)
}

// Change toggles value within the named category and returns the resulting
// state. Unknown category names are accepted and kept in the overflow map.
func (s FilterState) Change(category, value string) FilterState {
	switch category {
	case CategoryLastName:
		s.LastName = Toggle(s.LastName, value)
	case CategoryFirstName:
		s.FirstName = Toggle(s.FirstName, value)
	case CategoryContactNumber:
		s.ContactNumber = Toggle(s.ContactNumber, value)
	case CategoryEmail:
		s.Email = Toggle(s.Email, value)
	case CategoryTags:
		s.Tags = Toggle(s.Tags, value)
	case CategoryInterest:
		s.Interest = Toggle(s.Interest, value)
	case CategoryHasInstruments:
		s.HasInstruments = Toggle(s.HasInstruments, value)
	default:
		extra := make(map[string][]string, len(s.extra)+1)
		for k, v := range s.extra {
			extra[k] = v
		}
		extra[category] = Toggle(extra[category], value)
		s.extra = extra
	}
	return s
}

// Values returns the selected values of the named category.
func (s FilterState) Values(category string) []string {
	switch category {
	case CategoryLastName:
		return s.LastName
	case CategoryFirstName:
		return s.FirstName
	case CategoryContactNumber:
		return s.ContactNumber
	case CategoryEmail:
		return s.Email
	case CategoryTags:
		return s.Tags
	case CategoryInterest:
		return s.Interest
	case CategoryHasInstruments:
		return s.HasInstruments
	default:
		return s.extra[category]
	}
}

// Empty reports whether no value is selected in any known category.
func (s FilterState) Empty() bool {
	return len(s.LastName) == 0 &&
		len(s.FirstName) == 0 &&
		len(s.ContactNumber) == 0 &&
		len(s.Email) == 0 &&
		len(s.Tags) == 0 &&
		len(s.Interest) == 0 &&
		len(s.HasInstruments) == 0
}

// ClearAll returns a state with every category deselected.
func ClearAll() FilterState {
	return FilterState{}
}
