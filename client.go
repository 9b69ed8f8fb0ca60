package crm

import (
	"time"

	"gorm.io/datatypes"
)

// Tag vocabulary. The UI only ever offers these five labels, but nothing in
// the pipeline rejects values outside the list.
const (
	TagOwner     = "Owner"
	TagMusician  = "Musician"
	TagDealer    = "Dealer"
	TagCollector = "Collector"
	TagOther     = "Other"
)

// TagVocabulary lists the offered tags in display order.
var TagVocabulary = []string{TagOwner, TagMusician, TagDealer, TagCollector, TagOther}

// Interest levels.
const (
	InterestActive   = "Active"
	InterestPassive  = "Passive"
	InterestInactive = "Inactive"
)

// Sentinel values for the instrument-ownership filter category.
const (
	HasInstruments = "Has Instruments"
	NoInstruments  = "No Instruments"
)

// Client is a dealer contact. All text fields are nullable; a nil pointer
// and a missing value are the same thing.
type Client struct {
	ID            string                      `gorm:"primaryKey" json:"id"`
	FirstName     *string                     `json:"first_name"`
	LastName      *string                     `json:"last_name"`
	ContactNumber *string                     `json:"contact_number"`
	Email         *string                     `json:"email"`
	Note          *string                     `json:"note"`
	ClientNumber  *string                     `json:"client_number"`
	Tags          datatypes.JSONSlice[string] `json:"tags"`
	Interest      *string                     `json:"interest"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// Field returns the scalar string field named by its wire name, or nil for
// unknown names. Tags are a list and are not addressable through here.
func (c *Client) Field(name string) *string {
	switch name {
	case "first_name":
		return c.FirstName
	case "last_name":
		return c.LastName
	case "contact_number":
		return c.ContactNumber
	case "email":
		return c.Email
	case "note":
		return c.Note
	case "client_number":
		return c.ClientNumber
	case "interest":
		return c.Interest
	default:
		return nil
	}
}

// InstrumentSet is the set of client IDs that own at least one instrument.
type InstrumentSet map[string]struct{}

func NewInstrumentSet(ids ...string) InstrumentSet {
	set := make(InstrumentSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s InstrumentSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}
