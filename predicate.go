package crm

import (
	"strings"

	"github.com/samber/lo"
)

// FilterClients returns the clients that pass the search term and every
// selected filter category, in their original order. owned may be nil, which
// behaves like an empty set: with the "has instruments" sentinel selected,
// nothing passes.
func FilterClients(clients []*Client, search string, filters FilterState, owned InstrumentSet) []*Client {
	return lo.Filter(clients, func(c *Client, _ int) bool {
		return Matches(c, search, filters, owned)
	})
}

// Matches reports whether a single client passes the search term and filter
// state. All constraints combine with AND.
func Matches(c *Client, search string, filters FilterState, owned InstrumentSet) bool {
	if !matchesSearch(c, search) {
		return false
	}

	if !matchesCategory(filters.LastName, c.LastName) ||
		!matchesCategory(filters.FirstName, c.FirstName) ||
		!matchesCategory(filters.ContactNumber, c.ContactNumber) ||
		!matchesCategory(filters.Email, c.Email) ||
		!matchesCategory(filters.Interest, c.Interest) {
		return false
	}

	if len(filters.Tags) > 0 && !lo.Some([]string(c.Tags), filters.Tags) {
		return false
	}

	// The ownership filter only binds when exactly one sentinel is selected.
	// Zero selections means no preference; both selected cancel out.
	if len(filters.HasInstruments) == 1 {
		switch filters.HasInstruments[0] {
		case HasInstruments:
			if !owned.Has(c.ID) {
				return false
			}
		case NoInstruments:
			if owned.Has(c.ID) {
				return false
			}
		}
	}

	return true
}

// matchesSearch runs a case-insensitive substring test across every
// searchable field. An empty term imposes no constraint; any other term,
// whitespace included, is matched literally. Nil fields contribute no match.
func matchesSearch(c *Client, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)

	fields := []*string{
		c.FirstName,
		c.LastName,
		c.ContactNumber,
		c.Email,
		c.Interest,
		c.Note,
		c.ClientNumber,
	}
	for _, field := range fields {
		if field != nil && strings.Contains(strings.ToLower(*field), needle) {
			return true
		}
	}

	for _, tag := range c.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// matchesCategory checks an exact-match category: with values selected, the
// field must equal one of them. A nil field compares as the empty string so
// that explicitly selecting "" matches records with the field unset.
func matchesCategory(selected []string, field *string) bool {
	if len(selected) == 0 {
		return true
	}
	return lo.Contains(selected, lo.FromPtr(field))
}
