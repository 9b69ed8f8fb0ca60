package crm

import (
	"strings"

	"golang.org/x/exp/slices"
)

type OrderDirection string

const (
	OrderDirectionAsc  OrderDirection = "ASC"
	OrderDirectionDesc OrderDirection = "DESC"
)

// Order names the primary sort field (wire name) and its direction. A zero
// Order sorts by first name ascending.
type Order struct {
	Field     string         `json:"field"`
	Direction OrderDirection `json:"direction"`
}

const (
	defaultOrderField  = CategoryFirstName
	tieBreakOrderField = CategoryLastName
)

// SortClients returns a sorted copy of clients; the input keeps its order.
// Values compare case-insensitively and nil always sorts last, in both
// directions. Equal primary keys fall through to last name under the same
// rules, and fully equal keys keep their original relative order.
func SortClients(clients []*Client, order Order) []*Client {
	field := order.Field
	if field == "" {
		field = defaultOrderField
	}
	desc := order.Direction == OrderDirectionDesc

	sorted := slices.Clone(clients)
	slices.SortStableFunc(sorted, func(a, b *Client) int {
		if c := compareField(a, b, field, desc); c != 0 {
			return c
		}
		return compareField(a, b, tieBreakOrderField, desc)
	})
	return sorted
}

// compareField orders two clients by one field. Direction flips comparisons
// between present values only; nil stays at the end either way.
func compareField(a, b *Client, field string, desc bool) int {
	av, bv := a.Field(field), b.Field(field)
	switch {
	case av == nil && bv == nil:
		return 0
	case av == nil:
		return 1
	case bv == nil:
		return -1
	}
	c := strings.Compare(strings.ToLower(*av), strings.ToLower(*bv))
	if desc {
		c = -c
	}
	return c
}
