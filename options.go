package crm

import (
	"github.com/sunfmin/reflectutils"
)

// FilterOptions carries the per-category value lists the filter widgets are
// populated from. Lists keep first-occurrence order; callers that want them
// alphabetical sort them on their side.
type FilterOptions struct {
	LastNames      []string `json:"last_names"`
	FirstNames     []string `json:"first_names"`
	ContactNumbers []string `json:"contact_numbers"`
	Emails         []string `json:"emails"`
	Interests      []string `json:"interests"`
	Tags           []string `json:"tags"`
}

// Options derives every category's option list from a client collection.
func Options(clients []*Client) *FilterOptions {
	return &FilterOptions{
		LastNames:      UniqueValues(clients, "LastName"),
		FirstNames:     UniqueValues(clients, "FirstName"),
		ContactNumbers: UniqueValues(clients, "ContactNumber"),
		Emails:         UniqueValues(clients, "Email"),
		Interests:      UniqueValues(clients, "Interest"),
		Tags:           UniqueTags(clients),
	}
}

// UniqueValues collects the distinct values of a scalar string field, named
// by its Go field name, in first-occurrence order. Nil pointers, unknown
// field names, and non-string fields contribute nothing. Case is preserved
// and significant.
func UniqueValues(clients []*Client, field string) []string {
	out := make([]string, 0, len(clients))
	seen := make(map[string]struct{}, len(clients))
	for _, c := range clients {
		raw, err := reflectutils.Get(c, field)
		if err != nil {
			continue
		}
		var value string
		switch v := raw.(type) {
		case *string:
			if v == nil {
				continue
			}
			value = *v
		case string:
			value = v
		default:
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

// UniqueTags flattens every client's tag list, treating a missing list as
// empty, and dedups in first-occurrence order.
func UniqueTags(clients []*Client) []string {
	out := make([]string, 0, len(TagVocabulary))
	seen := make(map[string]struct{}, len(TagVocabulary))
	for _, c := range clients {
		for _, tag := range c.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}
