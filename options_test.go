package crm_test

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	crm "github.com/hcviolins/crm"
)

func TestUniqueValues(t *testing.T) {
	clients := []*crm.Client{
		{LastName: lo.ToPtr("Kim")},
		{LastName: lo.ToPtr("Kim")},
		{LastName: nil},
		{LastName: lo.ToPtr("Lee")},
	}
	require.Equal(t, []string{"Kim", "Lee"}, crm.UniqueValues(clients, "LastName"))
}

func TestUniqueValuesFirstOccurrenceOrder(t *testing.T) {
	clients := []*crm.Client{
		{FirstName: lo.ToPtr("Zoe")},
		{FirstName: lo.ToPtr("Amy")},
		{FirstName: lo.ToPtr("Zoe")},
		{FirstName: lo.ToPtr("Ben")},
	}
	// no sorting: first occurrence wins
	require.Equal(t, []string{"Zoe", "Amy", "Ben"}, crm.UniqueValues(clients, "FirstName"))
}

func TestUniqueValuesCasePreserved(t *testing.T) {
	clients := []*crm.Client{
		{LastName: lo.ToPtr("Smith")},
		{LastName: lo.ToPtr("smith")},
	}
	require.Equal(t, []string{"Smith", "smith"}, crm.UniqueValues(clients, "LastName"))
}

func TestUniqueValuesEdgeCases(t *testing.T) {
	require.Empty(t, crm.UniqueValues(nil, "LastName"))
	require.Empty(t, crm.UniqueValues([]*crm.Client{{}, {}}, "LastName"))
	require.Empty(t, crm.UniqueValues([]*crm.Client{{LastName: lo.ToPtr("Kim")}}, "NoSuchField"))
	// Tags is not a scalar field
	require.Empty(t, crm.UniqueValues([]*crm.Client{{Tags: []string{crm.TagOwner}}}, "Tags"))
}

func TestUniqueTags(t *testing.T) {
	clients := []*crm.Client{
		{Tags: []string{crm.TagOwner, crm.TagMusician}},
		{Tags: nil},
		{Tags: []string{crm.TagMusician, crm.TagDealer}},
	}
	require.Equal(t, []string{crm.TagOwner, crm.TagMusician, crm.TagDealer}, crm.UniqueTags(clients))
	require.Empty(t, crm.UniqueTags(nil))
}

func TestOptions(t *testing.T) {
	clients := []*crm.Client{
		{
			FirstName: lo.ToPtr("Alice"),
			LastName:  lo.ToPtr("Kim"),
			Email:     lo.ToPtr("alice@example.com"),
			Interest:  lo.ToPtr(crm.InterestActive),
			Tags:      []string{crm.TagOwner},
		},
		{
			FirstName: lo.ToPtr("Bob"),
			LastName:  lo.ToPtr("Kim"),
			Interest:  lo.ToPtr(crm.InterestActive),
		},
	}

	opts := crm.Options(clients)
	require.Equal(t, []string{"Alice", "Bob"}, opts.FirstNames)
	require.Equal(t, []string{"Kim"}, opts.LastNames)
	require.Equal(t, []string{"alice@example.com"}, opts.Emails)
	require.Equal(t, []string{crm.InterestActive}, opts.Interests)
	require.Equal(t, []string{crm.TagOwner}, opts.Tags)
	require.Empty(t, opts.ContactNumbers)
}
