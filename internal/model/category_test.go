package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryLookup(t *testing.T) {
	tests := []struct {
		category string
		want     MajorGroup
		mapped   bool
	}{
		{"Supermarket", GroupAnchorsMajors, true},
		{"Bookstore", GroupInlineRetail, true},
		{"Bank", GroupServices, true},
		{"bank", GroupServices, true},
		{"Vacant", GroupVacant, true},
		{"Quantum Computing Lab", GroupOtherNonRetail, false},
		{"", GroupOtherNonRetail, false},
	}
	for _, tt := range tests {
		got, ok := DefaultCategoryGroups.Lookup(tt.category)
		assert.Equal(t, tt.want, got, "category %q", tt.category)
		assert.Equal(t, tt.mapped, ok, "category %q", tt.category)
	}
}

func TestCategoryLookupCaseSensitive(t *testing.T) {
	// Only the exact source spellings are keys. "supermarket" is not a
	// recognized variant, unlike "bank".
	got, ok := DefaultCategoryGroups.Lookup("supermarket")
	assert.False(t, ok)
	assert.Equal(t, GroupOtherNonRetail, got)
}

func TestCategoryMapValues(t *testing.T) {
	valid := map[MajorGroup]bool{
		GroupAnchorsMajors:        true,
		GroupInlineRetail:         true,
		GroupFoodBeverage:         true,
		GroupServices:             true,
		GroupEntertainmentLeisure: true,
		GroupOtherNonRetail:       true,
		GroupSeasonalPopup:        true,
		GroupVacant:               true,
	}
	for category, group := range DefaultCategoryGroups {
		assert.True(t, valid[group], "category %q maps to unknown group %q", category, group)
	}
}
