// Package model holds the domain records shared by the store, the
// reconciliation engine, and the CLI.
package model

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Center is a shopping center property. Optional attributes are
// pointers so an absent value is distinguishable from a zero one.
type Center struct {
	ID      int64
	Name    string
	NameKey string

	CenterType      *string
	AddressStreet   *string
	AddressCity     *string
	AddressState    *string
	AddressZip      *string
	County          *string
	Municipality    *string
	ZoningAuthority *string

	Owner            *string
	PropertyManager  *string
	LeasingAgent     *string
	LeasingBrokerage *string

	TotalGLA  *int
	YearBuilt *int

	Latitude  *float64
	Longitude *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeName computes the uniqueness key for a center name: NFKC
// folded, lowercased, with runs of whitespace collapsed to one space.
// "Oak Ridge Mall" and "  oak  ridge  MALL " key identically.
func NormalizeName(name string) string {
	folded := norm.NFKC.String(name)
	return strings.ToLower(strings.Join(strings.Fields(folded), " "))
}

func (c *Center) HasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// FullAddress joins the populated address components with commas, for
// display and for geocoding requests.
func (c *Center) FullAddress() string {
	var parts []string
	for _, p := range []*string{c.AddressStreet, c.AddressCity, c.AddressState, c.AddressZip} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	return strings.Join(parts, ", ")
}
