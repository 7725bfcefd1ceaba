package reconcile

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sells-group/shopwindow/internal/model"
)

// CenterPatch carries the coerced values one source row supplies for a
// center. Nil fields were absent or unparseable on the row.
type CenterPatch struct {
	CenterType       *string
	AddressStreet    *string
	AddressCity      *string
	AddressState     *string
	AddressZip       *string
	County           *string
	Municipality     *string
	ZoningAuthority  *string
	Owner            *string
	PropertyManager  *string
	LeasingAgent     *string
	LeasingBrokerage *string
	TotalGLA         *int
	YearBuilt        *int
}

// TenantPatch carries the coerced values one source row supplies for a
// tenant.
type TenantPatch struct {
	SquareFootage   *int
	RetailCategory  *string
	OwnershipType   *string
	BaseRent        *decimal.Decimal
	LeaseTerm       *int
	LeaseCommence   *time.Time
	LeaseExpiration *time.Time
	CreditCategory  *string
}

// fill sets *dst from src only when dst is still empty and src has a
// value. Existing data always wins over later rows.
func fill[T any](dst **T, src *T) bool {
	if src == nil || *dst != nil {
		return false
	}
	*dst = src
	return true
}

// mergeCenter applies the fill-empty-only rule field by field and
// returns the names of the fields that changed.
func mergeCenter(c *model.Center, p CenterPatch) []string {
	fields := []struct {
		name  string
		apply func() bool
	}{
		{"center_type", func() bool { return fill(&c.CenterType, p.CenterType) }},
		{"address_street", func() bool { return fill(&c.AddressStreet, p.AddressStreet) }},
		{"address_city", func() bool { return fill(&c.AddressCity, p.AddressCity) }},
		{"address_state", func() bool { return fill(&c.AddressState, p.AddressState) }},
		{"address_zip", func() bool { return fill(&c.AddressZip, p.AddressZip) }},
		{"county", func() bool { return fill(&c.County, p.County) }},
		{"municipality", func() bool { return fill(&c.Municipality, p.Municipality) }},
		{"zoning_authority", func() bool { return fill(&c.ZoningAuthority, p.ZoningAuthority) }},
		{"owner", func() bool { return fill(&c.Owner, p.Owner) }},
		{"property_manager", func() bool { return fill(&c.PropertyManager, p.PropertyManager) }},
		{"leasing_agent", func() bool { return fill(&c.LeasingAgent, p.LeasingAgent) }},
		{"leasing_brokerage", func() bool { return fill(&c.LeasingBrokerage, p.LeasingBrokerage) }},
		{"total_gla", func() bool { return fill(&c.TotalGLA, p.TotalGLA) }},
		{"year_built", func() bool { return fill(&c.YearBuilt, p.YearBuilt) }},
	}

	var changed []string
	for _, f := range fields {
		if f.apply() {
			changed = append(changed, f.name)
		}
	}
	return changed
}

// mergeTenant applies the fill-empty-only rule field by field and
// returns the names of the fields that changed.
func mergeTenant(t *model.Tenant, p TenantPatch) []string {
	fields := []struct {
		name  string
		apply func() bool
	}{
		{"square_footage", func() bool { return fill(&t.SquareFootage, p.SquareFootage) }},
		{"retail_category", func() bool { return fill(&t.RetailCategory, p.RetailCategory) }},
		{"ownership_type", func() bool { return fill(&t.OwnershipType, p.OwnershipType) }},
		{"base_rent", func() bool { return fill(&t.BaseRent, p.BaseRent) }},
		{"lease_term", func() bool { return fill(&t.LeaseTerm, p.LeaseTerm) }},
		{"lease_commence", func() bool { return fill(&t.LeaseCommence, p.LeaseCommence) }},
		{"lease_expiration", func() bool { return fill(&t.LeaseExpiration, p.LeaseExpiration) }},
		{"credit_category", func() bool { return fill(&t.CreditCategory, p.CreditCategory) }},
	}

	var changed []string
	for _, f := range fields {
		if f.apply() {
			changed = append(changed, f.name)
		}
	}
	return changed
}
