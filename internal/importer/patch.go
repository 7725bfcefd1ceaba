package importer

import (
	"strings"

	"github.com/sells-group/shopwindow/internal/coerce"
	"github.com/sells-group/shopwindow/internal/reconcile"
)

// buildRow coerces a source row into the typed form the engine takes.
func buildRow(r Row) reconcile.Row {
	v := func(col string) string { return r.Values[col] }

	return reconcile.Row{
		CenterName: strings.TrimSpace(v(colCenterName)),
		Center: reconcile.CenterPatch{
			CenterType:       coerce.Text(v("center_type")),
			AddressStreet:    coerce.Text(v("address_street")),
			AddressCity:      coerce.Text(v("address_city")),
			AddressState:     coerce.Text(v("address_state")),
			AddressZip:       coerce.Zip(v("address_zip")),
			County:           coerce.Text(v("county")),
			Municipality:     coerce.Text(v("municipality")),
			ZoningAuthority:  coerce.Text(v("zoning_authority")),
			Owner:            coerce.Text(v("owner")),
			PropertyManager:  coerce.Text(v("property_manager")),
			LeasingAgent:     coerce.Text(v("leasing_agent")),
			LeasingBrokerage: coerce.Text(v("leasing_brokerage")),
			TotalGLA:         coerce.Int(v("total_gla")),
			YearBuilt:        coerce.Year(v("year_built")),
		},
		TenantName:  strings.TrimSpace(v(colTenantName)),
		TenantSuite: strings.TrimSpace(v(colSuite)),
		Tenant: reconcile.TenantPatch{
			SquareFootage:   coerce.Int(v("square_footage")),
			RetailCategory:  coerce.Text(v("retail_category")),
			OwnershipType:   coerce.Text(v("ownership_type")),
			BaseRent:        coerce.Money(v("base_rent")),
			LeaseTerm:       coerce.Int(v("lease_term")),
			LeaseCommence:   coerce.Date(v("lease_commence")),
			LeaseExpiration: coerce.Date(v("lease_expiration")),
			CreditCategory:  coerce.Text(v("credit_category")),
		},
	}
}
