package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tenant is one unit inside a center. Identity is the composite
// (CenterID, Name, Suite); Suite is the empty string when the source
// row named no suite, which keeps the composite unique across rows
// that omit it.
type Tenant struct {
	ID       int64
	CenterID int64
	Name     string
	Suite    string

	SquareFootage  *int
	RetailCategory *string
	MajorGroup     MajorGroup
	OwnershipType  *string

	// BaseRent is annual dollars per square foot, the CRE convention.
	BaseRent        *decimal.Decimal
	LeaseTerm       *int
	LeaseCommence   *time.Time
	LeaseExpiration *time.Time
	CreditCategory  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AnnualRent is base rent times square footage, nil when either input
// is missing or footage is zero.
func (t *Tenant) AnnualRent() *decimal.Decimal {
	if t.BaseRent == nil || t.SquareFootage == nil || *t.SquareFootage == 0 {
		return nil
	}
	v := t.BaseRent.Mul(decimal.NewFromInt(int64(*t.SquareFootage)))
	return &v
}

func (t *Tenant) MonthlyRent() *decimal.Decimal {
	annual := t.AnnualRent()
	if annual == nil {
		return nil
	}
	v := annual.Div(decimal.NewFromInt(12)).Round(2)
	return &v
}

// LeaseStatus classifies the lease relative to now: Unknown without an
// expiration date, Expired when past, Expiring Soon within a year.
func (t *Tenant) LeaseStatus(now time.Time) string {
	if t.LeaseExpiration == nil {
		return "Unknown"
	}
	switch exp := *t.LeaseExpiration; {
	case exp.Before(now):
		return "Expired"
	case !exp.After(now.AddDate(1, 0, 0)):
		return "Expiring Soon"
	default:
		return "Active"
	}
}

func (t *Tenant) IsVacant() bool {
	return t.Name == "Vacant" || t.MajorGroup == GroupVacant
}
