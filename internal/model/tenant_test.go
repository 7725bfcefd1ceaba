package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnualRent(t *testing.T) {
	rent := decimal.NewFromFloat(24.50)
	sqft := 2000

	tn := &Tenant{BaseRent: &rent, SquareFootage: &sqft}
	got := tn.AnnualRent()
	require.NotNil(t, got)
	assert.True(t, got.Equal(decimal.NewFromInt(49000)), "got %s", got)

	assert.Nil(t, (&Tenant{BaseRent: &rent}).AnnualRent())
	assert.Nil(t, (&Tenant{SquareFootage: &sqft}).AnnualRent())

	zero := 0
	assert.Nil(t, (&Tenant{BaseRent: &rent, SquareFootage: &zero}).AnnualRent())
}

func TestMonthlyRent(t *testing.T) {
	rent := decimal.NewFromInt(25)
	sqft := 1000

	tn := &Tenant{BaseRent: &rent, SquareFootage: &sqft}
	got := tn.MonthlyRent()
	require.NotNil(t, got)
	// 25000 / 12 rounded to cents
	assert.True(t, got.Equal(decimal.NewFromFloat(2083.33)), "got %s", got)

	assert.Nil(t, (&Tenant{}).MonthlyRent())
}

func TestLeaseStatus(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	date := func(y, m, d int) *time.Time {
		v := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
		return &v
	}

	tests := []struct {
		name string
		exp  *time.Time
		want string
	}{
		{"no expiration", nil, "Unknown"},
		{"past", date(2025, 12, 31), "Expired"},
		{"within a year", date(2026, 9, 1), "Expiring Soon"},
		{"exactly a year out", date(2027, 6, 1), "Expiring Soon"},
		{"beyond a year", date(2027, 6, 2), "Active"},
	}
	for _, tt := range tests {
		tn := &Tenant{LeaseExpiration: tt.exp}
		assert.Equal(t, tt.want, tn.LeaseStatus(now), tt.name)
	}
}

func TestIsVacant(t *testing.T) {
	assert.True(t, (&Tenant{Name: "Vacant"}).IsVacant())
	assert.True(t, (&Tenant{Name: "Suite 104", MajorGroup: GroupVacant}).IsVacant())
	assert.False(t, (&Tenant{Name: "Starbucks", MajorGroup: GroupFoodBeverage}).IsVacant())
}
