//go:build !integration

package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sells-group/shopwindow/internal/model"
)

func TestFormatCentersList(t *testing.T) {
	city := "Atlanta"
	gla := 152000
	lat, lng := 33.78, -84.38

	centers := []model.Center{
		{ID: 1, Name: "Oak Ridge Mall", AddressCity: &city, TotalGLA: &gla, Latitude: &lat, Longitude: &lng},
		{ID: 2, Name: "Elm Street Shops"},
	}

	var buf bytes.Buffer
	formatCentersList(&buf, centers)

	out := buf.String()
	assert.Contains(t, out, "Oak Ridge Mall")
	assert.Contains(t, out, "Atlanta")
	assert.Contains(t, out, "152000")
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, "Elm Street Shops")
	assert.Contains(t, out, "no")
	assert.Contains(t, out, "-") // absent city renders as a dash
}

func TestFormatTenantsList(t *testing.T) {
	sqft := 1800
	rent := decimal.NewFromFloat(24.5)
	exp := time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC)

	tenants := []model.Tenant{
		{Name: "Starbucks", Suite: "101", SquareFootage: &sqft, MajorGroup: model.GroupFoodBeverage, BaseRent: &rent, LeaseExpiration: &exp},
		{Name: "Vacant", MajorGroup: model.GroupVacant},
	}

	var buf bytes.Buffer
	formatTenantsList(&buf, tenants)

	out := buf.String()
	assert.Contains(t, out, "Starbucks")
	assert.Contains(t, out, "101")
	assert.Contains(t, out, "24.50")
	assert.Contains(t, out, "food_beverage")
	assert.Contains(t, out, "2027-06-30")
	assert.Contains(t, out, "Vacant")
}
