package coerce

import (
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	tests := []struct {
		in   string
		want string
		nil_ bool
	}{
		{"  Shops at Elm  ", "Shops at Elm", false},
		{"", "", true},
		{"   ", "", true},
		{".", "", true},
		{"-", "", true},
		{"NaN", "", true},
		{"None", "", true},
		{"null", "", true},
		{"0", "0", false},
	}
	for _, tt := range tests {
		got := Text(tt.in)
		if tt.nil_ {
			assert.Nil(t, got, "input %q", tt.in)
			continue
		}
		require.NotNil(t, got, "input %q", tt.in)
		assert.Equal(t, tt.want, *got)
	}
}

func TestInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
		nil_ bool
	}{
		{"152000", 152000, false},
		{"152,000", 152000, false},
		{"152000.0", 152000, false},
		{"1,250.75", 1250, false},
		{"-40", -40, false},
		{"abc", 0, true},
		{"", 0, true},
		{"nan", 0, true},
	}
	for _, tt := range tests {
		got := Int(tt.in)
		if tt.nil_ {
			assert.Nil(t, got, "input %q", tt.in)
			continue
		}
		require.NotNil(t, got, "input %q", tt.in)
		assert.Equal(t, tt.want, *got)
	}
}

func TestMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
		nil_ bool
	}{
		{"$24.50", "24.5", false},
		{"1,250.00", "1250", false},
		{"$1,250,000", "1250000", false},
		{"18", "18", false},
		{"-5.00", "-5", false},
		{"$-5.00", "-5", false},
		{"free", "", true},
		{"", "", true},
		{"-", "", true},
		{".", "", true},
	}
	for _, tt := range tests {
		got := Money(tt.in)
		if tt.nil_ {
			assert.Nil(t, got, "input %q", tt.in)
			continue
		}
		require.NotNil(t, got, "input %q", tt.in)
		want, err := decimal.NewFromString(tt.want)
		require.NoError(t, err)
		assert.True(t, got.Equal(want), "input %q: got %s", tt.in, got)
	}
}

func TestYear(t *testing.T) {
	maxYear := time.Now().Year() + 5

	tests := []struct {
		in   string
		want int
		nil_ bool
	}{
		{"1987", 1987, false},
		{"1987.0", 1987, false},
		{"1800", 1800, false},
		{"1799", 0, true},
		{"99", 0, true},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		got := Year(tt.in)
		if tt.nil_ {
			assert.Nil(t, got, "input %q", tt.in)
			continue
		}
		require.NotNil(t, got, "input %q", tt.in)
		assert.Equal(t, tt.want, *got)
	}

	upper := Year(strconv.Itoa(maxYear))
	require.NotNil(t, upper)
	assert.Equal(t, maxYear, *upper)
	assert.Nil(t, Year(strconv.Itoa(maxYear+1)))
}

func TestZip(t *testing.T) {
	tests := []struct {
		in   string
		want string
		nil_ bool
	}{
		{"30309", "30309", false},
		{"30309.0", "30309", false},
		{"30309-1234", "", true},
		{"303091234", "30309", false},
		{"ATL", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got := Zip(tt.in)
		if tt.nil_ {
			assert.Nil(t, got, "input %q", tt.in)
			continue
		}
		require.NotNil(t, got, "input %q", tt.in)
		assert.Equal(t, tt.want, *got)
	}
}

func TestDate(t *testing.T) {
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	for _, in := range []string{"2024-03-15", "3/15/2024", "03/15/2024", "3-15-2024", "03-15-2024"} {
		got := Date(in)
		require.NotNil(t, got, "input %q", in)
		assert.True(t, got.Equal(want), "input %q: got %s", in, got)
	}

	for _, in := range []string{"", "yesterday", "15/03/2024", "2024.03.15"} {
		assert.Nil(t, Date(in), "input %q", in)
	}
}
