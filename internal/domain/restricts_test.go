package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRestricts_OrderAndValues(t *testing.T) {
	record := &ProductRecord{
		Season:      "summer",
		Brand:       "Acme",
		Category:    "tops",
		Color:       "red",
		Subcategory: "t-shirts",
		Occasion:    "everyday",
	}

	restricts := BuildRestricts(record)

	require.Len(t, restricts, 6)
	expected := []CategoricalRestrict{
		{Namespace: "category", AllowList: []string{"tops"}},
		{Namespace: "subcategory", AllowList: []string{"t-shirts"}},
		{Namespace: "brand", AllowList: []string{"Acme"}},
		{Namespace: "color", AllowList: []string{"red"}},
		{Namespace: "occasion", AllowList: []string{"everyday"}},
		{Namespace: "season", AllowList: []string{"summer"}},
	}
	assert.Equal(t, expected, restricts)
}

func TestBuildRestricts_SkipsEmptyFields(t *testing.T) {
	record := &ProductRecord{
		Category: "tops",
		Color:    "red",
	}

	restricts := BuildRestricts(record)

	require.Len(t, restricts, 2)
	assert.Equal(t, "category", restricts[0].Namespace)
	assert.Equal(t, "color", restricts[1].Namespace)
}

func TestBuildRestricts_EmptyRecordGivesEmptyNonNilSlice(t *testing.T) {
	restricts := BuildRestricts(&ProductRecord{})

	require.NotNil(t, restricts)
	assert.Empty(t, restricts)
}

func TestBuildNumericRestricts(t *testing.T) {
	price := 49.99
	rating := 4.5
	record := &ProductRecord{Price: &price, Rating: &rating}

	numeric := BuildNumericRestricts(record)

	require.Len(t, numeric, 2)
	assert.Equal(t, NumericRestrict{Namespace: "price", ValueDouble: 49.99}, numeric[0])
	assert.Equal(t, NumericRestrict{Namespace: "rating", ValueDouble: 4.5}, numeric[1])
}

func TestBuildNumericRestricts_SkipsMissingValues(t *testing.T) {
	rating := 4.5
	record := &ProductRecord{Rating: &rating}

	numeric := BuildNumericRestricts(record)

	require.Len(t, numeric, 1)
	assert.Equal(t, "rating", numeric[0].Namespace)
}

func TestBuildNumericRestricts_TreatsZeroAsMissing(t *testing.T) {
	zero := 0.0
	record := &ProductRecord{Price: &zero, Rating: &zero}

	numeric := BuildNumericRestricts(record)

	require.NotNil(t, numeric)
	assert.Empty(t, numeric)
}
