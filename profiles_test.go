package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitea.kood.tech/martasalum/roomie-match/backend/match"
)

func samplePayload() *profilePayload {
	return &profilePayload{
		DisplayName:       "Marta",
		Age:               27,
		Occupation:        "designer",
		Locations:         []string{"Tallinn"},
		BudgetMin:         400,
		BudgetMax:         800,
		MoveInStart:       "2025-09-01",
		MoveInEnd:         "2025-10-15",
		HousingType:       "apartment",
		Cleanliness:       "very-tidy",
		CleaningFrequency: "weekly",
		Diet:              "vegetarian",
		Cooking:           "share",
		WorkLocation:      "hybrid",
		WorkSchedule:      "day",
		Hobbies:           []string{"hiking", "reading"},
		DesiredTraits:     []string{"tidy"},
		Gender:            "female",
		LeaseTerm:         "long",
	}
}

func TestPayloadToProfile(t *testing.T) {
	p, err := samplePayload().toProfile("user-1")
	require.NoError(t, err)

	assert.Equal(t, "user-1", p.ID)
	assert.Equal(t, match.BudgetRange{Min: 400, Max: 800}, p.Budget)
	require.NotNil(t, p.MoveIn)
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), p.MoveIn.Start)
	require.NotNil(t, p.MoveIn.End)
	assert.Equal(t, time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), *p.MoveIn.End)
	assert.Equal(t, match.DietVegetarian, p.Diet)
}

func TestPayloadToProfileBadDate(t *testing.T) {
	pp := samplePayload()
	pp.MoveInStart = "01/09/2025"
	_, err := pp.toProfile("user-1")
	require.Error(t, err)
}

func TestPayloadToProfileEndWithoutStart(t *testing.T) {
	pp := samplePayload()
	pp.MoveInStart = ""
	pp.MoveInEnd = "2025-10-15"
	_, err := pp.toProfile("user-1")
	require.Error(t, err)
}

func TestPayloadToProfileNoWindow(t *testing.T) {
	pp := samplePayload()
	pp.MoveInStart = ""
	pp.MoveInEnd = ""
	p, err := pp.toProfile("user-1")
	require.NoError(t, err)
	assert.Nil(t, p.MoveIn, "omitted dates mean no window at all")
}

func TestPayloadRoundTrip(t *testing.T) {
	want := samplePayload()
	p, err := want.toProfile("user-1")
	require.NoError(t, err)

	got := payloadFromProfile(p)
	assert.Equal(t, *want, got)
}
