package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowCovers_Boundaries(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC)

	composition := TeamCompositionWindow{StartDate: start, EndDate: end}
	selection := ProjectSelectionWindow{StartDate: start, EndDate: end}

	// Both bounds are inclusive.
	assert.True(t, composition.Covers(start))
	assert.True(t, composition.Covers(end))
	assert.True(t, composition.Covers(start.AddDate(0, 0, 7)))
	assert.False(t, composition.Covers(start.Add(-time.Second)))
	assert.False(t, composition.Covers(end.Add(time.Second)))

	assert.True(t, selection.Covers(start))
	assert.True(t, selection.Covers(end))
	assert.False(t, selection.Covers(end.AddDate(0, 0, 1)))
}
