package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmazzini/ecoponto/internal/models"
)

func TestDecodeWeekSchedule_FallbackOnBadInput(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"null literal", "null"},
		{"truncated json", `{"monday":{"enabled":true,`},
		{"wrong type", `[1,2,3]`},
		{"plain text", "seg a sex, 8h as 18h"},
	}

	want := models.DefaultWeekSchedule()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := models.DecodeWeekSchedule(tc.input)
			assert.Equal(t, want, got)
		})
	}
}

func TestDecodeWeekSchedule_AllDaysDisabledByDefault(t *testing.T) {
	for i, day := range models.DefaultWeekSchedule().Days() {
		assert.False(t, day.Enabled, "day %d should be disabled", i)
	}
}

func TestWeekSchedule_RoundTrip(t *testing.T) {
	ws := models.DefaultWeekSchedule()
	ws.Monday = models.DaySchedule{Enabled: true, Open: "09:00", Close: "17:30"}
	ws.Saturday = models.DaySchedule{Enabled: true, Open: "08:00", Close: "12:00"}

	encoded := ws.Encode()
	require.NotEmpty(t, encoded)

	decoded := models.DecodeWeekSchedule(encoded)
	assert.Equal(t, ws, decoded)
}

func TestDecodeWeekSchedule_PartialJSON(t *testing.T) {
	// A partial document decodes without error; absent days stay disabled.
	got := models.DecodeWeekSchedule(`{"friday":{"enabled":true,"open":"10:00","close":"16:00"}}`)

	assert.True(t, got.Friday.Enabled)
	assert.Equal(t, "10:00", got.Friday.Open)
	assert.False(t, got.Monday.Enabled)
}
