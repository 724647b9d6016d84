package calendar

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferWindows(t *testing.T) {
	cases := map[string]bool{
		"2025-01-01": true,
		"2025-01-31": true,
		"2025-02-01": false,
		"2025-06-30": false,
		"2025-07-01": true,
		"2025-08-31": true,
		"2025-09-02": true,
		"2025-09-03": false,
		"2025-12-31": false,
	}
	for s, want := range cases {
		assert.Equal(t, want, InTransferWindow(MustParse(s)), s)
	}
}

func TestDateArithmetic(t *testing.T) {
	d := MustParse("2025-02-27")
	assert.Equal(t, "2025-03-01", d.AddDays(2).String())
	assert.Equal(t, 2, d.DaysUntil(d.AddDays(2)))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.OnOrBefore(d))
	assert.Equal(t, "2025-02", d.MonthKey())
}

func TestDateJSONRoundTrip(t *testing.T) {
	type wrapper struct {
		When Date `json:"when"`
	}
	in := wrapper{When: MustParse("2026-07-15")}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"when":"2026-07-15"}`, string(b))

	var out wrapper
	require.NoError(t, json.Unmarshal(b, &out))
	assert.True(t, in.When.Equal(out.When))
}
