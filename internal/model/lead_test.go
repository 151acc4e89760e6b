package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBrowserUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected string
	}{
		{"plain string", `"Chrome"`, "Chrome"},
		{"structured object", `{"name":"Firefox","version":"120"}`, "Firefox"},
		{"object without name", `{"version":"120"}`, ""},
		{"unexpected shape", `[1,2]`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Browser
			require.NoError(t, b.UnmarshalJSON([]byte(tt.payload)))
			require.Equal(t, tt.expected, b.Raw)
		})
	}
}

func TestBrowserName_UnknownFallback(t *testing.T) {
	require.Equal(t, UnknownLabel, Browser{}.Name())
	require.Equal(t, "Safari", Browser{Raw: "Safari"}.Name())
}

func TestLocationLabel(t *testing.T) {
	require.Equal(t, UnknownLabel, (*Location)(nil).Label())
	require.Equal(t, UnknownLabel, (&Location{Region: "Norte"}).Label())
	require.Equal(t, "Porto", (&Location{City: "Porto"}).Label())
	require.Equal(t, "Porto, Norte", (&Location{City: "Porto", Region: "Norte"}).Label())
}

func TestLeadFilterWithDefaults(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	filter := LeadFilter{}.WithDefaults(now)

	require.Equal(t, now, filter.To)
	require.Equal(t, now.AddDate(0, 0, -DefaultRangeDays), filter.From)
}

func TestLeadFilterWithDefaults_KeepsExplicitRange(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	filter := LeadFilter{From: from, To: to}.WithDefaults(now)

	require.Equal(t, from, filter.From)
	require.Equal(t, to, filter.To)
}

// A zero client id must survive JSON round-trips as a real value,
// distinct from an absent one.
func TestLeadRequestZeroClientID(t *testing.T) {
	var withZero LeadRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"n","phone":"p","client_id":0,"source":"s","timestamp":1}`), &withZero))
	require.NotNil(t, withZero.ClientID)
	require.Zero(t, *withZero.ClientID)

	var without LeadRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"n","phone":"p","source":"s","timestamp":1}`), &without))
	require.Nil(t, without.ClientID)
}
