/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

package limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseLimit(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    Limit
		wantErr bool
	}{
		{name: "short window", spec: "20:1", want: Limit{Max: 20, Interval: time.Second}},
		{name: "long window", spec: "100:120", want: Limit{Max: 100, Interval: 2 * time.Minute}},
		{name: "several pairs, first wins", spec: "2000:60,50000:600", want: Limit{Max: 2000, Interval: time.Minute}},
		{name: "spaces", spec: " 5 : 10 ", want: Limit{Max: 5, Interval: 10 * time.Second}},
		{name: "empty", spec: "", wantErr: true},
		{name: "no interval", spec: "20", wantErr: true},
		{name: "not a number", spec: "x:1", wantErr: true},
		{name: "zero max", spec: "0:1", wantErr: true},
		{name: "negative interval", spec: "10:-1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLimit(tt.spec)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidLimit)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLimit_String(t *testing.T) {
	require.Equal(t, "100:120", Limit{Max: 100, Interval: 120 * time.Second}.String())
	require.Equal(t, "20:1", MustParseLimit("20:1").String())
}

func TestLimit_MinSpacing(t *testing.T) {
	require.Equal(t, 60*time.Millisecond, MustParseLimit("20:1").MinSpacing(1.2))
	// 120000ms / 100 * 1.2 = 1440ms
	require.Equal(t, 1440*time.Millisecond, MustParseLimit("100:120").MinSpacing(1.2))
	// 1000ms / 3 = 333.33.. is rounded up.
	require.Equal(t, 334*time.Millisecond, MustParseLimit("3:1").MinSpacing(1))
	require.Zero(t, MustParseLimit("20:1").MinSpacing(0))
}
