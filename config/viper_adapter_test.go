/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestViperAdapter(t *testing.T) {
	va := NewViperAdapter()
	require.NoError(t, va.SetFromReader(bytes.NewBufferString(`
riot:
  showWarn: false
  edgeCaseFixValue: 1.5
  gate:
    backend: Redis
  endpointLimits:
    "match.*": "250:10"
  limits:
    - region: na1
      max: 3
`), DataTypeYAML))

	showWarn, err := va.GetBool("riot.showWarn")
	require.NoError(t, err)
	require.False(t, showWarn)

	factor, err := va.GetFloat64("riot.edgeCaseFixValue")
	require.NoError(t, err)
	require.Equal(t, 1.5, factor)

	backend, err := va.GetStringFromSet("riot.gate.backend", []string{"redis", "tokenbucket"}, true)
	require.NoError(t, err)
	require.Equal(t, "Redis", backend)

	_, err = va.GetStringFromSet("riot.gate.backend", []string{"tokenbucket"}, false)
	require.ErrorContains(t, err, `riot.gate.backend: unknown value "Redis"`)

	overrides, err := va.GetStringMapString("riot.endpointLimits")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"match.*": "250:10"}, overrides)

	missing, err := va.GetStringMapString("riot.missing")
	require.NoError(t, err)
	require.Empty(t, missing)

	var limits []struct {
		Region string
		Max    int
	}
	require.NoError(t, va.UnmarshalKey("riot.limits", &limits, WithWeaklyTypedInput()))
	require.Len(t, limits, 1)
	require.Equal(t, "na1", limits[0].Region)
	require.Equal(t, 3, limits[0].Max)

	_, err = va.GetInt("riot.gate.backend")
	require.ErrorContains(t, err, "riot.gate.backend")

	kp := NewKeyPrefixedDataProvider(va, "riot.gate")
	require.True(t, kp.IsSet("backend"))
	require.Equal(t, "Redis", kp.Get("backend"))
}

func TestViperAdapter_GetByteSize(t *testing.T) {
	tests := []struct {
		val     interface{}
		want    ByteSize
		wantErr bool
	}{
		{val: "1024", want: 1024},
		{val: "10M", want: 10 * 1024 * 1024},
		{val: "1Gi", want: 1024 * 1024 * 1024},
		{val: 2048, want: 2048},
		{val: 512.0, want: 512},
		{val: -1, wantErr: true},
		{val: "ten", wantErr: true},
		{val: []string{"1"}, wantErr: true},
	}
	for _, tt := range tests {
		va := NewViperAdapter()
		va.Set("size", tt.val)
		got, err := va.GetByteSize("size")
		if tt.wantErr {
			require.Error(t, err, "value %v", tt.val)
			continue
		}
		require.NoError(t, err, "value %v", tt.val)
		require.Equal(t, tt.want, got, "value %v", tt.val)
	}
}

func TestByteSize_Text(t *testing.T) {
	var b ByteSize
	require.NoError(t, b.UnmarshalText([]byte("250M")))
	require.Equal(t, ByteSize(250*1024*1024), b)
	text, err := b.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "250M", string(text))
	require.Error(t, b.UnmarshalText([]byte("-5")))
}
