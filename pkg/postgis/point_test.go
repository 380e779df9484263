package postgis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		want string
	}{
		{"2D", NewPoint(10.5, 20.25), "POINT(20.25 10.5)"},
		{"trailing zeros stripped", NewPoint(10.0, 20.0), "POINT(20 10)"},
		{"negative", NewPoint(-33.8688, -151.2093), "POINT(-151.2093 -33.8688)"},
		{"3D", NewPointZ(1.5, 2, 100), "POINT Z(2 1.5 100)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.WKT())
		})
	}
}

func TestEncodeShortcut(t *testing.T) {
	assert.Equal(t, "POINT(20.25 10.5)", Encode(10.5, 20.25, nil))
	alt := 3.0
	assert.Equal(t, "POINT Z(2 1 3)", Encode(1, 2, &alt))
}

func TestDecode(t *testing.T) {
	p, err := Decode("POINT(20.25 10.5)")
	require.NoError(t, err)
	assert.Equal(t, 10.5, p.Lat)
	assert.Equal(t, 20.25, p.Lng)
	assert.False(t, p.Is3D())

	p, err = Decode("POINT Z(2 1.5 100)")
	require.NoError(t, err)
	require.True(t, p.Is3D())
	assert.Equal(t, 100.0, *p.Alt)
	assert.Equal(t, []float64{2, 1.5, 100}, p.Coordinates())

	p, err = Decode("69.24 41.31")
	require.NoError(t, err)
	assert.Equal(t, 41.31, p.Lat)
}

func TestDecodeMalformed(t *testing.T) {
	for _, in := range []string{"", "POINT()", "POINT(1)", "POINT(1 2 3 4)", "POINT(1 2,5)"} {
		_, err := Decode(in)
		assert.Error(t, err, in)
	}
}

func TestRoundTrip(t *testing.T) {
	for lat := -90.0; lat <= 90; lat += 7.25 {
		for lng := -180.0; lng <= 180; lng += 11.125 {
			p, err := Decode(Encode(lat, lng, nil))
			require.NoError(t, err)
			assert.InDelta(t, lat, p.Lat, 1e-9)
			assert.InDelta(t, lng, p.Lng, 1e-9)
		}
	}
}
