package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courieragent/internal/core/domain/model/kernel"
	"courieragent/internal/pkg/errs"
)

func TestNewGeoPoint(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lng     float64
		wantErr bool
	}{
		{
			name:    "valid point",
			lat:     52.52,
			lng:     13.405,
			wantErr: false,
		},
		{
			name:    "valid point at min bounds",
			lat:     kernel.LatitudeMin,
			lng:     kernel.LongitudeMin,
			wantErr: false,
		},
		{
			name:    "valid point at max bounds",
			lat:     kernel.LatitudeMax,
			lng:     kernel.LongitudeMax,
			wantErr: false,
		},
		{
			name:    "latitude too small",
			lat:     -90.01,
			lng:     0,
			wantErr: true,
		},
		{
			name:    "latitude too large",
			lat:     90.01,
			lng:     0,
			wantErr: true,
		},
		{
			name:    "longitude too small",
			lat:     0,
			lng:     -180.5,
			wantErr: true,
		},
		{
			name:    "longitude too large",
			lat:     0,
			lng:     180.5,
			wantErr: true,
		},
		{
			name:    "both coordinates invalid",
			lat:     -91,
			lng:     181,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			point, err := kernel.NewGeoPoint(tt.lat, tt.lng)

			if tt.wantErr {
				assert.Error(t, err)
				require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
				return
			}

			require.NoError(t, err)
			assert.NoError(t, point.Validate())
			assert.InDelta(t, tt.lat, point.Latitude(), 0.000001)
			assert.InDelta(t, tt.lng, point.Longitude(), 0.000001)
		})
	}
}

func TestGeoPoint_Validate(t *testing.T) {
	t.Run("zero value fails validation", func(t *testing.T) {
		var point kernel.GeoPoint

		err := point.Validate()

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("constructed point passes validation", func(t *testing.T) {
		point, err := kernel.NewGeoPoint(10, 20)

		require.NoError(t, err)
		assert.NoError(t, point.Validate())
	})
}

func TestGeoPoint_IsEqual(t *testing.T) {
	t.Run("equal coordinates are equal", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(52.52, 13.405)
		b, _ := kernel.NewGeoPoint(52.52, 13.405)

		assert.True(t, a.IsEqual(b))
	})

	t.Run("different coordinates are not equal", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(52.52, 13.405)
		b, _ := kernel.NewGeoPoint(52.52, 13.406)

		assert.False(t, a.IsEqual(b))
	})
}

func TestGeoPoint_DistanceTo(t *testing.T) {
	t.Run("distance to self is zero", func(t *testing.T) {
		point, _ := kernel.NewGeoPoint(48.8566, 2.3522)

		meters, err := point.DistanceTo(point)

		require.NoError(t, err)
		assert.InDelta(t, 0, meters, 0.001)
	})

	t.Run("known city pair", func(t *testing.T) {
		// Paris -> London is roughly 344 km great-circle.
		paris, _ := kernel.NewGeoPoint(48.8566, 2.3522)
		london, _ := kernel.NewGeoPoint(51.5074, -0.1278)

		meters, err := paris.DistanceTo(london)

		require.NoError(t, err)
		assert.InDelta(t, 343500, meters, 2500)
	})

	t.Run("small displacement resolves below filter threshold", func(t *testing.T) {
		// ~0.0001 degrees of latitude is about 11 meters.
		a, _ := kernel.NewGeoPoint(52.5200, 13.4050)
		b, _ := kernel.NewGeoPoint(52.5201, 13.4050)

		meters, err := a.DistanceTo(b)

		require.NoError(t, err)
		assert.Less(t, meters, 50.0)
		assert.Greater(t, meters, 5.0)
	})

	t.Run("unconstructed point fails", func(t *testing.T) {
		var zero kernel.GeoPoint
		point, _ := kernel.NewGeoPoint(1, 1)

		_, err := point.DistanceTo(zero)

		assert.Error(t, err)
	})
}

func TestGeoPoint_String(t *testing.T) {
	t.Run("formats with six decimal places", func(t *testing.T) {
		point, _ := kernel.NewGeoPoint(52.52, 13.405)

		assert.Equal(t, "GeoPoint(52.520000,13.405000)", point.String())
	})
}
