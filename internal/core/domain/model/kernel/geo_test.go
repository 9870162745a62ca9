package kernel_test

import (
	"testing"

	"fleetops/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	t.Run("creates point with valid coordinates", func(t *testing.T) {
		p, err := kernel.NewGeoPoint(23.3441, 85.3096, 120)

		require.NoError(t, err)
		assert.NoError(t, p.Validate())
		assert.InDelta(t, 23.3441, p.Latitude(), 1e-9)
		assert.InDelta(t, 85.3096, p.Longitude(), 1e-9)
		assert.InDelta(t, 120.0, p.Altitude(), 1e-9)
	})

	t.Run("accepts boundary coordinates", func(t *testing.T) {
		tests := []struct {
			name     string
			lat, lon float64
		}{
			{"north pole", 90, 0},
			{"south pole", -90, 0},
			{"date line east", 0, 180},
			{"date line west", 0, -180},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := kernel.NewGeoPoint(tt.lat, tt.lon, 0)
				require.NoError(t, err)
			})
		}
	})

	t.Run("rejects out-of-range coordinates", func(t *testing.T) {
		tests := []struct {
			name     string
			lat, lon float64
		}{
			{"latitude too high", 90.0001, 0},
			{"latitude too low", -90.0001, 0},
			{"longitude too high", 0, 180.0001},
			{"longitude too low", 0, -180.0001},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := kernel.NewGeoPoint(tt.lat, tt.lon, 0)
				require.Error(t, err)
			})
		}
	})
}

func TestGeoPoint_Validate(t *testing.T) {
	t.Run("zero value is invalid", func(t *testing.T) {
		var p kernel.GeoPoint

		err := p.Validate()

		require.Error(t, err)
		assert.Equal(t, kernel.ErrGeoPointIsNotConstructed, err)
	})
}

func TestGeoPoint_DistanceKm(t *testing.T) {
	t.Run("zero distance to itself", func(t *testing.T) {
		p, err := kernel.NewGeoPoint(23.3441, 85.3096, 0)
		require.NoError(t, err)

		d, err := p.DistanceKm(p)
		require.NoError(t, err)
		assert.InDelta(t, 0, d, 1e-9)
	})

	t.Run("known distance Ranchi to Jamshedpur", func(t *testing.T) {
		ranchi, err := kernel.NewGeoPoint(23.3441, 85.3096, 0)
		require.NoError(t, err)
		jamshedpur, err := kernel.NewGeoPoint(22.8046, 86.2029, 0)
		require.NoError(t, err)

		d, err := ranchi.DistanceKm(jamshedpur)
		require.NoError(t, err)

		// Great-circle distance is roughly 110 km.
		assert.InDelta(t, 110, d, 5)
	})

	t.Run("distance is symmetric", func(t *testing.T) {
		a, err := kernel.NewGeoPoint(10, 20, 0)
		require.NoError(t, err)
		b, err := kernel.NewGeoPoint(11, 21, 0)
		require.NoError(t, err)

		ab, err := a.DistanceKm(b)
		require.NoError(t, err)
		ba, err := b.DistanceKm(a)
		require.NoError(t, err)

		assert.InDelta(t, ab, ba, 1e-9)
	})

	t.Run("unconstructed point fails", func(t *testing.T) {
		var zero kernel.GeoPoint
		p, err := kernel.NewGeoPoint(1, 1, 0)
		require.NoError(t, err)

		_, err = p.DistanceKm(zero)
		require.Error(t, err)
	})
}

func TestGeoPoint_DisplacementMeters(t *testing.T) {
	t.Run("small offset is meters-scale", func(t *testing.T) {
		a, err := kernel.NewGeoPoint(23.3540, 85.3350, 50)
		require.NoError(t, err)
		// Roughly 111 meters north.
		b, err := kernel.NewGeoPoint(23.3550, 85.3350, 50)
		require.NoError(t, err)

		m, err := a.DisplacementMeters(b)
		require.NoError(t, err)
		assert.InDelta(t, 111, m, 3)
	})
}
