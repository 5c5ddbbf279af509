package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	coords Coordinates
	err    error
}

func (f fakeDevice) CurrentCoordinates(ctx context.Context) (Coordinates, error) {
	if f.err != nil {
		return Coordinates{}, f.err
	}
	return f.coords, nil
}

func newTestGeocoder(t *testing.T, handler http.Handler) *Geocoder {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewGeocoder(server.URL, 5*time.Second)
}

func TestResolveCurrentLocation(t *testing.T) {
	geocoder := newTestGeocoder(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/reverse", r.URL.Path)
		w.Write([]byte(`{"address":{"city":"Bengaluru","state":"Karnataka"}}`))
	}))

	resolver := NewResolver(geocoder, fakeDevice{coords: Coordinates{Lat: 12.9716, Long: 77.5946}})

	loc, err := resolver.ResolveCurrentLocation(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Bengaluru", loc.Locality)
	assert.Equal(t, 12.9716, loc.Coords.Lat)
}

func TestResolveCurrentLocation_PermissionDenied(t *testing.T) {
	geocoder := newTestGeocoder(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no geocode call should happen without coordinates")
	}))

	resolver := NewResolver(geocoder, fakeDevice{err: ErrPermissionDenied})

	loc, err := resolver.ResolveCurrentLocation(context.Background())

	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Nil(t, loc)
}

func TestResolveCurrentLocation_NoLocalityFallsBack(t *testing.T) {
	geocoder := newTestGeocoder(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"address":{}}`))
	}))

	resolver := NewResolver(geocoder, fakeDevice{coords: Coordinates{Lat: 1, Long: 2}})

	loc, err := resolver.ResolveCurrentLocation(context.Background())

	require.NoError(t, err)
	assert.Equal(t, UnknownLocation, loc.Locality)
}

func TestResolveCurrentLocation_ReverseFailureKeepsCoordinates(t *testing.T) {
	geocoder := newTestGeocoder(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	resolver := NewResolver(geocoder, fakeDevice{coords: Coordinates{Lat: 12.9716, Long: 77.5946}})

	loc, err := resolver.ResolveCurrentLocation(context.Background())

	require.NoError(t, err)
	assert.Equal(t, UnknownLocation, loc.Locality)
	assert.Equal(t, 77.5946, loc.Coords.Long)
}

func TestResolveFromPostalCode_Validation(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"too short", "56001"},
		{"too long", "5600011"},
		{"non numeric", "56O001"},
		{"decimal point", "12.345"},
		{"negative sign", "-12345"},
		{"positive sign", "+12345"},
		{"empty", ""},
	}

	geocoder := newTestGeocoder(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid postal codes must never reach the geocoder")
	}))
	resolver := NewResolver(geocoder, fakeDevice{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := resolver.ResolveFromPostalCode(context.Background(), tt.code)

			assert.ErrorIs(t, err, ErrInvalidPostalCode)
			assert.Nil(t, loc)
		})
	}
}

func TestResolveFromPostalCode_SingleForwardCall(t *testing.T) {
	var forwardCalls int32
	geocoder := newTestGeocoder(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			atomic.AddInt32(&forwardCalls, 1)
			assert.Equal(t, "560001", r.URL.Query().Get("postalcode"))
			w.Write([]byte(`[{"lat":"12.9716","lon":"77.5946","display_name":"Bengaluru"}]`))
		case "/reverse":
			w.Write([]byte(`{"address":{"city":"Bengaluru"}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	resolver := NewResolver(geocoder, fakeDevice{})

	loc, err := resolver.ResolveFromPostalCode(context.Background(), "560001")

	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&forwardCalls))
	assert.Equal(t, 12.9716, loc.Coords.Lat)
	assert.Equal(t, "Bengaluru", loc.Locality)
}

func TestResolveFromPostalCode_NoResults(t *testing.T) {
	geocoder := newTestGeocoder(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))

	resolver := NewResolver(geocoder, fakeDevice{})

	loc, err := resolver.ResolveFromPostalCode(context.Background(), "999999")

	assert.ErrorIs(t, err, ErrNoResults)
	assert.Nil(t, loc)
}
