package geo

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/souravsatyam/gymapp/internal/logger"
)

// UnknownLocation is what the user sees when a response carries no usable
// locality.
const UnknownLocation = "Unknown location"

var (
	ErrPermissionDenied  = errors.New("location permission denied")
	ErrNoResults         = errors.New("no geocoding results")
	ErrInvalidPostalCode = errors.New("postal code must be exactly 6 digits")
)

// LocationProvider abstracts the device location service. It returns
// ErrPermissionDenied when the user has not granted access; callers then
// fall back to an unfiltered gym fetch.
type LocationProvider interface {
	CurrentCoordinates(ctx context.Context) (Coordinates, error)
}

// ResolvedLocation pairs coordinates with the human-readable locality the
// directory header shows.
type ResolvedLocation struct {
	Coords   Coordinates
	Locality string
}

// Resolver resolves the user's position either from the device or from a
// typed postal code.
type Resolver struct {
	geocoder *Geocoder
	device   LocationProvider
	validate *validator.Validate
}

func NewResolver(geocoder *Geocoder, device LocationProvider) *Resolver {
	return &Resolver{
		geocoder: geocoder,
		device:   device,
		validate: validator.New(),
	}
}

// ResolveCurrentLocation takes one coordinate snapshot from the device and
// reverse-geocodes it. A reverse-geocode failure still returns usable
// coordinates, with the locality downgraded to UnknownLocation; only a
// missing device fix is an error.
func (r *Resolver) ResolveCurrentLocation(ctx context.Context) (*ResolvedLocation, error) {
	coords, err := r.device.CurrentCoordinates(ctx)
	if err != nil {
		if errors.Is(err, ErrPermissionDenied) {
			return nil, ErrPermissionDenied
		}
		return nil, err
	}

	locality, err := r.geocoder.ReverseGeocode(ctx, coords)
	if err != nil {
		logger.Errorf("Reverse geocode failed for (%f, %f): %v", coords.Lat, coords.Long, err)
		locality = UnknownLocation
	}

	return &ResolvedLocation{Coords: coords, Locality: locality}, nil
}

// ResolveFromPostalCode validates the code (exactly 6 digits; "number"
// rejects signs and decimal points, "numeric" does not), forward-geocodes it
// once, then reverse-geocodes the result for the display locality.
// Validation failures are surfaced, never swallowed.
func (r *Resolver) ResolveFromPostalCode(ctx context.Context, code string) (*ResolvedLocation, error) {
	if err := r.validate.Var(code, "required,len=6,number"); err != nil {
		return nil, ErrInvalidPostalCode
	}

	coords, err := r.geocoder.ForwardGeocode(ctx, code)
	if err != nil {
		return nil, err
	}

	locality, err := r.geocoder.ReverseGeocode(ctx, coords)
	if err != nil {
		logger.Errorf("Reverse geocode failed for pincode %s: %v", code, err)
		locality = UnknownLocation
	}

	return &ResolvedLocation{Coords: coords, Locality: locality}, nil
}
