// README: Common identifier and coordinate value types used across modules.
package types

// ID is an opaque identifier assigned by the remote Flagg API.
type ID string

// Coordinate is a geographic point plus the human-readable address resolved
// for it. The address is derived asynchronously by reverse geocoding and may
// lag the numeric fields; it is replaced wholesale, never edited in place.
type Coordinate struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// IsZero reports whether both numeric fields are at their default. The
// address is ignored on purpose: a coordinate with a stale or empty address
// is still a usable point.
func (c Coordinate) IsZero() bool {
	return c.Lat == 0 && c.Lng == 0
}

// WithAddress returns a copy of c with the address replaced.
func (c Coordinate) WithAddress(addr string) Coordinate {
	c.Address = addr
	return c
}
