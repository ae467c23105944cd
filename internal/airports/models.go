package airports

import "errors"

// ErrUnknownAirport is returned when an IATA code is not in the directory.
// The API layer turns it into a user-facing validation error.
var ErrUnknownAirport = errors.New("unknown airport code")

// Airport is one directory entry. The csv tags match the iata-icao.csv
// seed file column headers.
type Airport struct {
	IATA      string  `csv:"iata" json:"iata"`
	ICAO      string  `csv:"icao" json:"icao"`
	Name      string  `csv:"airport" json:"name"`
	Latitude  float64 `csv:"latitude" json:"latitude"`
	Longitude float64 `csv:"longitude" json:"longitude"`
}
