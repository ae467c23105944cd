package route

// Waypoint is a named geographic point along a flight route. Waypoint order
// is the intended flight path and is significant for segment distances.
type Waypoint struct {
	Ident string  `json:"ident"`
	Name  string  `json:"name"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// Route is an ordered waypoint sequence plus the plan's cruise speed.
// Immutable once fetched for a given airport pair.
type Route struct {
	Waypoints      []Waypoint `json:"waypoints"`
	CruiseSpeedKts int        `json:"cruise_speed_kts"`
}

// planSummary is one entry of the plan search response
type planSummary struct {
	ID int64 `json:"id"`
}

// planDetail is the plan fetch response, reduced to the fields we read
type planDetail struct {
	Notes string `json:"notes"`
	Route struct {
		Nodes []planNode `json:"nodes"`
	} `json:"route"`
}

// planNode is one node of the plan's route
type planNode struct {
	Ident string  `json:"ident"`
	Name  string  `json:"name"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}
