package wx

// Observation is one hourly weather record: a mapping of weather attribute
// names (temp, preciptype, icon, stations, ...) to their raw values as
// returned by the timeline API.
type Observation map[string]any

// timelineResponse is the timeline API response, reduced to what we read
type timelineResponse struct {
	Days []struct {
		Hours []Observation `json:"hours"`
	} `json:"days"`
}
