package weather

import "context"

// Conditions holds the current observation for a location.
type Conditions struct {
	Temperature         *float64 `json:"temperature"`
	ApparentTemperature *float64 `json:"apparent_temperature"`
	Humidity            *float64 `json:"humidity"`
	WeatherCode         int      `json:"weather_code"`
	WeatherDescription  string   `json:"weather_description"`
	WindSpeed           *float64 `json:"wind_speed"`
	WindDirection       *float64 `json:"wind_direction"`
	Pressure            *float64 `json:"pressure"`
}

// Report is the tool result handed back to the completion provider.
type Report struct {
	Location  string            `json:"location"`
	Current   Conditions        `json:"current"`
	Units     map[string]string `json:"units"`
	Timezone  string            `json:"timezone"`
	Timestamp string            `json:"timestamp"`
}

// Coordinates is a resolved place from the geocoding endpoint.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
	Country   string  `json:"country,omitempty"`
	Admin1    string  `json:"admin1,omitempty"`
	Timezone  string  `json:"timezone,omitempty"`
}

// Provider fetches live weather data.
type Provider interface {
	CurrentConditions(ctx context.Context, latitude, longitude float64, location *string) (*Report, error)
	Geocode(ctx context.Context, location string) (*Coordinates, error)
}
