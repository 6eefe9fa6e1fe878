package weather

import (
	"context"
	"fmt"

	"resty.dev/v3"

	"menloresearch/meteobot-server/internal/domain/weather"
	"menloresearch/meteobot-server/internal/utils/platformerrors"
)

// currentFields are the observation fields requested from open-meteo.
const currentFields = "temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,wind_speed_10m,wind_direction_10m,pressure_msl"

// OpenMeteoClient implements weather.Provider against the open-meteo API.
type OpenMeteoClient struct {
	client       *resty.Client
	baseURL      string
	geocodingURL string
	retry        RetryConfig
}

var _ weather.Provider = (*OpenMeteoClient)(nil)

func NewOpenMeteoClient(client *resty.Client, baseURL, geocodingURL string) *OpenMeteoClient {
	return &OpenMeteoClient{
		client:       client,
		baseURL:      baseURL,
		geocodingURL: geocodingURL,
		retry:        DefaultRetryConfig(),
	}
}

type forecastResponse struct {
	Timezone     string            `json:"timezone"`
	CurrentUnits map[string]string `json:"current_units"`
	Current      struct {
		Time                string   `json:"time"`
		Temperature2m       *float64 `json:"temperature_2m"`
		RelativeHumidity2m  *float64 `json:"relative_humidity_2m"`
		ApparentTemperature *float64 `json:"apparent_temperature"`
		WeatherCode         int      `json:"weather_code"`
		WindSpeed10m        *float64 `json:"wind_speed_10m"`
		WindDirection10m    *float64 `json:"wind_direction_10m"`
		PressureMsl         *float64 `json:"pressure_msl"`
	} `json:"current"`
}

type geocodingResponse struct {
	Results []struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Name      string  `json:"name"`
		Country   string  `json:"country"`
		Admin1    string  `json:"admin1"`
		Timezone  string  `json:"timezone"`
	} `json:"results"`
}

// CurrentConditions implements weather.Provider.
func (c *OpenMeteoClient) CurrentConditions(ctx context.Context, latitude, longitude float64, location *string) (*weather.Report, error) {
	body, err := WithRetry(ctx, c.retry, "open_meteo_forecast", func() (*forecastResponse, error) {
		var payload forecastResponse
		resp, err := c.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"latitude":  fmt.Sprintf("%v", latitude),
				"longitude": fmt.Sprintf("%v", longitude),
				"current":   currentFields,
				"timezone":  "auto",
			}).
			SetResult(&payload).
			Get(c.baseURL + "/v1/forecast")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("weather API request failed: %d", resp.StatusCode())
		}
		return &payload, nil
	})
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"failed to fetch weather data", err, "b91f3a7e-0d64-4f1b-8c2a-5e7d9b3f6a12")
	}

	reportLocation := fmt.Sprintf("Lat: %v, Lon: %v", latitude, longitude)
	if location != nil && *location != "" {
		reportLocation = *location
	}

	return &weather.Report{
		Location: reportLocation,
		Current: weather.Conditions{
			Temperature:         body.Current.Temperature2m,
			ApparentTemperature: body.Current.ApparentTemperature,
			Humidity:            body.Current.RelativeHumidity2m,
			WeatherCode:         body.Current.WeatherCode,
			WeatherDescription:  DescribeWeatherCode(body.Current.WeatherCode),
			WindSpeed:           body.Current.WindSpeed10m,
			WindDirection:       body.Current.WindDirection10m,
			Pressure:            body.Current.PressureMsl,
		},
		Units:     body.CurrentUnits,
		Timezone:  body.Timezone,
		Timestamp: body.Current.Time,
	}, nil
}

// Geocode implements weather.Provider. It resolves a place name to
// coordinates using the open-meteo geocoding endpoint.
func (c *OpenMeteoClient) Geocode(ctx context.Context, location string) (*weather.Coordinates, error) {
	body, err := WithRetry(ctx, c.retry, "open_meteo_geocode", func() (*geocodingResponse, error) {
		var payload geocodingResponse
		resp, err := c.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"name":     location,
				"count":    "1",
				"language": "es",
				"format":   "json",
			}).
			SetResult(&payload).
			Get(c.geocodingURL + "/v1/search")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("geocoding API request failed: %d", resp.StatusCode())
		}
		return &payload, nil
	})
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"failed to resolve location", err, "d40c2b8f-1e5a-4c7d-9f3b-6a8e0d2c4b17")
	}

	if len(body.Results) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("location not found: %s", location), nil, "52e7d1a9-3b6f-4e8c-a0d4-9c1b5f7e2d38")
	}

	result := body.Results[0]
	return &weather.Coordinates{
		Latitude:  result.Latitude,
		Longitude: result.Longitude,
		Name:      result.Name,
		Country:   result.Country,
		Admin1:    result.Admin1,
		Timezone:  result.Timezone,
	}, nil
}
