package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Protocol-Lattice/planagent/src/tooldef"
)

const (
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	DefaultForecastURL  = "https://api.open-meteo.com/v1/forecast"
)

const weatherDoc = `
Fetches weather data (temperature and description) for a specific date and city.

Parameters:
    - city: City name (e.g., "Tokyo")
    - date: Date in YYYY-MM-DD format (e.g., "2025-04-20")
`

// weatherCodes maps WMO weather interpretation codes to text.
var weatherCodes = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	56: "Light freezing drizzle",
	57: "Dense freezing drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	66: "Light freezing rain",
	67: "Heavy freezing rain",
	71: "Slight snow fall",
	73: "Moderate snow fall",
	75: "Heavy snow fall",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

// WeatherCondition describes a WMO weather code.
func WeatherCondition(code int) string {
	if desc, ok := weatherCodes[code]; ok {
		return desc
	}
	return fmt.Sprintf("Unknown condition (code %d)", code)
}

// WeatherService looks up daily forecasts on open-meteo.
type WeatherService struct {
	GeocodingURL string
	ForecastURL  string
	Client       *http.Client
}

type geocodingResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Country   string  `json:"country"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

type forecastResponse struct {
	Daily *struct {
		Time        []string  `json:"time"`
		TempMax     []float64 `json:"temperature_2m_max"`
		TempMin     []float64 `json:"temperature_2m_min"`
		WeatherCode []int     `json:"weathercode"`
	} `json:"daily"`
}

// Tool exposes the service as get_weather_by_city_and_date.
func (w *WeatherService) Tool() (*tooldef.Tool, error) {
	return tooldef.New(w.lookup,
		tooldef.WithName("get_weather_by_city_and_date"),
		tooldef.WithDoc(weatherDoc),
		tooldef.WithParams(
			tooldef.Param("city", tooldef.String),
			tooldef.Param("date", tooldef.String),
		),
	)
}

func (w *WeatherService) lookup(ctx context.Context, args tooldef.Args) string {
	city, _ := args.String("city")
	date, _ := args.String("date")
	return w.Forecast(ctx, strings.TrimSpace(city), strings.TrimSpace(date))
}

// Forecast returns a short multi-line report for city on date (YYYY-MM-DD).
func (w *WeatherService) Forecast(ctx context.Context, city, date string) string {
	if city == "" {
		return "Error: city is required."
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return fmt.Sprintf("Error: date %q is not in YYYY-MM-DD format.", date)
	}
	client := defaultClient(w.Client)

	geoURL := endpoint(w.GeocodingURL, DefaultGeocodingURL) + "?" + url.Values{
		"name":  {city},
		"count": {"1"},
	}.Encode()
	var geo geocodingResponse
	if err := getJSON(ctx, client, geoURL, &geo); err != nil {
		return fmt.Sprintf("Error fetching weather data: %v", err)
	}
	if len(geo.Results) == 0 {
		return fmt.Sprintf("Error: Could not find location for '%s'.", city)
	}
	place := geo.Results[0]

	forecastURL := endpoint(w.ForecastURL, DefaultForecastURL) + "?" + url.Values{
		"latitude":   {formatNumber(place.Latitude)},
		"longitude":  {formatNumber(place.Longitude)},
		"daily":      {"temperature_2m_max,temperature_2m_min,weathercode"},
		"start_date": {date},
		"end_date":   {date},
		"timezone":   {"auto"},
	}.Encode()
	var forecast forecastResponse
	if err := getJSON(ctx, client, forecastURL, &forecast); err != nil {
		return fmt.Sprintf("Error fetching weather data: %v", err)
	}

	notFound := fmt.Sprintf("No weather data found for %s in %s, %s.", date, place.Name, place.Country)
	if forecast.Daily == nil {
		return notFound
	}
	day := -1
	for i, d := range forecast.Daily.Time {
		if d == date {
			day = i
			break
		}
	}
	daily := forecast.Daily
	if day < 0 || day >= len(daily.TempMax) || day >= len(daily.TempMin) || day >= len(daily.WeatherCode) {
		return notFound
	}

	return fmt.Sprintf("Weather in %s, %s on %s:\n - Max Temp: %s°C\n - Min Temp: %s°C\n - Condition: %s",
		place.Name, place.Country, date,
		formatNumber(daily.TempMax[day]),
		formatNumber(daily.TempMin[day]),
		WeatherCondition(daily.WeatherCode[day]),
	)
}

func endpoint(configured, fallback string) string {
	if s := strings.TrimSpace(configured); s != "" {
		return s
	}
	return fallback
}
