package model

import "time"

// WeatherSample is one forecast point consumed by the solar calculator.
// Samples are produced by the weather layer and never mutated downstream.
type WeatherSample struct {
	Timestamp       time.Time `json:"timestamp"`
	Temperature     float64   `json:"temperature"`      // degrees Celsius
	CloudCover      float64   `json:"cloud_cover"`      // 0-100 %
	SolarIrradiance float64   `json:"solar_irradiance"` // W/m²
	WindSpeed       float64   `json:"wind_speed"`       // m/s
	Humidity        float64   `json:"humidity"`         // %
}

// Location identifies the site of the installation.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
