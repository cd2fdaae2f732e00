package solar

import (
	"fmt"
	"math"

	"github.com/solhub/solarsched/core/model"
)

// nominal module area in m² assumed per panel
const panelAreaM2 = 2.0

// tempCoefficient is the efficiency loss per degree Celsius above 25°C.
const tempCoefficient = -0.004

// Config describes the photovoltaic installation.
type Config struct {
	PanelWattage float64        `json:"panel_wattage"` // W per panel
	PanelCount   int            `json:"panel_count"`
	Efficiency   float64        `json:"efficiency"` // 0-1
	TiltAngle    float64        `json:"tilt_angle"` // degrees from horizontal
	AzimuthAngle float64        `json:"azimuth_angle"` // degrees, 180 = south
	Location     model.Location `json:"location"`
}

// Validate checks the configuration ranges.
func (c Config) Validate() error {
	if c.PanelCount < 1 {
		return fmt.Errorf("panel_count must be at least 1")
	}
	if c.PanelWattage <= 0 {
		return fmt.Errorf("panel_wattage must be positive")
	}
	if c.Efficiency <= 0 || c.Efficiency > 1 {
		return fmt.Errorf("efficiency must be in (0,1]")
	}
	if c.TiltAngle < 0 || c.TiltAngle > 90 {
		return fmt.Errorf("tilt_angle must be between 0 and 90")
	}
	if c.AzimuthAngle < 0 || c.AzimuthAngle > 360 {
		return fmt.Errorf("azimuth_angle must be between 0 and 360")
	}
	if c.Location.Lat < -90 || c.Location.Lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	return nil
}

// NameplateKW returns the rated maximum output of the system in kW.
func (c Config) NameplateKW() float64 {
	return float64(c.PanelCount) * c.PanelWattage / 1000
}

// Calculator converts weather samples into PV output estimates.
type Calculator struct {
	cfg      Config
	latitude float64 // radians
}

// NewCalculator creates a Calculator for the given installation.
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg, latitude: radians(cfg.Location.Lat)}
}

// Config returns the installation configuration.
func (c *Calculator) Config() Config { return c.cfg }

// CalculateOutput estimates the instantaneous PV output in kW for one sample.
// The result is never negative: a sun position behind the panel or zero
// irradiance yields zero.
func (c *Calculator) CalculateOutput(sample model.WeatherSample) float64 {
	panelArea := float64(c.cfg.PanelCount) * panelAreaM2
	base := panelArea * c.cfg.Efficiency * sample.SolarIrradiance / 1000

	// Efficiency falls ~0.4% per degree above 25°C. Below 25°C the factor
	// exceeds 1 and is deliberately left uncapped.
	tempFactor := 1 + tempCoefficient*(sample.Temperature-25)

	out := base * tempFactor * c.angleFactor(sample.Timestamp.YearDay(), sample.Timestamp.Hour(), sample.Timestamp.Minute())
	return math.Max(0, out)
}

// angleFactor computes the cosine of the angle of incidence of direct sunlight
// on the tilted panel, clamped at zero when the sun is behind the panel plane.
func (c *Calculator) angleFactor(yearDay, hour, minute int) float64 {
	declination := radians(23.45 * math.Sin(radians(360*float64(284+yearDay)/365)))

	h := float64(hour) + float64(minute)/60
	hourAngle := radians(15 * (h - 12))

	elevation := math.Asin(
		math.Sin(declination)*math.Sin(c.latitude) +
			math.Cos(declination)*math.Cos(c.latitude)*math.Cos(hourAngle))

	azimuth := math.Atan2(
		math.Sin(hourAngle),
		math.Cos(hourAngle)*math.Sin(c.latitude)-
			math.Tan(declination)*math.Cos(c.latitude))

	panelTilt := radians(c.cfg.TiltAngle)
	panelAzimuth := radians(c.cfg.AzimuthAngle - 180)

	cosIncidence := math.Sin(elevation)*math.Cos(panelTilt) +
		math.Cos(elevation)*math.Sin(panelTilt)*math.Cos(azimuth-panelAzimuth)

	return math.Max(0, cosIncidence)
}

// CalculateDailyProduction maps CalculateOutput over a forecast, pairing each
// estimate with its source timestamp. The result preserves length and order.
func (c *Calculator) CalculateDailyProduction(forecast []model.WeatherSample) []model.ProductionPoint {
	schedule := make([]model.ProductionPoint, 0, len(forecast))
	for _, sample := range forecast {
		schedule = append(schedule, model.ProductionPoint{
			Timestamp: sample.Timestamp,
			OutputKW:  c.CalculateOutput(sample),
		})
	}
	return schedule
}

// ProductionCategories buckets each point relative to nameplate capacity:
// green at or above 70%, yellow at or above 30%, red below.
func (c *Calculator) ProductionCategories(schedule []model.ProductionPoint) []model.CategorizedPoint {
	capacity := c.cfg.NameplateKW()
	categories := make([]model.CategorizedPoint, 0, len(schedule))
	for _, p := range schedule {
		cat := model.CategoryRed
		switch {
		case p.OutputKW >= capacity*0.7:
			cat = model.CategoryGreen
		case p.OutputKW >= capacity*0.3:
			cat = model.CategoryYellow
		}
		categories = append(categories, model.CategorizedPoint{Timestamp: p.Timestamp, Category: cat})
	}
	return categories
}

// EstimateBatteryCharging returns the excess power available beyond the base
// household load at each point. The computation is purely pointwise, no state
// is carried between points.
func (c *Calculator) EstimateBatteryCharging(schedule []model.ProductionPoint, baseLoad float64) []model.ExcessPoint {
	excess := make([]model.ExcessPoint, 0, len(schedule))
	for _, p := range schedule {
		excess = append(excess, model.ExcessPoint{
			Timestamp: p.Timestamp,
			ExcessKW:  math.Max(0, p.OutputKW-baseLoad),
		})
	}
	return excess
}

// OptimalTimeWindows scans the schedule left to right for runs of points with
// output at or above minPower. A window is emitted as soon as its running
// length reaches durationHours, then the scan restarts: a long qualifying run
// yields back-to-back fixed-length windows rather than one long window.
func (c *Calculator) OptimalTimeWindows(schedule []model.ProductionPoint, minPower, durationHours float64) []model.TimeWindow {
	var windows []model.TimeWindow
	var start *model.ProductionPoint
	length := 0.0

	for i := range schedule {
		p := schedule[i]
		if p.OutputKW >= minPower {
			if start == nil {
				start = &schedule[i]
				length = 1
			} else {
				length++
			}
			if length >= durationHours {
				windows = append(windows, model.TimeWindow{Start: start.Timestamp, End: p.Timestamp})
				start = nil
				length = 0
			}
		} else {
			start = nil
			length = 0
		}
	}
	return windows
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
