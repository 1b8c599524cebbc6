package watering

import (
	"github.com/yanqian/watermate/internal/domain/solar"
)

// PlantLightProfile holds the light needs and watering ceiling of a species.
type PlantLightProfile struct {
	Species         string  `json:"species" yaml:"species"`
	BaseDailyHours  float64 `json:"baseDailyHours" yaml:"baseDailyHours"`
	MaxIntervalDays int     `json:"maxIntervalDays" yaml:"maxIntervalDays"`
}

// ProfileInput lets a caller supply the light profile inline instead of
// naming a catalogued species.
type ProfileInput struct {
	BaseDailyHours  float64 `json:"baseDailyHours"`
	MaxIntervalDays int     `json:"maxIntervalDays"`
}

// PlanRequest captures one plant whose watering interval should be recomputed.
type PlanRequest struct {
	PlantID         string              `json:"plantId,omitempty"`
	Species         string              `json:"species,omitempty"`
	Profile         *ProfileInput       `json:"profile,omitempty"`
	Location        solar.GeoCoordinate `json:"location"`
	Timezone        string              `json:"timezone,omitempty"`
	UTCOffset       *float64            `json:"utcOffset,omitempty"`
	Orientation     solar.Orientation   `json:"orientation"`
	CurrentInterval int                 `json:"currentInterval"`
	LastWaterDate   string              `json:"lastWaterDate,omitempty"`
	ManualMode      bool                `json:"manualMode,omitempty"`
}

// PlanResponse is serialized back to API consumers.
type PlanResponse struct {
	PlantID         string        `json:"plantId,omitempty"`
	Species         string        `json:"species,omitempty"`
	Orientation     string        `json:"orientation"`
	ManualMode      bool          `json:"manualMode"`
	CurrentInterval int           `json:"currentInterval"`
	NewInterval     int           `json:"newInterval"`
	LastWaterDate   string        `json:"lastWaterDate"`
	NextWaterDate   string        `json:"nextWaterDate"`
	BaseHours       float64       `json:"baseHours"`
	AverageHours    float64       `json:"averageHours"`
	DeviationHours  float64       `json:"deviationHours"`
	Adjustment      int           `json:"adjustment"`
	Forecast        []DayExposure `json:"forecast,omitempty"`
}

// DayExposure is the wire form of one forecast day. Event times are RFC3339
// in the plant's local offset and empty for artificial light.
type DayExposure struct {
	Date      string  `json:"date"`
	Hours     float64 `json:"hours"`
	Sunrise   string  `json:"sunrise,omitempty"`
	SolarNoon string  `json:"solarNoon,omitempty"`
	Sunset    string  `json:"sunset,omitempty"`
	DayLength string  `json:"dayLength,omitempty"`
}

// BatchRequest groups independent plan requests.
type BatchRequest struct {
	Plans []PlanRequest `json:"plans"`
}

// BatchResponse reports one item per request, in request order.
type BatchResponse struct {
	Results   []BatchItem `json:"results"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// BatchItem carries either a plan or the error that stopped it.
type BatchItem struct {
	Index int           `json:"index"`
	Plan  *PlanResponse `json:"plan,omitempty"`
	Error *ItemError    `json:"error,omitempty"`
}

// ItemError mirrors the HTTP error body for a single batch entry.
type ItemError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ForecastQuery asks for the exposure forecast alone.
type ForecastQuery struct {
	Location    solar.GeoCoordinate `json:"location"`
	Timezone    string              `json:"timezone,omitempty"`
	UTCOffset   *float64            `json:"utcOffset,omitempty"`
	Orientation solar.Orientation   `json:"orientation"`
	StartDate   string              `json:"startDate,omitempty"`
	Days        int                 `json:"days"`
}

// ForecastResponse lists the modeled exposure of each day after StartDate.
type ForecastResponse struct {
	Orientation  string        `json:"orientation"`
	Hemisphere   string        `json:"hemisphere"`
	StartDate    string        `json:"startDate"`
	AverageHours float64       `json:"averageHours"`
	Days         []DayExposure `json:"days"`
}

// Config wires runtime settings for the watering domain.
type Config struct {
	ArtificialDailyHours float64
	BatchConcurrency     int
	MaxBatchSize         int
	MaxForecastDays      int
}
