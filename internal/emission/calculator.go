// Package emission converts a day's raw activity data into kgCO2e using
// fixed linear emission factors.
package emission

import "github.com/dmitrijs2005/carbontrack/internal/server/models"

const (
	// TransportFactor is kgCO2e per kilometre travelled, regardless of mode.
	TransportFactor = 0.21
	// ElectricityFactor is kgCO2e per watt-hour consumed.
	ElectricityFactor = 0.000233
	// WastageFactor is kgCO2e per kilogram of wet or dry waste.
	WastageFactor = 0.5
)

// Input is the raw activity data of one day.
type Input struct {
	Transportations []models.Transportation
	Wastages        []models.Wastage
	PrevWatts       float64
	TodayWatts      float64
}

// Breakdown holds the per-category contributions and their sum.
type Breakdown struct {
	Transport   float64
	Electricity float64
	Wastage     float64
	Total       float64
}

// Transport returns the summed leg distance times TransportFactor.
func Transport(legs []models.Transportation) float64 {
	km := 0.0
	for _, l := range legs {
		km += l.Distance
	}
	return km * TransportFactor
}

// Electricity returns the meter delta times ElectricityFactor. A reading
// lower than the previous one yields a negative contribution.
func Electricity(prevWatts, todayWatts float64) float64 {
	return (todayWatts - prevWatts) * ElectricityFactor
}

// Wastage returns the summed wet and dry waste times WastageFactor.
func Wastage(entries []models.Wastage) float64 {
	kg := 0.0
	for _, w := range entries {
		kg += w.WetWaste + w.DryWaste
	}
	return kg * WastageFactor
}

// Calculate computes every category and the total.
func Calculate(in Input) Breakdown {
	b := Breakdown{
		Transport:   Transport(in.Transportations),
		Electricity: Electricity(in.PrevWatts, in.TodayWatts),
		Wastage:     Wastage(in.Wastages),
	}
	b.Total = b.Transport + b.Electricity + b.Wastage
	return b
}

// Footprint is shorthand for Calculate(in).Total.
func Footprint(in Input) float64 {
	return Calculate(in).Total
}

// FromRecord rebuilds the calculator input from a stored record.
func FromRecord(r *models.CarbonRecord) Input {
	return Input{
		Transportations: r.Transportations,
		Wastages:        r.Wastages,
		PrevWatts:       r.PrevWatts,
		TodayWatts:      r.TodayWatts,
	}
}
