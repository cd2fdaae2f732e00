package schedule

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/solhub/solarsched/core/model"
)

// DefaultSlotCapacityKW is the shared power ceiling per hourly slot across all
// scheduled appliances.
const DefaultSlotCapacityKW = 10.0

// DefaultBaseLoadKW is the assumed constant household load.
const DefaultBaseLoadKW = 2.0

// DefaultElectricityRate is the grid price in currency per kWh used for
// savings estimates.
const DefaultElectricityRate = 0.12

// peak solar hours attracting the flexibility bonus, inclusive
const (
	peakHourStart = 10
	peakHourEnd   = 16
)

// Scheduler places appliances into a production schedule.
type Scheduler struct {
	appliances      []model.Appliance
	BaseLoad        float64
	ElectricityRate float64
	SlotCapacityKW  float64
}

// NewScheduler creates a Scheduler for the given appliance list with default
// base load, electricity rate and slot capacity.
func NewScheduler(appliances []model.Appliance) *Scheduler {
	return &Scheduler{
		appliances:      appliances,
		BaseLoad:        DefaultBaseLoadKW,
		ElectricityRate: DefaultElectricityRate,
		SlotCapacityKW:  DefaultSlotCapacityKW,
	}
}

// Appliances returns the configured appliance list.
func (s *Scheduler) Appliances() []model.Appliance { return s.appliances }

// slotLedger tracks the power already committed per slot during one
// optimization pass. It is scoped to a single OptimizeSchedule call.
type slotLedger map[time.Time]float64

func (l slotLedger) committed(t time.Time) float64 { return l[t] }

func (l slotLedger) commit(item model.ScheduleItem) {
	for t := item.StartTime; t.Before(item.EndTime); t = t.Add(time.Hour) {
		l[t] += item.Appliance.PowerRating
	}
}

// OptimizeSchedule assigns each appliance to the feasible window with the
// highest solar score. Placement order is priority high to low, then
// flexibility low to high within a tier, so tightly constrained appliances
// are served before flexible ones. Appliances with no feasible window are
// omitted from the result.
func (s *Scheduler) OptimizeSchedule(production []model.ProductionPoint) []model.ScheduleItem {
	ordered := make([]model.Appliance, len(s.appliances))
	copy(ordered, s.appliances)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority > ordered[j].Priority
		}
		return ordered[i].Flexibility < ordered[j].Flexibility
	})

	ledger := make(slotLedger)
	var schedule []model.ScheduleItem
	for _, appliance := range ordered {
		if item, ok := s.findBestSlot(appliance, production, ledger); ok {
			schedule = append(schedule, item)
			ledger.commit(item)
		}
	}
	return schedule
}

// findBestSlot scans every feasible start slot and keeps the one with the
// strictly highest score. Ties go to the earliest scanned window.
func (s *Scheduler) findBestSlot(appliance model.Appliance, production []model.ProductionPoint, ledger slotLedger) (model.ScheduleItem, bool) {
	durationSlots := int(appliance.Duration)
	if durationSlots < 1 {
		// sub-hour runs truncate to zero slots and cannot be placed
		return model.ScheduleItem{}, false
	}
	bestScore := -1.0
	var best model.ScheduleItem
	found := false

	for i := 0; i+durationSlots <= len(production); i++ {
		start := production[i].Timestamp
		if !s.slotAvailable(start, durationSlots, ledger, appliance.PowerRating) {
			continue
		}
		if score := s.slotScore(appliance, i, durationSlots, production, ledger); score > bestScore {
			bestScore = score
			best = s.buildItem(appliance, i, durationSlots, production, ledger)
			found = true
		}
	}
	return best, found
}

// slotAvailable reports whether the window keeps every hour at or below the
// capacity ceiling once the appliance is added.
func (s *Scheduler) slotAvailable(start time.Time, durationSlots int, ledger slotLedger, powerNeeded float64) bool {
	t := start
	for i := 0; i < durationSlots; i++ {
		if ledger.committed(t)+powerNeeded > s.SlotCapacityKW {
			return false
		}
		t = t.Add(time.Hour)
	}
	return true
}

// slotScore rates a candidate window: the per-hour solar coverage fraction
// scaled by 100, plus a flat bonus for highly flexible appliances running in
// peak solar hours.
func (s *Scheduler) slotScore(appliance model.Appliance, startIdx, durationSlots int, production []model.ProductionPoint, ledger slotLedger) float64 {
	score := 0.0
	t := production[startIdx].Timestamp
	for j := 0; j < durationSlots && startIdx+j < len(production); j++ {
		available := math.Max(0, production[startIdx+j].OutputKW-s.BaseLoad-ledger.committed(t))
		coverage := math.Min(1, available/appliance.PowerRating)
		score += coverage * 100
		if t.Hour() >= peakHourStart && t.Hour() <= peakHourEnd && appliance.Flexibility > 7 {
			score += 20
		}
		t = t.Add(time.Hour)
	}
	return score
}

// buildItem derives the coverage, grid usage and savings for a placed window.
// Energy accounting uses the full fractional duration while solar usage is
// summed over whole slots only.
func (s *Scheduler) buildItem(appliance model.Appliance, startIdx, durationSlots int, production []model.ProductionPoint, ledger slotLedger) model.ScheduleItem {
	start := production[startIdx].Timestamp
	end := start.Add(time.Duration(durationSlots) * time.Hour)

	totalEnergy := appliance.Energy()
	solarEnergy := 0.0

	t := start
	for j := 0; j < durationSlots && startIdx+j < len(production); j++ {
		available := math.Max(0, production[startIdx+j].OutputKW-s.BaseLoad-ledger.committed(t))
		solarEnergy += math.Min(appliance.PowerRating, available)
		t = t.Add(time.Hour)
	}

	coverage := 0.0
	if totalEnergy > 0 {
		coverage = solarEnergy / totalEnergy
	}

	return model.ScheduleItem{
		Appliance:     appliance,
		StartTime:     start,
		EndTime:       end,
		SolarCoverage: coverage,
		GridUsage:     totalEnergy - solarEnergy,
		CostSavings:   solarEnergy * s.ElectricityRate,
	}
}

// Summary aggregates a schedule into totals. All divisions are zero-guarded.
func (s *Scheduler) Summary(schedule []model.ScheduleItem) model.Summary {
	var total, solar, grid, savings float64
	for _, item := range schedule {
		energy := item.Appliance.Energy()
		total += energy
		solar += item.SolarCoverage * energy
		grid += item.GridUsage
		savings += item.CostSavings
	}
	pct := 0.0
	if total > 0 {
		pct = solar / total * 100
	}
	return model.Summary{
		TotalEnergy:         total,
		SolarEnergy:         solar,
		GridEnergy:          grid,
		SolarPercentage:     pct,
		CostSavings:         savings,
		ScheduledAppliances: len(schedule),
	}
}

// RecommendDeferrals suggests better start times for placed items with poor
// solar coverage and enough flexibility to move. The search ignores other
// appliances' commitments and never mutates the schedule.
func (s *Scheduler) RecommendDeferrals(schedule []model.ScheduleItem, production []model.ProductionPoint) []string {
	var recommendations []string
	for _, item := range schedule {
		if item.SolarCoverage >= 0.5 || item.Appliance.Flexibility <= 5 {
			continue
		}
		if start, coverage, ok := s.findBetterSlot(item, production); ok {
			recommendations = append(recommendations, fmt.Sprintf(
				"Consider running %s at %s for %d%% solar coverage",
				item.Appliance.Name, start.Format("15:04"), int(coverage*100)))
		}
	}
	return recommendations
}

// findBetterSlot rescans all start slots except the current one for a higher
// potential coverage, computed as if no other appliance were scheduled.
func (s *Scheduler) findBetterSlot(item model.ScheduleItem, production []model.ProductionPoint) (time.Time, float64, bool) {
	durationSlots := int(item.Appliance.Duration)
	if durationSlots < 1 {
		return time.Time{}, 0, false
	}
	bestCoverage := item.SolarCoverage
	var bestStart time.Time
	found := false

	for i := 0; i+durationSlots <= len(production); i++ {
		start := production[i].Timestamp
		if start.Equal(item.StartTime) {
			continue
		}
		if coverage := s.potentialCoverage(item.Appliance, i, durationSlots, production); coverage > bestCoverage {
			bestCoverage = coverage
			bestStart = start
			found = true
		}
	}
	return bestStart, bestCoverage, found
}

func (s *Scheduler) potentialCoverage(appliance model.Appliance, startIdx, durationSlots int, production []model.ProductionPoint) float64 {
	totalEnergy := appliance.Energy()
	if totalEnergy <= 0 {
		return 0
	}
	solarEnergy := 0.0
	for j := 0; j < durationSlots && startIdx+j < len(production); j++ {
		available := math.Max(0, production[startIdx+j].OutputKW-s.BaseLoad)
		solarEnergy += math.Min(appliance.PowerRating, available)
	}
	return solarEnergy / totalEnergy
}
