package analytics

import (
	"math"
	"time"
)

// FallbackColor is used for a category that has no assigned color.
const FallbackColor = "#9ca3af"

// CategoryColor pairs a breakdown category with its chart color.
type CategoryColor struct {
	Category string `json:"category"`
	Color    string `json:"color"`
}

// PieSlice is one wedge of a pie chart.
type PieSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// SeriesPoint is one month of the activity chart. SeriesA counts projects
// created that month, SeriesB counts adherents who joined.
type SeriesPoint struct {
	Month   string `json:"month"`
	SeriesA int    `json:"seriesA"`
	SeriesB int    `json:"seriesB"`
}

// RadarPoint is one spoke of the radar chart, on a 0-100 scale.
type RadarPoint struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
}

// ChartData is everything the dashboard charts draw.
type ChartData struct {
	ProjectStatuses []PieSlice    `json:"projectStatuses"`
	Roles           []PieSlice    `json:"roles"`
	Personas        []PieSlice    `json:"personas"`
	EventTypes      []PieSlice    `json:"eventTypes"`
	PartnerTypes    []PieSlice    `json:"partnerTypes"`
	Monthly         []SeriesPoint `json:"monthly"`
	Radar           []RadarPoint  `json:"radar"`
}

// AssignColors gives each category, in order, the next palette color,
// cycling when there are more categories than colors.
func AssignColors(palette []string, cats []CategoryCount) []CategoryColor {
	out := make([]CategoryColor, 0, len(cats))
	for i, c := range cats {
		color := FallbackColor
		if len(palette) > 0 {
			color = palette[i%len(palette)]
		}
		out = append(out, CategoryColor{Category: c.Category, Color: color})
	}
	return out
}

// Pie builds slices for cats, looking colors up in the explicit list.
func Pie(cats []CategoryCount, colors []CategoryColor) []PieSlice {
	lookup := make(map[string]string, len(colors))
	for _, c := range colors {
		lookup[c.Category] = c.Color
	}
	out := make([]PieSlice, 0, len(cats))
	for _, c := range cats {
		color, ok := lookup[c.Category]
		if !ok {
			color = FallbackColor
		}
		out = append(out, PieSlice{Name: c.Category, Value: c.Count, Color: color})
	}
	return out
}

func monthKey(t time.Time) string { return t.Format("2006-01") }

// MonthlySeries counts windowed projects and adherents per calendar month,
// from the cutoff month through the month of now. Months with no activity
// are present with zero counts.
func MonthlySeries(s Snapshot, cutoff, now time.Time) []SeriesPoint {
	start := time.Date(cutoff.Year(), cutoff.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var out []SeriesPoint
	index := make(map[string]int)
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		index[monthKey(m)] = len(out)
		out = append(out, SeriesPoint{Month: monthKey(m)})
	}

	for _, p := range Window(s.Projects, cutoff, func(p Project) Stamp { return p.Created }) {
		if i, ok := index[monthKey(p.Created.At.UTC())]; ok {
			out[i].SeriesA++
		}
	}
	for _, a := range Window(s.Adherents, cutoff, func(a Adherent) Stamp { return a.Joined }) {
		if i, ok := index[monthKey(a.Joined.At.UTC())]; ok {
			out[i].SeriesB++
		}
	}
	return out
}

// RadarEntry scales one metric onto the radar's 0-100 axis.
type RadarEntry struct {
	Metric     string  `yaml:"metric" json:"metric"`
	Multiplier float64 `yaml:"multiplier" json:"multiplier"`
}

// RadarTable lists the radar spokes in drawing order.
type RadarTable []RadarEntry

// Radar metric names understood by RadarValue.
const (
	RadarProjects     = "projects"
	RadarAdherents    = "adherents"
	RadarDeliverables = "deliverables"
	RadarEvents       = "events"
	RadarPartners     = "partners"
	RadarSuccessRate  = "successRate"
	RadarAverageScore = "averageScore"
	RadarEngagement   = "engagement"
)

// DefaultRadarTable is the built-in spoke list.
func DefaultRadarTable() RadarTable {
	return RadarTable{
		{Metric: RadarProjects, Multiplier: 10},
		{Metric: RadarAdherents, Multiplier: 5},
		{Metric: RadarDeliverables, Multiplier: 5},
		{Metric: RadarEvents, Multiplier: 10},
		{Metric: RadarPartners, Multiplier: 10},
		{Metric: RadarSuccessRate, Multiplier: 1},
		{Metric: RadarAverageScore, Multiplier: 20},
		{Metric: RadarEngagement, Multiplier: 10},
	}
}

// RadarValue returns the raw, unscaled value for a radar metric name.
func RadarValue(m Metrics, metric string) (float64, bool) {
	switch metric {
	case RadarProjects:
		return float64(m.TotalProjects), true
	case RadarAdherents:
		return float64(m.TotalAdherents), true
	case RadarDeliverables:
		return float64(m.DeliverablesSum), true
	case RadarEvents:
		return float64(m.TotalEvents), true
	case RadarPartners:
		return float64(m.TotalPartners), true
	case RadarSuccessRate:
		return m.ProjectSuccessRate, true
	case RadarAverageScore:
		return m.AverageScore, true
	case RadarEngagement:
		return m.AvgMessagesPerConversation, true
	}
	return 0, false
}

// Radar scales each metric in table by its multiplier and clamps the
// result to [0, 100]. Unknown metric names are skipped.
func Radar(m Metrics, table RadarTable) []RadarPoint {
	out := make([]RadarPoint, 0, len(table))
	for _, e := range table {
		raw, ok := RadarValue(m, e.Metric)
		if !ok {
			continue
		}
		out = append(out, RadarPoint{Metric: e.Metric, Value: math.Min(math.Max(raw*e.Multiplier, 0), 100)})
	}
	return out
}

// BuildCharts derives every chart series from the aggregate and the
// snapshot it was computed from.
func BuildCharts(s Snapshot, m Metrics, cutoff, now time.Time, cfg ChartConfig) ChartData {
	pie := func(cats []CategoryCount) []PieSlice {
		return Pie(cats, AssignColors(cfg.Palette, cats))
	}
	return ChartData{
		ProjectStatuses: pie(m.ProjectStatuses),
		Roles:           pie(m.AdherentRoles),
		Personas:        pie(m.AdherentPersonas),
		EventTypes:      pie(m.EventTypes),
		PartnerTypes:    pie(m.PartnerTypes),
		Monthly:         MonthlySeries(s, cutoff, now),
		Radar:           Radar(m, cfg.Radar),
	}
}
