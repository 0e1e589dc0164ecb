package analytics

import (
	"strings"
	"time"
)

// ProjectStatus is the closed set of project states the dashboards know.
type ProjectStatus string

const (
	StatusActive    ProjectStatus = "active"
	StatusCompleted ProjectStatus = "completed"
	StatusDraft     ProjectStatus = "draft"
)

// Raw status strings, matched exactly (case-sensitive) as stored.
var (
	completedTokens = map[string]struct{}{
		"completed": {},
		"terminé":   {},
		"termine":   {},
		"done":      {},
	}
	draftTokens = map[string]struct{}{
		"draft":     {},
		"brouillon": {},
	}
)

// ParseProjectStatus maps a raw backend status to the closed enumeration.
// Anything that is neither a completion nor a draft token is Active.
func ParseProjectStatus(raw string) ProjectStatus {
	if _, ok := completedTokens[raw]; ok {
		return StatusCompleted
	}
	if _, ok := draftTokens[raw]; ok {
		return StatusDraft
	}
	return StatusActive
}

// Label is the French display label for s.
func (s ProjectStatus) Label() string {
	switch s {
	case StatusCompleted:
		return "Terminé"
	case StatusDraft:
		return "Brouillon"
	}
	return "En cours"
}

// Stamp is a timestamp read at the ingestion boundary.
// Valid is false when the source value was missing or unparseable.
type Stamp struct {
	At    time.Time
	Valid bool
}

// StampOf wraps a decoded time. The zero time means the field was absent.
func StampOf(t time.Time) Stamp {
	if t.IsZero() {
		return Stamp{}
	}
	return Stamp{At: t, Valid: true}
}

var stampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999", // timestamp without zone, read as UTC
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02",
}

// ParseStamp parses an ISO-8601 string as produced by the backend API.
func ParseStamp(raw string) Stamp {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Stamp{}
	}
	for _, layout := range stampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return Stamp{At: t.UTC(), Valid: true}
		}
	}
	return Stamp{}
}

// DeliverableKind tags one of the deliverable document types.
type DeliverableKind string

const (
	KindBusinessModel  DeliverableKind = "business_model"
	KindPitch          DeliverableKind = "pitch"
	KindVisionMission  DeliverableKind = "vision_mission"
	KindMarketAnalysis DeliverableKind = "market_analysis"
)

// DeliverableKinds returns the known kinds in display order.
// Kinds outside this list are still counted; they sort after these.
func DeliverableKinds() []DeliverableKind {
	return []DeliverableKind{KindBusinessModel, KindPitch, KindVisionMission, KindMarketAnalysis}
}

// Label is the French display label for k.
func (k DeliverableKind) Label() string {
	switch k {
	case KindBusinessModel:
		return "Business model"
	case KindPitch:
		return "Pitch"
	case KindVisionMission:
		return "Vision / mission"
	case KindMarketAnalysis:
		return "Étude de marché"
	}
	return string(k)
}
