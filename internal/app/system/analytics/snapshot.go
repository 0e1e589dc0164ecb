package analytics

import "sort"

// Row types hold only what the aggregation reads. They are produced at the
// ingestion boundary (Ingest for raw API payloads, analyticsdata for Mongo).

type Project struct {
	ID            string
	Name          string
	Status        ProjectStatus
	OwnerID       string
	FundingRaised float64
	Created       Stamp
}

type Adherent struct {
	ID                    string
	Name                  string
	Role                  string
	Persona               string
	Mentored              bool
	ProjectsCompleted     int
	DeliverablesCompleted int
	Joined                Stamp
}

type Mentor struct {
	ID      string
	Name    string
	Active  bool
	Created Stamp
}

type Deliverable struct {
	ID        string
	ProjectID string
	Kind      DeliverableKind
	Created   Stamp
}

type Conversation struct {
	ID      string
	Created Stamp
}

type Message struct {
	ID             string
	ConversationID string
	Created        Stamp
}

// Score.Final of 0 means "not scored" and is left out of averages.
type Score struct {
	ID        string
	ProjectID string
	Final     float64
	Created   Stamp
}

// Event is windowed on Start, not on creation time.
type Event struct {
	ID           string
	Type         string
	Start        Stamp
	End          Stamp
	Participants int
}

type Partner struct {
	ID           string
	Type         string
	Active       bool
	Rating       float64
	Contribution float64
	Created      Stamp
}

type Invitation struct {
	ID       string
	Accepted bool
	Created  Stamp
}

// Snapshot is every collection of one organization as read at one moment.
// Deliverables are grouped by kind so new kinds need no aggregator change.
type Snapshot struct {
	Projects      []Project
	Adherents     []Adherent
	Mentors       []Mentor
	Deliverables  map[DeliverableKind][]Deliverable
	Conversations []Conversation
	Messages      []Message
	Scores        []Score
	Events        []Event
	Partners      []Partner
	Invitations   []Invitation
}

// AddDeliverable files d under its kind, allocating the map if needed.
func (s *Snapshot) AddDeliverable(d Deliverable) {
	if s.Deliverables == nil {
		s.Deliverables = make(map[DeliverableKind][]Deliverable)
	}
	s.Deliverables[d.Kind] = append(s.Deliverables[d.Kind], d)
}

// deliverableKindsIn returns the kinds present in m: known kinds first in
// display order, then any others sorted by name.
func deliverableKindsIn(m map[DeliverableKind][]Deliverable) []DeliverableKind {
	known := DeliverableKinds()
	out := make([]DeliverableKind, 0, len(m)+len(known))
	seen := make(map[DeliverableKind]struct{}, len(known))
	for _, k := range known {
		seen[k] = struct{}{}
		out = append(out, k)
	}
	var extra []DeliverableKind
	for k := range m {
		if _, ok := seen[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}
