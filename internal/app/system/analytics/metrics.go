package analytics

import (
	"fmt"
	"math"
	"time"
)

// TimestampPolicy decides what happens to rows whose timestamp is missing
// or unparseable. Both policies leave such rows out of windowed aggregates.
type TimestampPolicy string

const (
	// PolicyExclude drops bad rows silently.
	PolicyExclude TimestampPolicy = "exclude"
	// PolicyWarn drops bad rows and reports each one in Metrics.Warnings.
	PolicyWarn TimestampPolicy = "warn"
)

// DefaultPolicy is used when Options.Policy is empty.
const DefaultPolicy = PolicyWarn

// ParsePolicy validates a configured policy name.
func ParsePolicy(s string) (TimestampPolicy, error) {
	switch TimestampPolicy(s) {
	case "":
		return DefaultPolicy, nil
	case PolicyExclude, PolicyWarn:
		return TimestampPolicy(s), nil
	}
	return "", fmt.Errorf("unknown timestamp policy %q (want %q or %q)", s, PolicyExclude, PolicyWarn)
}

// DataQualityWarning names a row that could not be placed in the window.
type DataQualityWarning struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
	Reason     string `json:"reason"`
}

// Options tunes Aggregate. Now anchors "upcoming" and "last month" figures.
type Options struct {
	Now    time.Time
	Policy TimestampPolicy
}

// KindCount is the windowed deliverable count for one kind.
type KindCount struct {
	Kind  DeliverableKind `json:"kind"`
	Count int             `json:"count"`
}

// KindRate is the share of windowed projects holding a deliverable kind.
type KindRate struct {
	Kind DeliverableKind `json:"kind"`
	Rate float64         `json:"rate"`
}

// Metrics is the flat aggregate for one organization and one window.
// Percentages are exact (part/whole)*100 values; nothing is rounded here.
type Metrics struct {
	TotalProjects      int     `json:"totalProjects"`
	ActiveProjects     int     `json:"activeProjects"`
	CompletedProjects  int     `json:"completedProjects"`
	DraftProjects      int     `json:"draftProjects"`
	ProjectSuccessRate float64 `json:"projectSuccessRate"`
	MonthlyGrowth      float64 `json:"monthlyGrowth"`

	TotalAdherents             int     `json:"totalAdherents"`
	NewAdherents               int     `json:"newAdherents"`
	NewAdherentsRate           float64 `json:"newAdherentsRate"`
	AvgDeliverablesPerAdherent float64 `json:"avgDeliverablesPerAdherent"`
	MentoredAdherentsRate      float64 `json:"mentoredAdherentsRate"`

	TotalMentors       int     `json:"totalMentors"`
	ActiveMentors      int     `json:"activeMentors"`
	AdherentsPerMentor float64 `json:"adherentsPerMentor"`

	DeliverablesByKind         []KindCount `json:"deliverablesByKind"`
	DeliverablesSum            int         `json:"deliverablesSum"`
	DeliverableCompletionRates []KindRate  `json:"deliverableCompletionRates"`

	TotalScores  int     `json:"totalScores"`
	AverageScore float64 `json:"averageScore"`

	TotalConversations         int     `json:"totalConversations"`
	TotalMessages              int     `json:"totalMessages"`
	AvgMessagesPerConversation float64 `json:"avgMessagesPerConversation"`

	TotalEvents             int     `json:"totalEvents"`
	UpcomingEvents          int     `json:"upcomingEvents"`
	TotalParticipants       int     `json:"totalParticipants"`
	AvgParticipantsPerEvent float64 `json:"avgParticipantsPerEvent"`

	TotalPartners        int     `json:"totalPartners"`
	ActivePartners       int     `json:"activePartners"`
	AveragePartnerRating float64 `json:"averagePartnerRating"`

	TotalInvitations         int     `json:"totalInvitations"`
	AcceptedInvitations      int     `json:"acceptedInvitations"`
	InvitationAcceptanceRate float64 `json:"invitationAcceptanceRate"`

	TotalContribution    float64 `json:"totalContribution"`
	TotalFundingRaised   float64 `json:"totalFundingRaised"`
	AvgFundingPerProject float64 `json:"avgFundingPerProject"`

	ProjectStatuses  []CategoryCount `json:"projectStatuses"`
	AdherentRoles    []CategoryCount `json:"adherentRoles"`
	AdherentPersonas []CategoryCount `json:"adherentPersonas"`
	EventTypes       []CategoryCount `json:"eventTypes"`
	PartnerTypes     []CategoryCount `json:"partnerTypes"`

	Warnings []DataQualityWarning `json:"warnings,omitempty"`
}

// Rate returns (part/whole)*100, or 0 when whole is 0.
func Rate(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// Ratio returns part/whole, or 0 when whole is 0.
func Ratio(part float64, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return part / float64(whole)
}

// mean accumulates a sum and a count in one pass; the division happens
// once, in value.
type mean struct {
	sum   float64
	count int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.count++
}

func (m mean) value() float64 { return Ratio(m.sum, m.count) }

// windower applies the cutoff to each collection and records warnings.
type windower struct {
	cutoff   time.Time
	policy   TimestampPolicy
	warnings []DataQualityWarning
}

// MaxAmount bounds a single money value (contribution, funding raised).
// Rows beyond it, or with non-finite values, are left out of the sums so
// totals stay finite.
const MaxAmount = 1e12

// usable reports whether v can enter a sum. limit <= 0 checks finiteness
// only. Rejected values are reported under PolicyWarn.
func (w *windower) usable(collection, id, field string, v, limit float64) bool {
	ok := !math.IsNaN(v) && !math.IsInf(v, 0) && (limit <= 0 || math.Abs(v) <= limit)
	if !ok && w.policy == PolicyWarn {
		w.warnings = append(w.warnings, DataQualityWarning{
			Collection: collection,
			ID:         id,
			Reason:     "value out of range: " + field,
		})
	}
	return ok
}

func windowed[T any](w *windower, collection string, rows []T, stamp func(T) Stamp, id func(T) string) []T {
	if w.policy == PolicyWarn {
		for _, row := range rows {
			if !stamp(row).Valid {
				w.warnings = append(w.warnings, DataQualityWarning{
					Collection: collection,
					ID:         id(row),
					Reason:     "missing or malformed timestamp",
				})
			}
		}
	}
	return Window(rows, w.cutoff, stamp)
}

// Aggregate computes Metrics for the rows of s that fall on or after
// cutoff. Every collection is windowed independently; s is not modified.
// Aggregate never fails: empty collections yield zero counts and rates.
func Aggregate(s Snapshot, cutoff time.Time, opts Options) Metrics {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	policy := opts.Policy
	if policy == "" {
		policy = DefaultPolicy
	}
	w := &windower{cutoff: cutoff, policy: policy}
	monthStart := Cutoff(Range1Month, now)

	projects := windowed(w, "projects", s.Projects,
		func(p Project) Stamp { return p.Created }, func(p Project) string { return p.ID })
	adherents := windowed(w, "adherents", s.Adherents,
		func(a Adherent) Stamp { return a.Joined }, func(a Adherent) string { return a.ID })
	mentors := windowed(w, "mentors", s.Mentors,
		func(m Mentor) Stamp { return m.Created }, func(m Mentor) string { return m.ID })
	conversations := windowed(w, "conversations", s.Conversations,
		func(c Conversation) Stamp { return c.Created }, func(c Conversation) string { return c.ID })
	messages := windowed(w, "messages", s.Messages,
		func(m Message) Stamp { return m.Created }, func(m Message) string { return m.ID })
	scores := windowed(w, "scores", s.Scores,
		func(sc Score) Stamp { return sc.Created }, func(sc Score) string { return sc.ID })
	events := windowed(w, "events", s.Events,
		func(e Event) Stamp { return e.Start }, func(e Event) string { return e.ID })
	partners := windowed(w, "partners", s.Partners,
		func(p Partner) Stamp { return p.Created }, func(p Partner) string { return p.ID })
	invitations := windowed(w, "invitations", s.Invitations,
		func(i Invitation) Stamp { return i.Created }, func(i Invitation) string { return i.ID })

	var m Metrics

	// projects
	m.TotalProjects = len(projects)
	var recentProjects int
	for _, p := range projects {
		switch p.Status {
		case StatusCompleted:
			m.CompletedProjects++
		case StatusDraft:
			m.DraftProjects++
		default:
			m.ActiveProjects++
		}
		if !p.Created.At.Before(monthStart) {
			recentProjects++
		}
		if w.usable("projects", p.ID, "funding_raised", p.FundingRaised, MaxAmount) {
			m.TotalFundingRaised += p.FundingRaised
		}
	}
	m.ProjectSuccessRate = Rate(m.CompletedProjects, m.TotalProjects)
	m.MonthlyGrowth = Rate(recentProjects, m.TotalProjects)
	m.AvgFundingPerProject = Ratio(m.TotalFundingRaised, m.TotalProjects)
	m.ProjectStatuses = Breakdown(projects, func(p Project) string { return p.Status.Label() })

	// adherents
	m.TotalAdherents = len(adherents)
	var mentored, deliverablesDone int
	for _, a := range adherents {
		if !a.Joined.At.Before(monthStart) {
			m.NewAdherents++
		}
		if a.Mentored {
			mentored++
		}
		deliverablesDone += a.DeliverablesCompleted
	}
	m.NewAdherentsRate = Rate(m.NewAdherents, m.TotalAdherents)
	m.MentoredAdherentsRate = Rate(mentored, m.TotalAdherents)
	m.AvgDeliverablesPerAdherent = Ratio(float64(deliverablesDone), m.TotalAdherents)
	m.AdherentRoles = Breakdown(adherents, func(a Adherent) string { return a.Role })
	m.AdherentPersonas = Breakdown(adherents, func(a Adherent) string { return a.Persona })

	// mentors
	m.TotalMentors = len(mentors)
	for _, mt := range mentors {
		if mt.Active {
			m.ActiveMentors++
		}
	}
	m.AdherentsPerMentor = Ratio(float64(m.TotalAdherents), m.ActiveMentors)

	// deliverables: one fold over the kind map
	for _, kind := range deliverableKindsIn(s.Deliverables) {
		rows := windowed(w, "deliverables."+string(kind), s.Deliverables[kind],
			func(d Deliverable) Stamp { return d.Created }, func(d Deliverable) string { return d.ID })
		m.DeliverablesByKind = append(m.DeliverablesByKind, KindCount{Kind: kind, Count: len(rows)})
		m.DeliverablesSum += len(rows)

		withKind := make(map[string]struct{}, len(rows))
		for _, d := range rows {
			if d.ProjectID != "" {
				withKind[d.ProjectID] = struct{}{}
			}
		}
		m.DeliverableCompletionRates = append(m.DeliverableCompletionRates,
			KindRate{Kind: kind, Rate: Rate(len(withKind), m.TotalProjects)})
	}

	// scores
	var avgScore mean
	for _, sc := range scores {
		if sc.Final != 0 && w.usable("scores", sc.ID, "score_final", sc.Final, 0) {
			avgScore.add(sc.Final)
		}
	}
	m.TotalScores = avgScore.count
	m.AverageScore = avgScore.value()

	// engagement
	m.TotalConversations = len(conversations)
	m.TotalMessages = len(messages)
	m.AvgMessagesPerConversation = Ratio(float64(m.TotalMessages), m.TotalConversations)

	// events
	m.TotalEvents = len(events)
	for _, e := range events {
		if e.Start.At.After(now) {
			m.UpcomingEvents++
		}
		m.TotalParticipants += e.Participants
	}
	m.AvgParticipantsPerEvent = Ratio(float64(m.TotalParticipants), m.TotalEvents)
	m.EventTypes = Breakdown(events, func(e Event) string { return e.Type })

	// partners
	m.TotalPartners = len(partners)
	var avgRating mean
	for _, p := range partners {
		if p.Active {
			m.ActivePartners++
		}
		if p.Rating != 0 && w.usable("partners", p.ID, "rating", p.Rating, 0) {
			avgRating.add(p.Rating)
		}
		if w.usable("partners", p.ID, "contribution", p.Contribution, MaxAmount) {
			m.TotalContribution += p.Contribution
		}
	}
	m.AveragePartnerRating = avgRating.value()
	m.PartnerTypes = Breakdown(partners, func(p Partner) string { return p.Type })

	// invitations
	m.TotalInvitations = len(invitations)
	for _, inv := range invitations {
		if inv.Accepted {
			m.AcceptedInvitations++
		}
	}
	m.InvitationAcceptanceRate = Rate(m.AcceptedInvitations, m.TotalInvitations)

	m.Warnings = w.warnings
	return m
}
