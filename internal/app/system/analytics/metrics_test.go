package analytics

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recent(days int) Stamp { return StampOf(refNow.AddDate(0, 0, -days)) }

func opts() Options { return Options{Now: refNow} }

func TestAggregateEmptySnapshotIsAllZero(t *testing.T) {
	m := Aggregate(Snapshot{}, Cutoff(Range12Months, refNow), opts())

	assert.Zero(t, m.TotalProjects)
	assert.Zero(t, m.ProjectSuccessRate)
	assert.Zero(t, m.MonthlyGrowth)
	assert.Zero(t, m.NewAdherentsRate)
	assert.Zero(t, m.MentoredAdherentsRate)
	assert.Zero(t, m.AvgDeliverablesPerAdherent)
	assert.Zero(t, m.AdherentsPerMentor)
	assert.Zero(t, m.AverageScore)
	assert.Zero(t, m.AvgMessagesPerConversation)
	assert.Zero(t, m.AvgParticipantsPerEvent)
	assert.Zero(t, m.AveragePartnerRating)
	assert.Zero(t, m.InvitationAcceptanceRate)
	assert.Zero(t, m.AvgFundingPerProject)
	for _, kr := range m.DeliverableCompletionRates {
		assert.Zero(t, kr.Rate, "kind %s", kr.Kind)
	}
	assert.Empty(t, m.Warnings)
}

func TestAggregateSuccessRate(t *testing.T) {
	var s Snapshot
	for i := 0; i < 10; i++ {
		status := StatusActive
		if i < 7 {
			status = StatusCompleted
		}
		s.Projects = append(s.Projects, Project{ID: fmt.Sprint(i), Status: status, Created: recent(i + 1)})
	}

	m := Aggregate(s, Cutoff(Range12Months, refNow), opts())

	assert.Equal(t, 10, m.TotalProjects)
	assert.Equal(t, 7, m.CompletedProjects)
	assert.Equal(t, 3, m.ActiveProjects)
	assert.InDelta(t, 70.0, m.ProjectSuccessRate, 1e-9)
	assert.Equal(t, "70.0%", Percent(m.ProjectSuccessRate))
}

func TestAggregateDeliverablesSum(t *testing.T) {
	counts := map[DeliverableKind]int{
		KindBusinessModel:  3,
		KindPitch:          5,
		KindVisionMission:  0,
		KindMarketAnalysis: 2,
	}
	var s Snapshot
	for kind, n := range counts {
		for i := 0; i < n; i++ {
			s.AddDeliverable(Deliverable{ID: fmt.Sprintf("%s-%d", kind, i), Kind: kind, Created: recent(1)})
		}
	}

	m := Aggregate(s, Cutoff(Range12Months, refNow), opts())

	assert.Equal(t, 10, m.DeliverablesSum)
	require.Len(t, m.DeliverablesByKind, 4)
	sum := 0
	for _, kc := range m.DeliverablesByKind {
		assert.Equal(t, counts[kc.Kind], kc.Count, "kind %s", kc.Kind)
		sum += kc.Count
	}
	assert.Equal(t, m.DeliverablesSum, sum)
	assert.Equal(t, KindBusinessModel, m.DeliverablesByKind[0].Kind)
}

func TestAggregateAverageScore(t *testing.T) {
	cutoff := Cutoff(Range12Months, refNow)

	s := Snapshot{Scores: []Score{
		{ID: "a", Final: 4, Created: recent(1)},
		{ID: "b", Final: 5, Created: recent(2)},
		{ID: "c", Final: 3, Created: recent(3)},
		{ID: "unscored", Final: 0, Created: recent(3)},
	}}
	m := Aggregate(s, cutoff, opts())
	assert.InDelta(t, 4.0, m.AverageScore, 1e-9)
	assert.Equal(t, 3, m.TotalScores)

	m = Aggregate(Snapshot{}, cutoff, opts())
	assert.Equal(t, 0.0, m.AverageScore)
}

func TestAggregateWindowsEachCollection(t *testing.T) {
	s := Snapshot{
		Projects: []Project{
			{ID: "in", Created: recent(3)},
			{ID: "out", Created: recent(40)},
		},
		Adherents: []Adherent{
			{ID: "in", Joined: recent(2), Mentored: true, DeliverablesCompleted: 4},
			{ID: "in2", Joined: recent(5), DeliverablesCompleted: 2},
			{ID: "out", Joined: recent(90), Mentored: true},
		},
		Mentors: []Mentor{
			{ID: "m", Active: true, Created: recent(1)},
		},
		Events: []Event{
			{ID: "past", Start: recent(2), Participants: 4, Type: "atelier"},
			{ID: "soon", Start: StampOf(refNow.AddDate(0, 0, 5)), Participants: 6, Type: "atelier"},
		},
	}

	m := Aggregate(s, Cutoff(Range14Days, refNow), opts())

	assert.Equal(t, 1, m.TotalProjects)
	assert.Equal(t, 2, m.TotalAdherents)
	assert.InDelta(t, 50.0, m.MentoredAdherentsRate, 1e-9)
	assert.InDelta(t, 3.0, m.AvgDeliverablesPerAdherent, 1e-9)
	assert.InDelta(t, 2.0, m.AdherentsPerMentor, 1e-9)
	assert.Equal(t, 2, m.TotalEvents)
	assert.Equal(t, 1, m.UpcomingEvents)
	assert.Equal(t, 10, m.TotalParticipants)
	assert.InDelta(t, 5.0, m.AvgParticipantsPerEvent, 1e-9)
	assert.Equal(t, []CategoryCount{{Category: "atelier", Count: 2}}, m.EventTypes)
}

func TestAggregateMonthlyGrowthAndNewAdherents(t *testing.T) {
	s := Snapshot{
		Projects: []Project{
			{ID: "1", Created: recent(10)},
			{ID: "2", Created: recent(100)},
			{ID: "3", Created: recent(200)},
			{ID: "4", Created: recent(300)},
		},
		Adherents: []Adherent{
			{ID: "a", Joined: recent(5)},
			{ID: "b", Joined: recent(50)},
		},
	}

	m := Aggregate(s, Cutoff(Range12Months, refNow), opts())

	assert.InDelta(t, 25.0, m.MonthlyGrowth, 1e-9)
	assert.Equal(t, 1, m.NewAdherents)
	assert.InDelta(t, 50.0, m.NewAdherentsRate, 1e-9)
}

func TestAggregateCompletionRatesCountDistinctProjects(t *testing.T) {
	var s Snapshot
	for i := 0; i < 4; i++ {
		s.Projects = append(s.Projects, Project{ID: fmt.Sprint(i), Created: recent(1)})
	}
	s.AddDeliverable(Deliverable{ID: "d1", ProjectID: "0", Kind: KindPitch, Created: recent(1)})
	s.AddDeliverable(Deliverable{ID: "d2", ProjectID: "0", Kind: KindPitch, Created: recent(1)})
	s.AddDeliverable(Deliverable{ID: "d3", ProjectID: "1", Kind: KindPitch, Created: recent(1)})

	m := Aggregate(s, Cutoff(Range12Months, refNow), opts())

	for _, kr := range m.DeliverableCompletionRates {
		switch kr.Kind {
		case KindPitch:
			assert.InDelta(t, 50.0, kr.Rate, 1e-9)
		default:
			assert.Zero(t, kr.Rate)
		}
	}
}

func TestAggregateTimestampPolicy(t *testing.T) {
	s := Snapshot{
		Projects: []Project{
			{ID: "good", Created: recent(1)},
			{ID: "bad", Created: Stamp{}},
		},
		Partners: []Partner{{ID: "nodate"}},
	}
	cutoff := Cutoff(Range12Months, refNow)

	warn := Aggregate(s, cutoff, Options{Now: refNow})
	assert.Equal(t, 1, warn.TotalProjects)
	require.Len(t, warn.Warnings, 2, "default policy is warn")
	assert.Equal(t, DataQualityWarning{Collection: "projects", ID: "bad", Reason: "missing or malformed timestamp"}, warn.Warnings[0])
	assert.Equal(t, "partners", warn.Warnings[1].Collection)

	excl := Aggregate(s, cutoff, Options{Now: refNow, Policy: PolicyExclude})
	assert.Equal(t, 1, excl.TotalProjects)
	assert.Empty(t, excl.Warnings)
}

func TestAggregateDoesNotMutateSnapshot(t *testing.T) {
	s := Snapshot{Projects: []Project{
		{ID: "old", Created: recent(400)},
		{ID: "new", Created: recent(1)},
	}}
	_ = Aggregate(s, Cutoff(Range1Month, refNow), opts())
	require.Len(t, s.Projects, 2)
	assert.Equal(t, "old", s.Projects[0].ID)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyWarn, p)

	p, err = ParsePolicy("exclude")
	require.NoError(t, err)
	assert.Equal(t, PolicyExclude, p)

	_, err = ParsePolicy("ignore")
	assert.Error(t, err)
}

func TestBreakdownFirstAppearanceOrder(t *testing.T) {
	rows := []Adherent{
		{Role: "founder"}, {Role: "cto"}, {Role: "founder"}, {Role: ""}, {Role: "cto"}, {Role: "founder"},
	}
	got := Breakdown(rows, func(a Adherent) string { return a.Role })
	want := []CategoryCount{
		{Category: "founder", Count: 3},
		{Category: "cto", Count: 2},
		{Category: Unspecified, Count: 1},
	}
	assert.Equal(t, want, got)
}

func TestRateZeroGuard(t *testing.T) {
	assert.Equal(t, 0.0, Rate(5, 0))
	assert.Equal(t, 0.0, Ratio(5, 0))
	assert.InDelta(t, 12.5, Rate(1, 8), 1e-9)
}

func TestAggregateSkipsOutOfRangeAmounts(t *testing.T) {
	s := Snapshot{
		Projects: []Project{
			{ID: "p1", FundingRaised: 1e308, Created: recent(1)},
			{ID: "p2", FundingRaised: 1e308, Created: recent(2)},
			{ID: "p3", FundingRaised: 4000, Created: recent(3)},
		},
		Partners: []Partner{
			{ID: "x1", Contribution: 1e308, Created: recent(1)},
			{ID: "x2", Contribution: 1e308, Created: recent(1)},
			{ID: "x3", Contribution: math.NaN(), Rating: math.Inf(1), Created: recent(1)},
			{ID: "x4", Contribution: 250, Rating: 4, Created: recent(1)},
		},
		Scores: []Score{{ID: "s1", Final: math.NaN(), Created: recent(1)}},
	}

	m := Aggregate(s, Cutoff(Range1Month, refNow), opts())
	assert.Equal(t, 4000.0, m.TotalFundingRaised)
	assert.Equal(t, 250.0, m.TotalContribution)
	assert.Equal(t, 4.0, m.AveragePartnerRating)
	assert.Zero(t, m.AverageScore)
	assert.Equal(t, 4, m.TotalPartners)
	assert.Len(t, m.Warnings, 7)
	for _, w := range m.Warnings {
		assert.Contains(t, w.Reason, "value out of range")
	}

	quiet := Aggregate(s, Cutoff(Range1Month, refNow), Options{Now: refNow, Policy: PolicyExclude})
	assert.Equal(t, 250.0, quiet.TotalContribution)
	assert.Empty(t, quiet.Warnings)
}
