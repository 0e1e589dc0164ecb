package analytics

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// ExportVersion is written into every JSON document.
const ExportVersion = "1.0"

// Metadata describes who generated an export and over which window.
type Metadata struct {
	OrganizationID   string    `json:"organizationId"`
	OrganizationName string    `json:"organizationName"`
	TimeRange        Range     `json:"timeRange"`
	TimeRangeLabel   string    `json:"timeRangeLabel"`
	Cutoff           time.Time `json:"cutoff"`
	GeneratedAt      time.Time `json:"generatedAt"`
	GeneratedBy      string    `json:"generatedBy,omitempty"`
}

// Row is one labelled value of the human-readable report.
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Section groups report rows under a subject area.
type Section struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
}

// Document is the full JSON export.
type Document struct {
	Metadata      Metadata  `json:"metadata"`
	Metrics       Metrics   `json:"metrics"`
	DomainData    []Section `json:"domainData"`
	ChartData     ChartData `json:"chartData"`
	ExportVersion string    `json:"exportVersion"`
}

// BuildDocument assembles the export from already-computed values.
func BuildDocument(meta Metadata, m Metrics, charts ChartData) Document {
	return Document{
		Metadata:      meta,
		Metrics:       m,
		DomainData:    Report(meta, m),
		ChartData:     charts,
		ExportVersion: ExportVersion,
	}
}

// WriteJSON pretty-prints doc with a two-space indent.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Report flattens metrics into the sections shared by the CSV report and
// the JSON domainData block.
func Report(meta Metadata, m Metrics) []Section {
	main := Section{Key: "main", Title: "MÉTRIQUES PRINCIPALES", Rows: []Row{
		{"Organisation", meta.OrganizationName},
		{"Période", meta.TimeRangeLabel},
		{"Depuis le", meta.Cutoff.Format("2006-01-02")},
		{"Généré le", meta.GeneratedAt.Format("2006-01-02 15:04")},
		{"Projets", Count(m.TotalProjects)},
		{"Adhérents", Count(m.TotalAdherents)},
		{"Mentors", Count(m.TotalMentors)},
		{"Livrables", Count(m.DeliverablesSum)},
		{"Taux de réussite", Percent(m.ProjectSuccessRate)},
		{"Croissance mensuelle", Percent(m.MonthlyGrowth)},
	}}

	projects := Section{Key: "projects", Title: "PROJETS", Rows: []Row{
		{"Total", Count(m.TotalProjects)},
		{"En cours", Count(m.ActiveProjects)},
		{"Terminés", Count(m.CompletedProjects)},
		{"Brouillons", Count(m.DraftProjects)},
		{"Taux de réussite", Percent(m.ProjectSuccessRate)},
		{"Note moyenne", Decimal(m.AverageScore, 1)},
		{"Projets notés", Count(m.TotalScores)},
	}}
	projects.Rows = append(projects.Rows, categoryRows("Statut", m.ProjectStatuses)...)

	adherents := Section{Key: "adherents", Title: "ADHÉRENTS", Rows: []Row{
		{"Total", Count(m.TotalAdherents)},
		{"Nouveaux (dernier mois)", Count(m.NewAdherents)},
		{"Taux de nouveaux", Percent(m.NewAdherentsRate)},
		{"Livrables par adhérent", Decimal(m.AvgDeliverablesPerAdherent, 1)},
		{"Adhérents mentorés", Percent(m.MentoredAdherentsRate)},
	}}
	adherents.Rows = append(adherents.Rows, categoryRows("Rôle", m.AdherentRoles)...)
	adherents.Rows = append(adherents.Rows, categoryRows("Profil", m.AdherentPersonas)...)

	mentors := Section{Key: "mentors", Title: "MENTORS", Rows: []Row{
		{"Total", Count(m.TotalMentors)},
		{"Actifs", Count(m.ActiveMentors)},
		{"Adhérents par mentor", Decimal(m.AdherentsPerMentor, 1)},
	}}

	deliverables := Section{Key: "deliverables", Title: "LIVRABLES", Rows: []Row{
		{"Total", Count(m.DeliverablesSum)},
	}}
	for _, kc := range m.DeliverablesByKind {
		deliverables.Rows = append(deliverables.Rows, Row{kc.Kind.Label(), Count(kc.Count)})
	}
	for _, kr := range m.DeliverableCompletionRates {
		deliverables.Rows = append(deliverables.Rows, Row{"Complétion " + kr.Kind.Label(), Percent(kr.Rate)})
	}

	engagement := Section{Key: "engagement", Title: "ENGAGEMENT", Rows: []Row{
		{"Conversations", Count(m.TotalConversations)},
		{"Messages", Count(m.TotalMessages)},
		{"Messages par conversation", Decimal(m.AvgMessagesPerConversation, 1)},
		{"Invitations envoyées", Count(m.TotalInvitations)},
		{"Invitations acceptées", Count(m.AcceptedInvitations)},
		{"Taux d'acceptation", Percent(m.InvitationAcceptanceRate)},
	}}

	events := Section{Key: "events", Title: "ÉVÉNEMENTS", Rows: []Row{
		{"Total", Count(m.TotalEvents)},
		{"À venir", Count(m.UpcomingEvents)},
		{"Participants", Count(m.TotalParticipants)},
		{"Participants par événement", Decimal(m.AvgParticipantsPerEvent, 1)},
	}}
	events.Rows = append(events.Rows, categoryRows("Type", m.EventTypes)...)

	partners := Section{Key: "partners", Title: "PARTENAIRES", Rows: []Row{
		{"Total", Count(m.TotalPartners)},
		{"Actifs", Count(m.ActivePartners)},
		{"Note moyenne", Decimal(m.AveragePartnerRating, 1)},
	}}
	partners.Rows = append(partners.Rows, categoryRows("Type", m.PartnerTypes)...)

	finances := Section{Key: "finances", Title: "FINANCES", Rows: []Row{
		{"Contributions partenaires", Money(m.TotalContribution)},
		{"Fonds levés", Money(m.TotalFundingRaised)},
		{"Fonds levés par projet", Money(m.AvgFundingPerProject)},
	}}

	return []Section{main, projects, adherents, mentors, deliverables, engagement, events, partners, finances}
}

func categoryRows(prefix string, cats []CategoryCount) []Row {
	rows := make([]Row, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, Row{prefix + " : " + c.Category, Count(c.Count)})
	}
	return rows
}

// SectionHeader is the literal header line text for a section title.
func SectionHeader(title string) string {
	return "=== " + title + " ==="
}

var cellNewlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// quoteCell wraps s in quotes, doubling inner quotes. Line breaks become
// spaces so every report row stays on one line.
func quoteCell(s string) string {
	s = cellNewlines.Replace(s)
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteCSV writes the report as quoted [label,value] rows, each section
// introduced by a single-cell header row. Rows are separated by "\n".
// The output is meant for people, not for reading back.
func WriteCSV(w io.Writer, meta Metadata, m Metrics) error {
	var b strings.Builder
	for _, sec := range Report(meta, m) {
		b.WriteString(quoteCell(SectionHeader(sec.Title)))
		b.WriteByte('\n')
		for _, r := range sec.Rows {
			b.WriteString(quoteCell(r.Label))
			b.WriteByte(',')
			b.WriteString(quoteCell(r.Value))
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func fileDate(t time.Time) string { return t.Format("2006-01-02") }

// JSONFilename is the download name of the JSON export.
func JSONFilename(orgID string, at time.Time) string {
	return fmt.Sprintf("analytics-%s-%s.json", orgID, fileDate(at))
}

// CSVFilename is the download name of the CSV report.
func CSVFilename(orgID string, at time.Time) string {
	return fmt.Sprintf("analytics-complete-%s-%s.csv", orgID, fileDate(at))
}
