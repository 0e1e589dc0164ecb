package analytics

import (
	"fmt"
	"math"
)

// Raw* types mirror the JSON rows returned by the hosted backend API:
// ISO-8601 strings for timestamps and free-text statuses. Ingest is the one
// place where they are interpreted.

type RawProject struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Status        string  `json:"status"`
	UserID        string  `json:"user_id"`
	FundingRaised float64 `json:"funding_raised"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

type RawAdherent struct {
	ID                    string `json:"id"`
	FirstName             string `json:"first_name"`
	LastName              string `json:"last_name"`
	Email                 string `json:"email"`
	Role                  string `json:"role"`
	Persona               string `json:"persona"`
	MentorID              string `json:"mentor_id"`
	ProjectsCompleted     int    `json:"projects_completed"`
	DeliverablesCompleted int    `json:"deliverables_completed"`
	JoinedAt              string `json:"joined_at"`
	CreatedAt             string `json:"created_at"`
}

type RawMentor struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

type RawDeliverable struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	CreatedAt string `json:"created_at"`
}

type RawConversation struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
}

type RawMessage struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	CreatedAt      string `json:"created_at"`
}

type RawScore struct {
	ID         string   `json:"id"`
	ProjectID  string   `json:"project_id"`
	ScoreFinal *float64 `json:"score_final"`
	CreatedAt  string   `json:"created_at"`
}

type RawEvent struct {
	ID           string   `json:"id"`
	Type         string   `json:"type"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Participants []string `json:"participants"`
}

type RawPartner struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	Status       string  `json:"status"`
	Rating       float64 `json:"rating"`
	Contribution float64 `json:"contribution"`
	CreatedAt    string  `json:"created_at"`
}

type RawInvitation struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// RawSnapshot is the request body accepted by the compute endpoint.
// Deliverables are keyed by kind ("business_model", "pitch", ...).
type RawSnapshot struct {
	Projects      []RawProject                        `json:"projects"`
	Adherents     []RawAdherent                       `json:"adherents"`
	Mentors       []RawMentor                         `json:"mentors"`
	Deliverables  map[DeliverableKind][]RawDeliverable `json:"deliverables"`
	Conversations []RawConversation                   `json:"conversations"`
	Messages      []RawMessage                        `json:"messages"`
	Scores        []RawScore                          `json:"scores"`
	Events        []RawEvent                          `json:"events"`
	Partners      []RawPartner                        `json:"partners"`
	Invitations   []RawInvitation                     `json:"invitations"`
}

// Validate rejects amounts no real row can carry: money values beyond
// MaxAmount and ratings or scores beyond MaxAmount in magnitude. It reports
// the first offending row.
func (raw RawSnapshot) Validate() error {
	for _, p := range raw.Projects {
		if !inRange(p.FundingRaised) {
			return fmt.Errorf("project %q: funding_raised out of range", p.ID)
		}
	}
	for _, sc := range raw.Scores {
		if sc.ScoreFinal != nil && !inRange(*sc.ScoreFinal) {
			return fmt.Errorf("score %q: score_final out of range", sc.ID)
		}
	}
	for _, p := range raw.Partners {
		if !inRange(p.Contribution) {
			return fmt.Errorf("partner %q: contribution out of range", p.ID)
		}
		if !inRange(p.Rating) {
			return fmt.Errorf("partner %q: rating out of range", p.ID)
		}
	}
	return nil
}

func inRange(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && math.Abs(v) <= MaxAmount
}

// IsActiveStatus reports whether a free-text mentor/partner status counts
// as active.
func IsActiveStatus(raw string) bool {
	switch raw {
	case "active", "actif", "active_partner":
		return true
	}
	return false
}

// Ingest converts raw rows into a Snapshot, mapping statuses to enums and
// parsing timestamps once.
func (raw RawSnapshot) Ingest() Snapshot {
	var s Snapshot

	for _, p := range raw.Projects {
		s.Projects = append(s.Projects, Project{
			ID:            p.ID,
			Name:          p.Name,
			Status:        ParseProjectStatus(p.Status),
			OwnerID:       p.UserID,
			FundingRaised: p.FundingRaised,
			Created:       ParseStamp(p.CreatedAt),
		})
	}

	for _, a := range raw.Adherents {
		joined := ParseStamp(a.JoinedAt)
		if a.JoinedAt == "" {
			joined = ParseStamp(a.CreatedAt)
		}
		name := a.FirstName
		if a.LastName != "" {
			if name != "" {
				name += " "
			}
			name += a.LastName
		}
		s.Adherents = append(s.Adherents, Adherent{
			ID:                    a.ID,
			Name:                  name,
			Role:                  a.Role,
			Persona:               a.Persona,
			Mentored:              a.MentorID != "",
			ProjectsCompleted:     a.ProjectsCompleted,
			DeliverablesCompleted: a.DeliverablesCompleted,
			Joined:                joined,
		})
	}

	for _, m := range raw.Mentors {
		s.Mentors = append(s.Mentors, Mentor{
			ID:      m.ID,
			Name:    m.Name,
			Active:  m.Status == "" || IsActiveStatus(m.Status),
			Created: ParseStamp(m.CreatedAt),
		})
	}

	for kind, rows := range raw.Deliverables {
		for _, d := range rows {
			s.AddDeliverable(Deliverable{
				ID:        d.ID,
				ProjectID: d.ProjectID,
				Kind:      kind,
				Created:   ParseStamp(d.CreatedAt),
			})
		}
	}

	for _, c := range raw.Conversations {
		s.Conversations = append(s.Conversations, Conversation{ID: c.ID, Created: ParseStamp(c.CreatedAt)})
	}
	for _, m := range raw.Messages {
		s.Messages = append(s.Messages, Message{ID: m.ID, ConversationID: m.ConversationID, Created: ParseStamp(m.CreatedAt)})
	}

	for _, sc := range raw.Scores {
		var final float64
		if sc.ScoreFinal != nil {
			final = *sc.ScoreFinal
		}
		s.Scores = append(s.Scores, Score{ID: sc.ID, ProjectID: sc.ProjectID, Final: final, Created: ParseStamp(sc.CreatedAt)})
	}

	for _, e := range raw.Events {
		s.Events = append(s.Events, Event{
			ID:           e.ID,
			Type:         e.Type,
			Start:        ParseStamp(e.StartDate),
			End:          ParseStamp(e.EndDate),
			Participants: len(e.Participants),
		})
	}

	for _, p := range raw.Partners {
		s.Partners = append(s.Partners, Partner{
			ID:           p.ID,
			Type:         p.Type,
			Active:       IsActiveStatus(p.Status),
			Rating:       p.Rating,
			Contribution: p.Contribution,
			Created:      ParseStamp(p.CreatedAt),
		})
	}

	for _, inv := range raw.Invitations {
		s.Invitations = append(s.Invitations, Invitation{
			ID:       inv.ID,
			Accepted: inv.Status == "accepted",
			Created:  ParseStamp(inv.CreatedAt),
		})
	}

	return s
}
