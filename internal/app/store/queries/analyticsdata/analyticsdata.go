// Package analyticsdata reads every collection the analytics dashboard
// needs for one organization and converts the documents into an
// analytics.Snapshot.
package analyticsdata

import (
	"context"
	"fmt"

	adherentstore "github.com/dalemusser/incubahub/internal/app/store/adherents"
	conversationstore "github.com/dalemusser/incubahub/internal/app/store/conversations"
	deliverablestore "github.com/dalemusser/incubahub/internal/app/store/deliverables"
	eventstore "github.com/dalemusser/incubahub/internal/app/store/events"
	invitationstore "github.com/dalemusser/incubahub/internal/app/store/invitations"
	mentorstore "github.com/dalemusser/incubahub/internal/app/store/mentors"
	partnerstore "github.com/dalemusser/incubahub/internal/app/store/partners"
	projectstore "github.com/dalemusser/incubahub/internal/app/store/projects"
	scorestore "github.com/dalemusser/incubahub/internal/app/store/scores"
	"github.com/dalemusser/incubahub/internal/app/system/analytics"
	"github.com/dalemusser/incubahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

// Collections holds the decoded documents of one organization.
type Collections struct {
	Projects      []models.Project
	Adherents     []models.Adherent
	Mentors       []models.Mentor
	Deliverables  []models.Deliverable
	Conversations []models.Conversation
	Messages      []models.Message
	Scores        []models.Score
	Events        []models.Event
	Partners      []models.Partner
	Invitations   []models.Invitation
}

// Loader fetches Collections from MongoDB.
type Loader struct {
	projects      *projectstore.Store
	adherents     *adherentstore.Store
	mentors       *mentorstore.Store
	deliverables  *deliverablestore.Store
	conversations *conversationstore.Store
	scores        *scorestore.Store
	events        *eventstore.Store
	partners      *partnerstore.Store
	invitations   *invitationstore.Store
}

// NewLoader builds a Loader over db.
func NewLoader(db *mongo.Database) *Loader {
	return &Loader{
		projects:      projectstore.New(db),
		adherents:     adherentstore.New(db),
		mentors:       mentorstore.New(db),
		deliverables:  deliverablestore.New(db),
		conversations: conversationstore.New(db),
		scores:        scorestore.New(db),
		events:        eventstore.New(db),
		partners:      partnerstore.New(db),
		invitations:   invitationstore.New(db, 0),
	}
}

// Fetch reads every collection concurrently. The first failure cancels the
// other reads and is returned; no partial result is returned.
func (l *Loader) Fetch(ctx context.Context, orgID primitive.ObjectID) (Collections, error) {
	var c Collections
	g, gctx := errgroup.WithContext(ctx)

	fetch := func(name string, fn func(context.Context) error) {
		g.Go(func() error {
			if err := fn(gctx); err != nil {
				return fmt.Errorf("fetch %s: %w", name, err)
			}
			return nil
		})
	}

	fetch("projects", func(ctx context.Context) (err error) {
		c.Projects, err = l.projects.ListByOrg(ctx, orgID)
		return
	})
	fetch("adherents", func(ctx context.Context) (err error) {
		c.Adherents, err = l.adherents.ListByOrg(ctx, orgID)
		return
	})
	fetch("mentors", func(ctx context.Context) (err error) {
		c.Mentors, err = l.mentors.ListByOrg(ctx, orgID)
		return
	})
	fetch("deliverables", func(ctx context.Context) (err error) {
		c.Deliverables, err = l.deliverables.ListByOrg(ctx, orgID)
		return
	})
	fetch("conversations", func(ctx context.Context) (err error) {
		c.Conversations, err = l.conversations.ListByOrg(ctx, orgID)
		return
	})
	fetch("messages", func(ctx context.Context) (err error) {
		c.Messages, err = l.conversations.MessagesByOrg(ctx, orgID)
		return
	})
	fetch("scores", func(ctx context.Context) (err error) {
		c.Scores, err = l.scores.ListByOrg(ctx, orgID)
		return
	})
	fetch("events", func(ctx context.Context) (err error) {
		c.Events, err = l.events.ListByOrg(ctx, orgID)
		return
	})
	fetch("partners", func(ctx context.Context) (err error) {
		c.Partners, err = l.partners.ListByOrg(ctx, orgID)
		return
	})
	fetch("invitations", func(ctx context.Context) (err error) {
		c.Invitations, err = l.invitations.ListByOrg(ctx, orgID)
		return
	})

	if err := g.Wait(); err != nil {
		return Collections{}, err
	}
	return c, nil
}

// Snapshot fetches and converts in one step.
func (l *Loader) Snapshot(ctx context.Context, orgID primitive.ObjectID) (analytics.Snapshot, error) {
	c, err := l.Fetch(ctx, orgID)
	if err != nil {
		return analytics.Snapshot{}, err
	}
	return c.Snapshot(), nil
}

// Snapshot converts stored documents into analytics rows. Statuses are
// mapped to their enums and missing timestamps become invalid stamps.
func (c Collections) Snapshot() analytics.Snapshot {
	var s analytics.Snapshot

	for _, p := range c.Projects {
		row := analytics.Project{
			ID:            p.ID.Hex(),
			Name:          p.Name,
			Status:        analytics.ParseProjectStatus(p.Status),
			FundingRaised: p.FundingRaised,
			Created:       analytics.StampOf(p.CreatedAt),
		}
		if p.OwnerID != nil {
			row.OwnerID = p.OwnerID.Hex()
		}
		s.Projects = append(s.Projects, row)
	}

	for _, a := range c.Adherents {
		joined := a.JoinedAt
		if joined.IsZero() {
			joined = a.CreatedAt
		}
		s.Adherents = append(s.Adherents, analytics.Adherent{
			ID:                    a.ID.Hex(),
			Name:                  a.FullName(),
			Role:                  a.Role,
			Persona:               a.Persona,
			Mentored:              a.MentorID != nil,
			ProjectsCompleted:     a.ProjectsCompleted,
			DeliverablesCompleted: a.DeliverablesCompleted,
			Joined:                analytics.StampOf(joined),
		})
	}

	for _, m := range c.Mentors {
		s.Mentors = append(s.Mentors, analytics.Mentor{
			ID:      m.ID.Hex(),
			Name:    m.FullName,
			Active:  m.Status == "" || analytics.IsActiveStatus(m.Status),
			Created: analytics.StampOf(m.CreatedAt),
		})
	}

	for _, d := range c.Deliverables {
		s.AddDeliverable(analytics.Deliverable{
			ID:        d.ID.Hex(),
			ProjectID: d.ProjectID.Hex(),
			Kind:      analytics.DeliverableKind(d.Kind),
			Created:   analytics.StampOf(d.CreatedAt),
		})
	}

	for _, cv := range c.Conversations {
		s.Conversations = append(s.Conversations, analytics.Conversation{
			ID:      cv.ID.Hex(),
			Created: analytics.StampOf(cv.CreatedAt),
		})
	}
	for _, m := range c.Messages {
		s.Messages = append(s.Messages, analytics.Message{
			ID:             m.ID.Hex(),
			ConversationID: m.ConversationID.Hex(),
			Created:        analytics.StampOf(m.CreatedAt),
		})
	}

	for _, sc := range c.Scores {
		var final float64
		if sc.ScoreFinal != nil {
			final = *sc.ScoreFinal
		}
		s.Scores = append(s.Scores, analytics.Score{
			ID:        sc.ID.Hex(),
			ProjectID: sc.ProjectID.Hex(),
			Final:     final,
			Created:   analytics.StampOf(sc.CreatedAt),
		})
	}

	for _, e := range c.Events {
		s.Events = append(s.Events, analytics.Event{
			ID:           e.ID.Hex(),
			Type:         e.Type,
			Start:        analytics.StampOf(e.StartAt),
			End:          analytics.StampOf(e.EndAt),
			Participants: len(e.Participants),
		})
	}

	for _, p := range c.Partners {
		s.Partners = append(s.Partners, analytics.Partner{
			ID:           p.ID.Hex(),
			Type:         p.Type,
			Active:       analytics.IsActiveStatus(p.Status),
			Rating:       p.Rating,
			Contribution: p.Contribution,
			Created:      analytics.StampOf(p.CreatedAt),
		})
	}

	for _, inv := range c.Invitations {
		s.Invitations = append(s.Invitations, analytics.Invitation{
			ID:       inv.ID.Hex(),
			Accepted: inv.Status == models.InvitationAccepted,
			Created:  analytics.StampOf(inv.CreatedAt),
		})
	}

	return s
}
