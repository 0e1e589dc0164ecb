// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection names shared by the stores and the index set.
const (
	Users         = "users"
	Organizations = "organizations"
	Projects      = "projects"
	Adherents     = "adherents"
	Mentors       = "mentors"
	Deliverables  = "deliverables"
	Conversations = "conversations"
	Messages      = "messages"
	Scores        = "scores"
	Events        = "events"
	Partners      = "partners"
	Invitations   = "invitations"
)

/*
EnsureAll is called from EnsureSchema at startup. Every collection gets an
organization_id + time index because the analytics fetch reads each one
by organization. Problems are collected so startup reports all of them.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	var problems []string
	for _, set := range indexSets() {
		if err := ensureIndexSet(ctx, db.Collection(set.collection), set.models, log); err != nil {
			problems = append(problems, set.collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type indexSet struct {
	collection string
	models     []mongo.IndexModel
}

func orgTime(coll, field string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: field, Value: 1}},
		Options: options.Index().SetName("idx_" + coll + "_org_" + field),
	}
}

func indexSets() []indexSet {
	return []indexSet{
		{Users, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "login_id_ci", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_users_loginidci"),
			},
			{
				Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "role", Value: 1}},
				Options: options.Index().SetName("idx_users_org_role"),
			},
		}},
		{Organizations, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "name_ci", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_orgs_nameci"),
			},
		}},
		{Projects, []mongo.IndexModel{orgTime(Projects, "created_at")}},
		{Adherents, []mongo.IndexModel{
			orgTime(Adherents, "joined_at"),
			{
				Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "mentor_id", Value: 1}},
				Options: options.Index().SetName("idx_adherents_org_mentor"),
			},
			{
				Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}},
				Options: options.Index().SetName("idx_adherents_org_fullnameci__id"),
			},
		}},
		{Mentors, []mongo.IndexModel{
			orgTime(Mentors, "created_at"),
			{
				Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}},
				Options: options.Index().SetName("idx_mentors_org_fullnameci__id"),
			},
		}},
		{Deliverables, []mongo.IndexModel{
			orgTime(Deliverables, "created_at"),
			{
				Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "kind", Value: 1}, {Key: "project_id", Value: 1}},
				Options: options.Index().SetName("idx_deliverables_org_kind_project"),
			},
		}},
		{Conversations, []mongo.IndexModel{
			orgTime(Conversations, "created_at"),
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "updated_at", Value: -1}},
				Options: options.Index().SetName("idx_conversations_user_updated"),
			},
		}},
		{Messages, []mongo.IndexModel{
			orgTime(Messages, "created_at"),
			{
				Keys:    bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: 1}},
				Options: options.Index().SetName("idx_messages_conversation_created"),
			},
		}},
		{Scores, []mongo.IndexModel{orgTime(Scores, "created_at")}},
		{Events, []mongo.IndexModel{orgTime(Events, "start_at")}},
		{Partners, []mongo.IndexModel{orgTime(Partners, "created_at")}},
		{Invitations, []mongo.IndexModel{
			orgTime(Invitations, "created_at"),
			{
				Keys:    bson.D{{Key: "token", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_invitations_token"),
			},
		}},
	}
}

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(b *bool) bool { return b != nil && *b }

func listIndexes(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make(map[string]existingIndex)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

// ensureIndexSet reconciles the desired indexes of one collection. An index
// with the same keys is reused when its uniqueness matches; otherwise it is
// dropped and recreated. Name differences alone are tolerated.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel, log *zap.Logger) error {
	existing, err := listIndexes(ctx, coll)
	if err != nil {
		// A collection that does not exist yet has no indexes to reconcile.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		start := time.Now()
		sig := keySig(m.Keys.(bson.D))
		name := ""
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}

		if ex, ok := existing[sig]; ok {
			if isUnique(ex.Unique) == isUnique(unique) {
				log.Debug("reusing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name))
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s: drop failed: %v", name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			log.Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", name),
				zap.String("keys", sig),
				zap.Error(err))
			errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		log.Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", isUnique(unique)),
			zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
