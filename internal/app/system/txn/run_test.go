package txn

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/incubahub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestRun_WritesOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id := primitive.NewObjectID()
	err := Run(ctx, db, zap.NewNop(), func(ctx context.Context) error {
		_, err := db.Collection("txn_probe").InsertOne(ctx, bson.M{"_id": id})
		return err
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	n, err := db.Collection("txn_probe").CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("documents: got %d, want 1", n)
	}
}

func TestRun_ReturnsCallbackError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sentinel := errors.New("boom")
	err := Run(ctx, db, zap.NewNop(), func(ctx context.Context) error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Errorf("Run: got %v, want %v", err, sentinel)
	}
}
