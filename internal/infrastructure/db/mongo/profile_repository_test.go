package mongo

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/socialnet/social-api/internal/core/domain"
)

var (
	followerOID = primitive.NewObjectID()
	followeeOID = primitive.NewObjectID()
)

func matched(n int) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n}, bson.E{Key: "nModified", Value: n})
}

// counted answers the aggregate behind CountDocuments.
func counted(n int) bson.D {
	ns := "social." + collectionProfiles
	if n == 0 {
		return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch)
	}
	return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: n}})
}

var writeFailed = mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "boom", Name: "BadValue"})

func commandNames(mt *mtest.T) []string {
	var names []string
	for _, ev := range mt.GetAllStartedEvents() {
		names = append(names, ev.CommandName)
	}
	return names
}

func TestProfileRepository_WriteEdge(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("follow twice is rejected", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.Client, mt.DB, false)
		mt.AddMockResponses(matched(0), counted(1))

		err := repo.AddFollow(context.Background(), followerOID.Hex(), followeeOID.Hex())
		if !errors.Is(err, domain.ErrAlreadyFollowing) {
			mt.Fatalf("expected ErrAlreadyFollowing, got %v", err)
		}
		if got := commandNames(mt); len(got) != 2 || got[0] != "update" || got[1] != "aggregate" {
			mt.Fatalf("expected guarded update then count, got %v", got)
		}
	})

	mt.Run("unfollow without edge is rejected", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.Client, mt.DB, false)
		mt.AddMockResponses(matched(0), counted(1))

		err := repo.RemoveFollow(context.Background(), followerOID.Hex(), followeeOID.Hex())
		if !errors.Is(err, domain.ErrNotFollowing) {
			mt.Fatalf("expected ErrNotFollowing, got %v", err)
		}
	})

	mt.Run("guard filters on current membership", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.Client, mt.DB, false)
		mt.AddMockResponses(matched(1), matched(1))

		if err := repo.RemoveFollow(context.Background(), followerOID.Hex(), followeeOID.Hex()); err != nil {
			mt.Fatalf("remove follow: %v", err)
		}
		ev := mt.GetStartedEvent()
		q := ev.Command.Lookup("updates", "0", "q")
		if id, ok := q.Document().Lookup("_id").ObjectIDOK(); !ok || id != followerOID {
			mt.Fatalf("expected follower _id in guard, got %v", q)
		}
		if id, ok := q.Document().Lookup("following", "$eq").ObjectIDOK(); !ok || id != followeeOID {
			mt.Fatalf("expected $eq guard on following, got %v", q)
		}
		if _, ok := ev.Command.Lookup("updates", "0", "u", "$pull", "following").ObjectIDOK(); !ok {
			mt.Fatalf("expected $pull on following, got %v", ev.Command)
		}
	})

	mt.Run("missing follower", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.Client, mt.DB, false)
		mt.AddMockResponses(matched(0), counted(0))

		err := repo.AddFollow(context.Background(), followerOID.Hex(), followeeOID.Hex())
		if !errors.Is(err, domain.ErrProfileNotFound) {
			mt.Fatalf("expected ErrProfileNotFound, got %v", err)
		}
	})

	mt.Run("missing followee leaves a diverged edge", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.Client, mt.DB, false)
		mt.AddMockResponses(matched(1), matched(0))

		err := repo.AddFollow(context.Background(), followerOID.Hex(), followeeOID.Hex())
		if !errors.Is(err, domain.ErrEdgeDiverged) || !errors.Is(err, domain.ErrProfileNotFound) {
			mt.Fatalf("expected diverged not-found edge, got %v", err)
		}
	})

	mt.Run("followee write failure without transactions", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.Client, mt.DB, false)
		mt.AddMockResponses(matched(1), writeFailed)

		err := repo.AddFollow(context.Background(), followerOID.Hex(), followeeOID.Hex())
		if !errors.Is(err, domain.ErrEdgeDiverged) {
			mt.Fatalf("expected ErrEdgeDiverged, got %v", err)
		}
	})

	mt.Run("followee write failure aborts the transaction", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.Client, mt.DB, true)
		mt.AddMockResponses(matched(1), writeFailed, mtest.CreateSuccessResponse())

		err := repo.AddFollow(context.Background(), followerOID.Hex(), followeeOID.Hex())
		if err == nil {
			mt.Fatalf("expected error")
		}
		if errors.Is(err, domain.ErrEdgeDiverged) {
			mt.Fatalf("transactional write must not report divergence: %v", err)
		}
		names := commandNames(mt)
		if len(names) == 0 || names[len(names)-1] != "abortTransaction" {
			mt.Fatalf("expected abortTransaction last, got %v", names)
		}
	})

	mt.Run("transactional follow commits", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.Client, mt.DB, true)
		mt.AddMockResponses(matched(1), matched(1), mtest.CreateSuccessResponse())

		if err := repo.AddFollow(context.Background(), followerOID.Hex(), followeeOID.Hex()); err != nil {
			mt.Fatalf("add follow: %v", err)
		}
		names := commandNames(mt)
		if len(names) != 3 || names[2] != "commitTransaction" {
			mt.Fatalf("expected two updates and a commit, got %v", names)
		}
	})
}

func TestProfileRepository_DeleteCascadesEdges(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("pulls the deleted id from every edge list", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.Client, mt.DB, false)
		deleted := bson.D{
			{Key: "_id", Value: followeeOID},
			{Key: "public_id", Value: "pub-b"},
			{Key: "username", Value: "bee"},
			{Key: "followers", Value: bson.A{followerOID}},
		}
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: deleted}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		p, err := repo.Delete(context.Background(), "pub-b")
		if err != nil {
			mt.Fatalf("delete: %v", err)
		}
		if p.PublicID != "pub-b" || p.ID != followeeOID.Hex() {
			mt.Fatalf("unexpected deleted profile %+v", p)
		}

		events := mt.GetAllStartedEvents()
		if len(events) != 2 || events[1].CommandName != "update" {
			mt.Fatalf("expected findAndModify then update, got %v", commandNames(mt))
		}
		cmd := events[1].Command
		if multi, ok := cmd.Lookup("updates", "0", "multi").BooleanOK(); !ok || !multi {
			mt.Fatalf("expected a multi update, got %v", cmd)
		}
		for i, field := range []string{"followers", "following"} {
			if id, ok := cmd.Lookup("updates", "0", "q", "$or", strconv.Itoa(i), field).ObjectIDOK(); !ok || id != followeeOID {
				mt.Fatalf("expected $or branch on %s, got %v", field, cmd)
			}
			if id, ok := cmd.Lookup("updates", "0", "u", "$pull", field).ObjectIDOK(); !ok || id != followeeOID {
				mt.Fatalf("expected $pull of deleted id from %s, got %v", field, cmd)
			}
		}
	})

	mt.Run("unknown profile", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.Client, mt.DB, false)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		if _, err := repo.Delete(context.Background(), "nope"); !errors.Is(err, domain.ErrProfileNotFound) {
			mt.Fatalf("expected ErrProfileNotFound, got %v", err)
		}
		if n := len(mt.GetAllStartedEvents()); n != 1 {
			mt.Fatalf("expected no cascade after a miss, got %d commands", n)
		}
	})
}
