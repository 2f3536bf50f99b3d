package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/socialnet/social-api/internal/core/domain"
)

// ProfileRepository stores profiles and the follow edges embedded in them.
// Edge writes touch two documents; with transactions enabled both happen
// atomically, otherwise the follower side is written first and a failure on
// the followee side is reported as domain.ErrEdgeDiverged.
type ProfileRepository struct {
	coll *mongo.Collection
	tx   txRunner
	now  func() time.Time
}

// NewProfileRepository returns a repository over the profiles collection.
// client may be nil when transactions is false.
func NewProfileRepository(client *mongo.Client, db *mongo.Database, transactions bool) *ProfileRepository {
	return &ProfileRepository{
		coll: db.Collection(collectionProfiles),
		tx:   txRunner{client: client, enabled: transactions},
		now:  func() time.Time { return time.Now().UTC() },
	}
}

type profileDoc struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty"`
	PublicID       string               `bson:"public_id"`
	Username       string               `bson:"username"`
	Bio            string               `bson:"bio"`
	ProfilePicture string               `bson:"profile_picture"`
	UserID         primitive.ObjectID   `bson:"user_id"`
	Followers      []primitive.ObjectID `bson:"followers"`
	Following      []primitive.ObjectID `bson:"following"`
	CreatedAt      time.Time            `bson:"created_at"`
	UpdatedAt      time.Time            `bson:"updated_at"`
}

func (d profileDoc) toDomain() *domain.Profile {
	return &domain.Profile{
		ID:             d.ID.Hex(),
		PublicID:       d.PublicID,
		Username:       d.Username,
		Bio:            d.Bio,
		ProfilePicture: d.ProfilePicture,
		UserID:         d.UserID.Hex(),
		Followers:      hexIDs(d.Followers),
		Following:      hexIDs(d.Following),
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
}

func profileIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "public_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "followers", Value: 1}}},
		{Keys: bson.D{{Key: "following", Value: 1}}},
	}
}

func (r *ProfileRepository) Create(ctx context.Context, p *domain.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	userID, err := objectID(p.UserID)
	if err != nil {
		return err
	}
	doc := profileDoc{
		ID:             primitive.NewObjectID(),
		PublicID:       p.PublicID,
		Username:       p.Username,
		Bio:            p.Bio,
		ProfilePicture: p.ProfilePicture,
		UserID:         userID,
		Followers:      objectIDs(p.Followers),
		Following:      objectIDs(p.Following),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrProfileExists
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	p.ID = doc.ID.Hex()
	return nil
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *ProfileRepository) FindByPublicID(ctx context.Context, publicID string) (*domain.Profile, error) {
	return r.findOne(ctx, bson.M{"public_id": publicID})
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	oid, err := objectID(userID)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"user_id": oid})
}

func (r *ProfileRepository) findOne(ctx context.Context, filter bson.M) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc profileDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ProfileRepository) FindManyByIDs(ctx context.Context, ids []string) ([]*domain.Profile, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []*domain.Profile{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find profiles: %w", err)
	}
	var docs []profileDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}

	out := make([]*domain.Profile, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *ProfileRepository) Update(ctx context.Context, publicID string, patch domain.ProfilePatch) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc profileDoc
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"public_id": publicID}, profileUpdate(patch, r.now()), opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return doc.toDomain(), nil
}

// profileUpdate builds a $set touching only the supplied fields.
func profileUpdate(patch domain.ProfilePatch, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	if patch.Username != nil {
		set["username"] = *patch.Username
	}
	if patch.Bio != nil {
		set["bio"] = *patch.Bio
	}
	if patch.ProfilePicture != nil {
		set["profile_picture"] = *patch.ProfilePicture
	}
	return bson.M{"$set": set}
}

// Delete removes the profile and pulls its ID from every other profile's
// edge lists.
func (r *ProfileRepository) Delete(ctx context.Context, publicID string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var deleted profileDoc
	err := r.tx.run(ctx, func(ctx context.Context) error {
		if err := r.coll.FindOneAndDelete(ctx, bson.M{"public_id": publicID}).Decode(&deleted); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return domain.ErrProfileNotFound
			}
			return fmt.Errorf("delete profile: %w", err)
		}

		filter := bson.M{"$or": bson.A{
			bson.M{"followers": deleted.ID},
			bson.M{"following": deleted.ID},
		}}
		update := bson.M{
			"$pull": bson.M{"followers": deleted.ID, "following": deleted.ID},
			"$set":  bson.M{"updated_at": r.now()},
		}
		if _, err := r.coll.UpdateMany(ctx, filter, update); err != nil {
			return fmt.Errorf("pull edges of deleted profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted.toDomain(), nil
}

func (r *ProfileRepository) AddFollow(ctx context.Context, followerID, followeeID string) error {
	return r.writeEdge(ctx, followerID, followeeID, true)
}

func (r *ProfileRepository) RemoveFollow(ctx context.Context, followerID, followeeID string) error {
	return r.writeEdge(ctx, followerID, followeeID, false)
}

// writeEdge applies or removes follower -> followee. The first write is
// guarded on the current membership so that two racing calls cannot both
// succeed.
func (r *ProfileRepository) writeEdge(ctx context.Context, followerID, followeeID string, add bool) error {
	follower, err := objectID(followerID)
	if err != nil {
		return err
	}
	followee, err := objectID(followeeID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.tx.run(ctx, func(ctx context.Context) error {
		now := r.now()

		guard := bson.M{"$ne": followee}
		conflict := domain.ErrAlreadyFollowing
		if !add {
			guard = bson.M{"$eq": followee}
			conflict = domain.ErrNotFollowing
		}
		res, err := r.coll.UpdateOne(ctx,
			bson.M{"_id": follower, "following": guard},
			edgeUpdate("following", followee, add, now),
		)
		if err != nil {
			return fmt.Errorf("write following: %w", err)
		}
		if res.MatchedCount == 0 {
			n, err := r.coll.CountDocuments(ctx, bson.M{"_id": follower})
			if err != nil {
				return fmt.Errorf("write following: %w", err)
			}
			if n == 0 {
				return domain.ErrProfileNotFound
			}
			return conflict
		}

		res, err = r.coll.UpdateOne(ctx, bson.M{"_id": followee}, edgeUpdate("followers", follower, add, now))
		if err == nil && res.MatchedCount == 0 {
			err = domain.ErrProfileNotFound
		}
		if err != nil {
			if r.tx.enabled {
				return fmt.Errorf("write followers: %w", err)
			}
			return fmt.Errorf("write followers: %w: %w", domain.ErrEdgeDiverged, err)
		}
		return nil
	})
}

func (r *ProfileRepository) SetFollower(ctx context.Context, followeeID, followerID string, present bool) (bool, error) {
	return r.setMember(ctx, followeeID, "followers", followerID, present)
}

func (r *ProfileRepository) SetFollowing(ctx context.Context, followerID, followeeID string, present bool) (bool, error) {
	return r.setMember(ctx, followerID, "following", followeeID, present)
}

func (r *ProfileRepository) setMember(ctx context.Context, ownerID, field, memberID string, present bool) (bool, error) {
	owner, err := objectID(ownerID)
	if err != nil {
		return false, err
	}
	member, err := objectID(memberID)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": owner}, edgeUpdate(field, member, present, r.now()))
	if err != nil {
		return false, fmt.Errorf("set %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return false, domain.ErrProfileNotFound
	}
	return res.ModifiedCount > 0, nil
}

func edgeUpdate(field string, id primitive.ObjectID, add bool, now time.Time) bson.M {
	op := "$pull"
	if add {
		op = "$addToSet"
	}
	return bson.M{
		op:     bson.M{field: id},
		"$set": bson.M{"updated_at": now},
	}
}

// ForEach iterates all profiles in _id order.
func (r *ProfileRepository) ForEach(ctx context.Context, fn func(*domain.Profile) error) error {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return fmt.Errorf("scan profiles: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc profileDoc
		if err := cur.Decode(&doc); err != nil {
			return fmt.Errorf("decode profile: %w", err)
		}
		if err := fn(doc.toDomain()); err != nil {
			return err
		}
	}
	return cur.Err()
}
