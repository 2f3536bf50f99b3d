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

type PostRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{
		coll: db.Collection(collectionPosts),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

type postDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	AuthorID  primitive.ObjectID `bson:"author_id"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d postDoc) toDomain() *domain.Post {
	return &domain.Post{
		ID:        d.ID.Hex(),
		AuthorID:  d.AuthorID.Hex(),
		Content:   d.Content,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

type authorDoc struct {
	ID             primitive.ObjectID `bson:"_id"`
	PublicID       string             `bson:"public_id"`
	Username       string             `bson:"username"`
	Bio            string             `bson:"bio"`
	ProfilePicture string             `bson:"profile_picture"`
}

// feedDoc is one row of the feed aggregation.
type feedDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	AuthorID  primitive.ObjectID `bson:"author_id"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
	Author    authorDoc          `bson:"author"`
}

func (d feedDoc) toDomain() *domain.FeedItem {
	post := postDoc{ID: d.ID, AuthorID: d.AuthorID, Content: d.Content, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
	return &domain.FeedItem{
		Post: *post.toDomain(),
		Author: domain.ProfileSummary{
			ID:             d.Author.ID.Hex(),
			PublicID:       d.Author.PublicID,
			Username:       d.Author.Username,
			Bio:            d.Author.Bio,
			ProfilePicture: d.Author.ProfilePicture,
		},
	}
}

func postIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	authorID, err := objectID(p.AuthorID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := postDoc{
		ID:        primitive.NewObjectID(),
		AuthorID:  authorID,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	p.ID = doc.ID.Hex()
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc postDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return doc.toDomain(), nil
}

// Update sets only the mutable fields; author_id and created_at are never
// part of the update document.
func (r *PostRepository) Update(ctx context.Context, id string, patch domain.PostPatch) (*domain.Post, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": r.now()}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc postDoc
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc postDoc
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("delete post: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PostRepository) DeleteByAuthor(ctx context.Context, authorID string) (int64, error) {
	oid, err := objectID(authorID)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"author_id": oid})
	if err != nil {
		return 0, fmt.Errorf("delete posts by author: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *PostRepository) ListByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error) {
	oid, err := objectID(authorID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"author_id": oid}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	out := make([]*domain.Post, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *PostRepository) Feed(ctx context.Context, authorIDs []string, limit int) ([]*domain.FeedItem, error) {
	oids := objectIDs(authorIDs)
	if len(oids) == 0 {
		return []*domain.FeedItem{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Aggregate(ctx, feedPipeline(oids, limit))
	if err != nil {
		return nil, fmt.Errorf("feed aggregate: %w", err)
	}
	var docs []feedDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	out := make([]*domain.FeedItem, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// feedPipeline selects posts by authors, newest first, and joins each with
// its author profile. Posts whose author no longer exists are dropped by
// the $unwind.
func feedPipeline(authors []primitive.ObjectID, limit int) mongo.Pipeline {
	p := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"author_id": bson.M{"$in": authors}}}},
		{{Key: "$sort", Value: newestFirst}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionProfiles,
			"localField":   "author_id",
			"foreignField": "_id",
			"as":           "author",
		}}},
		{{Key: "$unwind", Value: "$author"}},
	}
	// The limit applies to joined posts so a vanished author cannot hide
	// the newest surviving one.
	if limit > 0 {
		p = append(p, bson.D{{Key: "$limit", Value: int64(limit)}})
	}
	return append(p,
		bson.D{{Key: "$project", Value: bson.M{
			"author_id":              1,
			"content":                1,
			"created_at":             1,
			"updated_at":             1,
			"author._id":             1,
			"author.public_id":       1,
			"author.username":        1,
			"author.bio":             1,
			"author.profile_picture": 1,
		}}},
	)
}
