package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/CoolizzLuo/graphql-demo/internal/models"
)

type mongoUser struct {
	ID           int64   `bson:"_id"`
	Email        string  `bson:"email"`
	PasswordHash string  `bson:"password_hash"`
	Name         string  `bson:"name"`
	Age          *int    `bson:"age,omitempty"`
	FriendIDs    []int64 `bson:"friend_ids"`
}

type mongoPost struct {
	ID           int64              `bson:"_id"`
	AuthorID     int64              `bson:"author_id"`
	Title        string             `bson:"title"`
	Body         string             `bson:"body"`
	LikeGiverIDs []int64            `bson:"like_giver_ids"`
	CreatedAt    primitive.DateTime `bson:"created_at"`
}

func (u *mongoUser) toModel() *models.User {
	friendIDs := u.FriendIDs
	if friendIDs == nil {
		friendIDs = []int64{}
	}
	return &models.User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Age:          u.Age,
		FriendIDs:    friendIDs,
	}
}

func (p *mongoPost) toModel() *models.Post {
	likeGiverIDs := p.LikeGiverIDs
	if likeGiverIDs == nil {
		likeGiverIDs = []int64{}
	}
	return &models.Post{
		ID:           p.ID,
		AuthorID:     p.AuthorID,
		Title:        p.Title,
		Body:         p.Body,
		LikeGiverIDs: likeGiverIDs,
		CreatedAt:    p.CreatedAt.Time().UTC(),
	}
}

// MongoStore is the EntityStore backed by MongoDB. Ids come from a counters
// collection incremented atomically, so they stay monotonic per kind and are
// never handed out twice even after deletes.
type MongoStore struct {
	users    *mongo.Collection
	posts    *mongo.Collection
	counters *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		users:    db.Collection("users"),
		posts:    db.Collection("posts"),
		counters: db.Collection("counters"),
	}
}

// EnsureIndexes creates the unique email index.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (s *MongoStore) nextID(ctx context.Context, kind string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": kind},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", kind, err)
	}
	return counter.Seq, nil
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*models.User, error) {
	var u mongoUser
	err := s.users.FindOne(ctx, filter, opts...).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u.toModel(), nil
}

func (s *MongoStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *MongoStore) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"name": name},
		options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (s *MongoStore) listUsers(ctx context.Context, filter bson.M) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.users.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(docs))
	for i := range docs {
		users = append(users, *docs[i].toModel())
	}
	return users, nil
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.listUsers(ctx, bson.M{})
}

func (s *MongoStore) ListUsersByIDs(ctx context.Context, ids []int64) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return s.listUsers(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (s *MongoStore) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	id, err := s.nextID(ctx, "users")
	if err != nil {
		return nil, err
	}
	doc := mongoUser{
		ID:           id,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Age:          u.Age,
		FriendIDs:    u.FriendIDs,
	}
	if doc.FriendIDs == nil {
		doc.FriendIDs = []int64{}
	}
	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return doc.toModel(), nil
}

func (s *MongoStore) UpdateUser(ctx context.Context, id int64, upd UserUpdate) (*models.User, error) {
	set := bson.M{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Age != nil {
		set["age"] = *upd.Age
	}
	if upd.FriendIDs != nil {
		set["friend_ids"] = *upd.FriendIDs
	}
	if len(set) == 0 {
		return s.GetUser(ctx, id)
	}

	var u mongoUser
	err := s.users.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u.toModel(), nil
}

func (s *MongoStore) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	var p mongoPost
	err := s.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p.toModel(), nil
}

func (s *MongoStore) listPosts(ctx context.Context, filter bson.M) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []mongoPost
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	posts := make([]models.Post, 0, len(docs))
	for i := range docs {
		posts = append(posts, *docs[i].toModel())
	}
	return posts, nil
}

func (s *MongoStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.listPosts(ctx, bson.M{})
}

func (s *MongoStore) ListPostsByAuthor(ctx context.Context, authorID int64) ([]models.Post, error) {
	return s.listPosts(ctx, bson.M{"author_id": authorID})
}

func (s *MongoStore) CreatePost(ctx context.Context, p *models.Post) (*models.Post, error) {
	id, err := s.nextID(ctx, "posts")
	if err != nil {
		return nil, err
	}
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	doc := mongoPost{
		ID:           id,
		AuthorID:     p.AuthorID,
		Title:        p.Title,
		Body:         p.Body,
		LikeGiverIDs: p.LikeGiverIDs,
		CreatedAt:    primitive.NewDateTimeFromTime(createdAt),
	}
	if doc.LikeGiverIDs == nil {
		doc.LikeGiverIDs = []int64{}
	}
	if _, err := s.posts.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return doc.toModel(), nil
}

func (s *MongoStore) UpdatePost(ctx context.Context, id int64, upd PostUpdate) (*models.Post, error) {
	set := bson.M{}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Body != nil {
		set["body"] = *upd.Body
	}
	if upd.LikeGiverIDs != nil {
		set["like_giver_ids"] = *upd.LikeGiverIDs
	}
	if len(set) == 0 {
		return s.GetPost(ctx, id)
	}

	var p mongoPost
	err := s.posts.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p.toModel(), nil
}

func (s *MongoStore) DeletePost(ctx context.Context, id int64) (*models.Post, error) {
	var p mongoPost
	err := s.posts.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p.toModel(), nil
}
