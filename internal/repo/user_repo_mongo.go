package repo

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"panchayat-portal/internal/domain"
)

type MongoUserRepo struct{ c *mongo.Collection }

func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{c: db.Collection(usersCollection)}
}

func (r *MongoUserRepo) Create(ctx context.Context, u *domain.User) error {
	if _, err := r.c.InsertOne(ctx, u); err != nil {
		return fmt.Errorf("create user: %w", mapMongoErr(err))
	}
	return nil
}

func (r *MongoUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepo) FindByEmailOrMobile(ctx context.Context, identifier string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"email": identifier},
		bson.M{"mobileNo": identifier},
	}})
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var u domain.User
	if err := r.c.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, fmt.Errorf("find user: %w", mapMongoErr(err))
	}
	return &u, nil
}

func (r *MongoUserRepo) UpdateAddress(ctx context.Context, id, address string, at time.Time) error {
	return r.set(ctx, id, bson.M{"address": address, "updatedAt": at})
}

func (r *MongoUserRepo) SetAccountStatus(ctx context.Context, id string, active bool, at time.Time) error {
	return r.set(ctx, id, bson.M{"accountStatus": active, "updatedAt": at})
}

func (r *MongoUserRepo) set(ctx context.Context, id string, fields bson.M) error {
	res, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update user: %w", mapMongoErr(err))
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update user: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *MongoUserRepo) List(ctx context.Context, f domain.UserFilter) ([]domain.User, int64, error) {
	filter := bson.M{}
	if s := strings.TrimSpace(f.Q); s != "" {
		re := bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
		filter["$or"] = bson.A{bson.M{"email": re}, bson.M{"userId": re}, bson.M{"username": re}}
	}
	total, err := r.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	cur, err := r.c.Find(ctx, filter, pageOpts(f.Offset, clampLimit(f.Limit, 20, 100)))
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	us := []domain.User{}
	if err := cur.All(ctx, &us); err != nil {
		return nil, 0, fmt.Errorf("decode users: %w", err)
	}
	return us, total, nil
}
