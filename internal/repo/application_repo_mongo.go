package repo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"panchayat-portal/internal/domain"
)

type MongoApplicationRepo struct{ c *mongo.Collection }

func NewMongoApplicationRepo(db *mongo.Database) *MongoApplicationRepo {
	return &MongoApplicationRepo{c: db.Collection(applicationsCollection)}
}

func (r *MongoApplicationRepo) Create(ctx context.Context, a *domain.Application) error {
	if _, err := r.c.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("create application: %w", mapMongoErr(err))
	}
	return nil
}

func (r *MongoApplicationRepo) FindByID(ctx context.Context, id string) (*domain.Application, error) {
	var a domain.Application
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, fmt.Errorf("find application: %w", mapMongoErr(err))
	}
	return &a, nil
}

func (r *MongoApplicationRepo) List(ctx context.Context, f domain.ApplicationFilter) ([]domain.Application, int64, error) {
	filter := bson.M{}
	if f.OwnerID != "" {
		filter["ownerId"] = f.OwnerID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	total, err := r.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}
	cur, err := r.c.Find(ctx, filter, pageOpts(f.Offset, clampLimit(f.Limit, domain.LatestLimit, 100)))
	if err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}
	out := []domain.Application{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("decode applications: %w", err)
	}
	return out, total, nil
}

func (r *MongoApplicationRepo) Update(ctx context.Context, a *domain.Application) error {
	res, err := r.c.UpdateOne(ctx, bson.M{"_id": a.ID}, bson.M{"$set": bson.M{
		"service":      a.Service,
		"name":         a.Name,
		"mobileNo":     a.MobileNo,
		"address":      a.Address,
		"documentType": a.DocumentType,
		"status":       a.Status,
		"updatedAt":    a.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update application: %w", mapMongoErr(err))
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update application: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *MongoApplicationRepo) Delete(ctx context.Context, id string) (*domain.Application, error) {
	var a domain.Application
	if err := r.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, fmt.Errorf("delete application: %w", mapMongoErr(err))
	}
	return &a, nil
}
