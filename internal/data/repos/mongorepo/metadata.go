package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yungbote/pukpuk-backend/internal/data/repos"
	types "github.com/yungbote/pukpuk-backend/internal/domain/demand"
	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
)

type metadataRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewMetadataRepo(db *mongo.Database, baseLog *logger.Logger) repos.MetadataRepo {
	return &metadataRepo{coll: db.Collection(MetadataCollection), log: baseLog.With("repo", "MetadataRepo", "backend", "mongo")}
}

func (r *metadataRepo) Get(ctx context.Context, key string) (*types.Metadata, error) {
	var m types.Metadata
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: key}}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repos.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get metadata %s: %w", key, err)
	}
	m.UpdatedAt = m.UpdatedAt.UTC()
	return &m, nil
}

func (r *metadataRepo) Touch(ctx context.Context, key string, at time.Time) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: key}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: at.UTC()}}}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("touch metadata %s: %w", key, err)
	}
	return nil
}

func (r *metadataRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: key}}); err != nil {
		return fmt.Errorf("delete metadata %s: %w", key, err)
	}
	return nil
}
