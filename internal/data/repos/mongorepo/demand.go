package mongorepo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yungbote/pukpuk-backend/internal/data/repos"
	types "github.com/yungbote/pukpuk-backend/internal/domain/demand"
	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
)

const (
	DemandsCollection  = "demands"
	MetadataCollection = "metadata"
)

type demandRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewDemandRepo(db *mongo.Database, baseLog *logger.Logger) repos.DemandRepo {
	repoLog := baseLog.With("repo", "DemandRepo", "backend", "mongo")
	return &demandRepo{coll: db.Collection(DemandsCollection), log: repoLog}
}

// EnsureIndexes creates the per-user indexes list and aggregation queries use.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(DemandsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "productId", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create demand indexes: %w", err)
	}
	return nil
}

func (r *demandRepo) Create(ctx context.Context, records []*types.Record) error {
	if len(records) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(records))
	for _, rec := range records {
		docs = append(docs, rec)
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert demands: %w", err)
	}
	return nil
}

func (r *demandRepo) GetByID(ctx context.Context, userID, id string) (*types.Record, error) {
	var rec types.Record
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}, {Key: "userId", Value: userID}}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repos.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get demand: %w", err)
	}
	return &rec, nil
}

func listQuery(userID string, filter repos.ListFilter) bson.D {
	q := bson.D{{Key: "userId", Value: userID}}
	if filter.ProductID != "" {
		q = append(q, bson.E{Key: "productId", Value: filter.ProductID})
	}
	if filter.From != nil || filter.To != nil {
		rng := bson.D{}
		if filter.From != nil {
			rng = append(rng, bson.E{Key: "$gte", Value: filter.From.UTC()})
		}
		if filter.To != nil {
			rng = append(rng, bson.E{Key: "$lte", Value: filter.To.UTC()})
		}
		q = append(q, bson.E{Key: "date", Value: rng})
	}
	return q
}

func (r *demandRepo) List(ctx context.Context, userID string, filter repos.ListFilter) ([]*types.Record, int64, error) {
	q := listQuery(userID, filter)
	total, err := r.coll.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("count demands: %w", err)
	}

	dir := 1
	if filter.Desc {
		dir = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: filter.SortOrDefault(), Value: dir}, {Key: "_id", Value: 1}}).
		SetSkip(int64(filter.Offset))
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	out, err := r.find(ctx, q, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list demands: %w", err)
	}
	return out, total, nil
}

func (r *demandRepo) ListByProduct(ctx context.Context, userID, productID string) ([]*types.Record, error) {
	q := bson.D{{Key: "userId", Value: userID}, {Key: "productId", Value: productID}}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "createdAt", Value: 1}})
	out, err := r.find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("list demands for product: %w", err)
	}
	return out, nil
}

func (r *demandRepo) find(ctx context.Context, q bson.D, opts *options.FindOptions) ([]*types.Record, error) {
	cur, err := r.coll.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	out := make([]*types.Record, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces the stored document, so an absent ProductID removes the field.
func (r *demandRepo) Update(ctx context.Context, record *types.Record) error {
	filter := bson.D{{Key: "_id", Value: record.ID}, {Key: "userId", Value: record.UserID}}
	res, err := r.coll.ReplaceOne(ctx, filter, record)
	if err != nil {
		return fmt.Errorf("update demand: %w", err)
	}
	if res.MatchedCount == 0 {
		return repos.ErrNotFound
	}
	return nil
}

func (r *demandRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}, {Key: "userId", Value: userID}})
	if err != nil {
		return fmt.Errorf("delete demand: %w", err)
	}
	if res.DeletedCount == 0 {
		return repos.ErrNotFound
	}
	return nil
}

func scopeFilter(scope repos.Scope) bson.D {
	if scope.Global() {
		return bson.D{}
	}
	return bson.D{{Key: "userId", Value: scope.UserID}}
}

func (r *demandRepo) Count(ctx context.Context, scope repos.Scope) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, scopeFilter(scope))
	if err != nil {
		return 0, fmt.Errorf("count demands: %w", err)
	}
	return n, nil
}

func (r *demandRepo) DeleteAll(ctx context.Context, scope repos.Scope) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, scopeFilter(scope))
	if err != nil {
		return 0, fmt.Errorf("delete demands: %w", err)
	}
	r.log.Info("Deleted demand records", "deleted", res.DeletedCount, "global", scope.Global())
	return res.DeletedCount, nil
}

func (r *demandRepo) AggregateProducts(ctx context.Context, userID string) ([]*types.ProductAggregate, error) {
	cur, err := r.coll.Aggregate(ctx, productsPipeline(userID))
	if err != nil {
		return nil, fmt.Errorf("aggregate products: %w", err)
	}
	out := make([]*types.ProductAggregate, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	for _, p := range out {
		p.LastUpdated = p.LastUpdated.UTC()
	}
	return out, nil
}
