package sqlrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/pukpuk-backend/internal/data/repos"
	types "github.com/yungbote/pukpuk-backend/internal/domain/demand"
	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
)

type metadataRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMetadataRepo(db *gorm.DB, baseLog *logger.Logger) repos.MetadataRepo {
	return &metadataRepo{db: db, log: baseLog.With("repo", "MetadataRepo", "backend", "sql")}
}

func (r *metadataRepo) Get(ctx context.Context, key string) (*types.Metadata, error) {
	var m types.Metadata
	err := r.db.WithContext(ctx).Where(map[string]any{"key": key}).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repos.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get metadata %s: %w", key, err)
	}
	return &m, nil
}

func (r *metadataRepo) Touch(ctx context.Context, key string, at time.Time) error {
	m := &types.Metadata{Key: key, UpdatedAt: at.UTC()}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
	}).Create(m).Error
	if err != nil {
		return fmt.Errorf("touch metadata %s: %w", key, err)
	}
	return nil
}

func (r *metadataRepo) Delete(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Where(map[string]any{"key": key}).Delete(&types.Metadata{}).Error; err != nil {
		return fmt.Errorf("delete metadata %s: %w", key, err)
	}
	return nil
}
