package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"LyricRec/model"
)

// RecommendationRepository 推荐归档仓库接口
type RecommendationRepository interface {
	// Migrate 创建或更新归档表
	Migrate(ctx context.Context) error

	// SaveRun 在同一事务中保存一次运行及其全部歌曲
	SaveRun(ctx context.Context, run *model.RecommendationRun) error

	// Ping 检查数据库连接
	Ping(ctx context.Context) error
}

// gormRecommendationRepository GORM 实现
type gormRecommendationRepository struct {
	db *gorm.DB
}

// NewGormRecommendationRepository 创建 GORM 推荐归档仓库
func NewGormRecommendationRepository(db *gorm.DB) RecommendationRepository {
	return &gormRecommendationRepository{db: db}
}

func (r *gormRecommendationRepository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&model.RecommendationRun{}, &model.EnrichedTrack{}); err != nil {
		return fmt.Errorf("failed to auto migrate archive tables: %w", err)
	}
	return nil
}

func (r *gormRecommendationRepository) SaveRun(ctx context.Context, run *model.RecommendationRun) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tracks := run.Tracks
		run.Tracks = nil
		defer func() { run.Tracks = tracks }()

		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("failed to save run %s: %w", run.ID, err)
		}
		if len(tracks) == 0 {
			return nil
		}
		for i := range tracks {
			tracks[i].RunID = run.ID
		}
		if err := tx.CreateInBatches(&tracks, 100).Error; err != nil {
			return fmt.Errorf("failed to save tracks of run %s: %w", run.ID, err)
		}
		return nil
	})
}

func (r *gormRecommendationRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
