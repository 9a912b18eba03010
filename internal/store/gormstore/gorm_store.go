package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"presizely/internal/charts"
	"presizely/internal/store"
	storemodel "presizely/internal/store/model"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type clusterModel = storemodel.ClusterModel

// GormStore implements cluster storage using Gorm + SQLite.
type GormStore struct {
	db *gorm.DB
}

var _ store.Store = (*GormStore)(nil)

// NewGormStore opens (creating if needed) the SQLite file at path.
func NewGormStore(path string) (*GormStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("gorm store: db path cannot be empty")
	}
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&clusterModel{}); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite + WAL: a little read parallelism for the HTTP handlers, writes stay serialised.
	sqlDB.SetMaxOpenConns(2)
	sqlDB.SetMaxIdleConns(2)
	return &GormStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *GormStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) InsertIfAbsent(ctx context.Context, clusters []charts.ClusterSummary) (int, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("gorm store not initialized")
	}
	if len(clusters) == 0 {
		return 0, nil
	}
	now := time.Now().Unix()
	inserted := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range clusters {
			m, err := newClusterModel(c, now)
			if err != nil {
				return err
			}
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "gender"}, {Name: "body_shape"}, {Name: "cluster_id"}},
				DoNothing: true,
			}).Create(&m)
			if res.Error != nil {
				return res.Error
			}
			inserted += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func (s *GormStore) List(ctx context.Context) ([]charts.ClusterSummary, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("gorm store not initialized")
	}
	var rows []clusterModel
	if err := s.db.WithContext(ctx).
		Order("gender ASC, body_shape ASC, cluster_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toSummaries(rows)
}

func (s *GormStore) ListGroup(ctx context.Context, gender string, bodyShape int) ([]charts.ClusterSummary, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("gorm store not initialized")
	}
	var rows []clusterModel
	if err := s.db.WithContext(ctx).
		Where("gender = ? AND body_shape = ?", normalizeGender(gender), bodyShape).
		Order("cluster_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toSummaries(rows)
}

func (s *GormStore) Get(ctx context.Context, key store.ClusterKey) (charts.ClusterSummary, error) {
	if s == nil || s.db == nil {
		return charts.ClusterSummary{}, fmt.Errorf("gorm store not initialized")
	}
	m, err := findCluster(s.db.WithContext(ctx), key)
	if err != nil {
		return charts.ClusterSummary{}, err
	}
	return toSummary(m)
}

func (s *GormStore) UpdateScores(ctx context.Context, key store.ClusterKey, mutate func(store.Scores) error) (store.Scores, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("gorm store not initialized")
	}
	if mutate == nil {
		return nil, fmt.Errorf("update scores requires a mutate func")
	}
	var out store.Scores
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := findCluster(tx, key)
		if err != nil {
			return err
		}
		scores := store.Scores{}
		if len(m.ScoresJSON) > 0 {
			if err := json.Unmarshal(m.ScoresJSON, &scores); err != nil {
				return fmt.Errorf("decode scores of cluster %d: %w", m.ClusterID, err)
			}
		}
		if err := mutate(scores); err != nil {
			return err
		}
		data, err := json.Marshal(scores)
		if err != nil {
			return err
		}
		if err := tx.Model(&m).Updates(map[string]interface{}{
			"scores_json": datatypes.JSON(data),
			"updated_at":  time.Now().Unix(),
		}).Error; err != nil {
			return err
		}
		out = scores
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func findCluster(db *gorm.DB, key store.ClusterKey) (clusterModel, error) {
	var m clusterModel
	err := db.Where("gender = ? AND body_shape = ? AND cluster_id = ?",
		normalizeGender(key.Gender), key.BodyShape, key.ClusterID).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, store.ErrNotFound
	}
	return m, err
}

func newClusterModel(c charts.ClusterSummary, now int64) (clusterModel, error) {
	centroid, err := json.Marshal(c.Centroid)
	if err != nil {
		return clusterModel{}, err
	}
	samples, err := json.Marshal(c.SampleData)
	if err != nil {
		return clusterModel{}, err
	}
	scores, err := json.Marshal(c.ConfidenceScores)
	if err != nil {
		return clusterModel{}, err
	}
	return clusterModel{
		Gender:        normalizeGender(c.Gender),
		BodyShape:     c.BodyShape,
		ClusterID:     c.ClusterID,
		SizeLabel:     strings.TrimSpace(c.SizeLabel),
		ClusterCount:  c.ClusterCount,
		CentroidJSON:  datatypes.JSON(centroid),
		SamplesJSON:   datatypes.JSON(samples),
		ScoresJSON:    datatypes.JSON(scores),
		CreatedAtUnix: now,
		UpdatedAtUnix: now,
	}, nil
}

func toSummaries(rows []clusterModel) ([]charts.ClusterSummary, error) {
	out := make([]charts.ClusterSummary, 0, len(rows))
	for _, row := range rows {
		c, err := toSummary(row)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func toSummary(m clusterModel) (charts.ClusterSummary, error) {
	c := charts.ClusterSummary{
		Gender:       m.Gender,
		BodyShape:    m.BodyShape,
		ClusterID:    m.ClusterID,
		SizeLabel:    m.SizeLabel,
		ClusterCount: m.ClusterCount,
	}
	if err := unmarshalColumn(m.CentroidJSON, &c.Centroid); err != nil {
		return c, fmt.Errorf("decode centroid of cluster %d: %w", m.ClusterID, err)
	}
	if err := unmarshalColumn(m.SamplesJSON, &c.SampleData); err != nil {
		return c, fmt.Errorf("decode samples of cluster %d: %w", m.ClusterID, err)
	}
	if err := unmarshalColumn(m.ScoresJSON, &c.ConfidenceScores); err != nil {
		return c, fmt.Errorf("decode scores of cluster %d: %w", m.ClusterID, err)
	}
	return c, nil
}

func unmarshalColumn(data datatypes.JSON, dest any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}

func normalizeGender(g string) string {
	return strings.ToLower(strings.TrimSpace(g))
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
