package model

import (
	"gorm.io/datatypes"
)

// ClusterModel is one seeded cluster with its learned confidence scores.
type ClusterModel struct {
	ID           int64          `gorm:"column:id;primaryKey"`
	Gender       string         `gorm:"column:gender;uniqueIndex:idx_cluster_key,priority:1"`
	BodyShape    int            `gorm:"column:body_shape;uniqueIndex:idx_cluster_key,priority:2"`
	ClusterID    int            `gorm:"column:cluster_id;uniqueIndex:idx_cluster_key,priority:3"`
	SizeLabel    string         `gorm:"column:size_label"`
	ClusterCount int            `gorm:"column:cluster_count"`
	CentroidJSON datatypes.JSON `gorm:"column:centroid_json;type:TEXT"`
	SamplesJSON  datatypes.JSON `gorm:"column:samples_json;type:TEXT"`
	ScoresJSON   datatypes.JSON `gorm:"column:scores_json;type:TEXT"`

	CreatedAtUnix int64 `gorm:"column:created_at"`
	UpdatedAtUnix int64 `gorm:"column:updated_at"`
}

func (ClusterModel) TableName() string { return "clusters" }
