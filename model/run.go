package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// RunSummary describes one pipeline run.
type RunSummary struct {
	RunID        string         `json:"runId"`
	StartedAt    time.Time      `json:"startedAt"`
	FinishedAt   time.Time      `json:"finishedAt"`
	OutputPath   string         `json:"outputPath"`
	Total        int            `json:"total"`
	Enriched     int            `json:"enriched"`
	SourceCounts map[string]int `json:"sourceCounts"`
	SinksWritten []string       `json:"sinksWritten"`
	SinksFailed  []string       `json:"sinksFailed,omitempty"`

	// Document is the written document, kept for printing.
	Document *RecommendationDocument `json:"-"`
}

// Summarize counts enrichment results.
func Summarize(items []EnrichedRecommendation) (enriched int, sources map[string]int) {
	sources = map[string]int{SourceLastfm: 0, SourceChatGPT: 0}
	for _, item := range items {
		if item.Enrichment == nil {
			continue
		}
		enriched++
		for _, s := range item.Enrichment.DataSources {
			sources[s]++
		}
	}
	return enriched, sources
}

// StringList 自定义类型用于 GORM JSON 字段的自动扫描
type StringList []string

// Scan 实现 sql.Scanner 接口
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("model: cannot scan %T into StringList", value)
	}
	if len(bytes) == 0 || string(bytes) == "null" {
		*s = nil
		return nil
	}
	return json.Unmarshal(bytes, s)
}

// Value 实现 driver.Valuer 接口
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// RecommendationRun is the archived form of one run.
type RecommendationRun struct {
	ID            string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ItemCount     int             `gorm:"not null" json:"itemCount"`
	EnrichedCount int             `gorm:"not null" json:"enrichedCount"`
	Document      string          `gorm:"type:longtext" json:"document"`
	Tracks        []EnrichedTrack `gorm:"foreignKey:RunID" json:"tracks"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// TableName 指定表名
func (RecommendationRun) TableName() string {
	return "recommendation_runs"
}

// EnrichedTrack is one archived recommendation.
type EnrichedTrack struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID       string     `gorm:"type:varchar(36);index;not null" json:"runId"`
	Position    int        `gorm:"not null" json:"position"`
	Title       string     `gorm:"type:varchar(255)" json:"title"`
	Artist      string     `gorm:"type:varchar(255)" json:"artist"`
	Popularity  float64    `json:"popularity"`
	Genres      StringList `gorm:"type:json" json:"genres"`
	DataSources StringList `gorm:"type:json" json:"dataSources"`
	Enriched    bool       `json:"enriched"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// TableName 指定表名
func (EnrichedTrack) TableName() string {
	return "enriched_tracks"
}
