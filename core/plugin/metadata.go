package plugin

import (
	"context"

	"LyricRec/model"
)

// Metadata is the raw result of a metadata lookup. Either record may be
// nil when the service had nothing or could not be reached.
type Metadata struct {
	Track  *model.LastfmTrack
	Artist *model.LastfmArtist
}

// MetadataPlugin 元数据插件接口
// Lookup never fails: transport errors and misses are logged and
// reported as absent records.
type MetadataPlugin interface {
	// Lookup 按 (artist, title) 查询歌曲与艺术家信息
	Lookup(ctx context.Context, query model.TrackQuery) Metadata

	// GetSource 获取插件来源标识
	GetSource() string
}
