package plugin

import (
	"context"
	"errors"

	"LyricRec/core/lastfm"
	"LyricRec/logger"
	"LyricRec/model"
)

// trackArtistFetcher is the part of lastfm.Client the plugin needs.
type trackArtistFetcher interface {
	GetTrackInfo(ctx context.Context, artist, title string) (*model.LastfmTrack, error)
	GetArtistInfo(ctx context.Context, artist string) (*model.LastfmArtist, error)
}

// LastfmPlugin Last.fm 元数据插件实现
type LastfmPlugin struct {
	client trackArtistFetcher
}

var _ MetadataPlugin = (*LastfmPlugin)(nil)

// NewLastfmPlugin 创建 Last.fm 插件
func NewLastfmPlugin(client *lastfm.Client) *LastfmPlugin {
	return &LastfmPlugin{client: client}
}

// GetSource 返回插件来源标识
func (p *LastfmPlugin) GetSource() string {
	return model.SourceLastfm
}

// Lookup fetches the track record, then the artist record.
func (p *LastfmPlugin) Lookup(ctx context.Context, query model.TrackQuery) Metadata {
	var md Metadata

	track, err := p.client.GetTrackInfo(ctx, query.Artist, query.Title)
	switch {
	case err == nil:
		md.Track = track
	case errors.Is(err, lastfm.ErrNotFound):
		logger.Info("[LastfmPlugin] 未找到歌曲",
			logger.String("artist", query.Artist),
			logger.String("title", query.Title))
	default:
		logger.Warn("[LastfmPlugin] track lookup failed",
			logger.String("artist", query.Artist),
			logger.String("title", query.Title),
			logger.ErrorField(err))
	}

	artist, err := p.client.GetArtistInfo(ctx, query.Artist)
	switch {
	case err == nil:
		md.Artist = artist
	case errors.Is(err, lastfm.ErrNotFound):
		logger.Info("[LastfmPlugin] 未找到艺术家", logger.String("artist", query.Artist))
	default:
		logger.Warn("[LastfmPlugin] artist lookup failed",
			logger.String("artist", query.Artist),
			logger.ErrorField(err))
	}

	return md
}
