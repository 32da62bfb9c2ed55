package lastfm

import (
	"context"
	"fmt"
	"net/url"

	"LyricRec/model"
)

// GetTrackInfo 获取歌曲信息 (track.getInfo)
func (c *Client) GetTrackInfo(ctx context.Context, artist, title string) (*model.LastfmTrack, error) {
	params := url.Values{}
	params.Set("artist", artist)
	params.Set("track", title)

	var resp model.LastfmTrackResponse
	if err := c.call(ctx, "track.getInfo", params, &resp); err != nil {
		return nil, err
	}
	if resp.Error != 0 {
		if resp.Error == errCodeInvalidParams {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lastfm: track.getInfo: api error %d: %s", resp.Error, resp.Message)
	}
	if resp.Track == nil {
		return nil, ErrNotFound
	}
	return resp.Track, nil
}
