package lastfm

import (
	"context"
	"fmt"
	"net/url"

	"LyricRec/model"
)

// GetArtistInfo 获取艺术家信息 (artist.getInfo)
func (c *Client) GetArtistInfo(ctx context.Context, artist string) (*model.LastfmArtist, error) {
	params := url.Values{}
	params.Set("artist", artist)

	var resp model.LastfmArtistResponse
	if err := c.call(ctx, "artist.getInfo", params, &resp); err != nil {
		return nil, err
	}
	if resp.Error != 0 {
		if resp.Error == errCodeInvalidParams {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lastfm: artist.getInfo: api error %d: %s", resp.Error, resp.Message)
	}
	if resp.Artist == nil {
		return nil, ErrNotFound
	}
	return resp.Artist, nil
}
