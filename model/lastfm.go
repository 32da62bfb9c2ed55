package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// LastfmTag is a single entry of a Last.fm tag list.
type LastfmTag struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// TagList decodes the Last.fm "tag" field, which is a list when several
// tags exist and a bare object when there is exactly one.
type TagList []LastfmTag

// UnmarshalJSON 兼容数组与单个对象两种形态
func (t *TagList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*t = TagList{}
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil
		}
		tags := make(TagList, 0, len(raw))
		for _, item := range raw {
			item = bytes.TrimSpace(item)
			if len(item) == 0 || item[0] != '{' {
				continue
			}
			var tag LastfmTag
			if err := json.Unmarshal(item, &tag); err != nil {
				continue
			}
			tags = append(tags, tag)
		}
		*t = tags
	case '{':
		var tag LastfmTag
		if err := json.Unmarshal(trimmed, &tag); err != nil {
			return nil
		}
		*t = TagList{tag}
	}
	return nil
}

// Names returns the tag names in source order.
func (t TagList) Names() []string {
	names := make([]string, 0, len(t))
	for _, tag := range t {
		names = append(names, tag.Name)
	}
	return names
}

// TagContainer wraps a TagList. Last.fm sends an empty string instead of
// an object when a track has no tags.
type TagContainer struct {
	Tag TagList `json:"tag"`
}

// UnmarshalJSON ignores anything that is not a JSON object.
func (c *TagContainer) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	c.Tag = TagList{}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var raw struct {
		Tag TagList `json:"tag"`
	}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil
	}
	if raw.Tag != nil {
		c.Tag = raw.Tag
	}
	return nil
}

// FlexInt accepts both JSON numbers and numeric strings. Last.fm reports
// counters as strings ("playcount": "123"). Unparseable values become 0.
type FlexInt int64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = 0
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*f = FlexInt(n)
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*f = FlexInt(int64(v))
	}
	return nil
}

// Int64 returns the value as int64.
func (f FlexInt) Int64() int64 {
	return int64(f)
}

// LastfmTrack is the "track" object of a track.getInfo response.
type LastfmTrack struct {
	Name      string       `json:"name"`
	URL       string       `json:"url,omitempty"`
	Duration  FlexInt      `json:"duration"`
	Listeners FlexInt      `json:"listeners"`
	Playcount FlexInt      `json:"playcount"`
	TopTags   TagContainer `json:"toptags"`
	Artist    struct {
		Name string `json:"name"`
	} `json:"artist"`
}

// LastfmArtist is the "artist" object of an artist.getInfo response.
type LastfmArtist struct {
	Name  string       `json:"name"`
	URL   string       `json:"url,omitempty"`
	Tags  TagContainer `json:"tags"`
	Stats struct {
		Listeners FlexInt `json:"listeners"`
		Playcount FlexInt `json:"playcount"`
	} `json:"stats"`
}

// LastfmTrackResponse is the envelope of track.getInfo.
type LastfmTrackResponse struct {
	Track   *LastfmTrack `json:"track"`
	Error   int          `json:"error,omitempty"`
	Message string       `json:"message,omitempty"`
}

// LastfmArtistResponse is the envelope of artist.getInfo.
type LastfmArtistResponse struct {
	Artist  *LastfmArtist `json:"artist"`
	Error   int           `json:"error,omitempty"`
	Message string        `json:"message,omitempty"`
}
