package plugin

import (
	"context"
	"errors"
	"testing"

	"LyricRec/core/lastfm"
	"LyricRec/model"
)

type stubFetcher struct {
	track     *model.LastfmTrack
	trackErr  error
	artist    *model.LastfmArtist
	artistErr error

	calls []string
}

func (s *stubFetcher) GetTrackInfo(ctx context.Context, artist, title string) (*model.LastfmTrack, error) {
	s.calls = append(s.calls, "track:"+artist+"/"+title)
	return s.track, s.trackErr
}

func (s *stubFetcher) GetArtistInfo(ctx context.Context, artist string) (*model.LastfmArtist, error) {
	s.calls = append(s.calls, "artist:"+artist)
	return s.artist, s.artistErr
}

func TestLastfmPlugin_Lookup(t *testing.T) {
	track := &model.LastfmTrack{Name: "Hurt"}
	artist := &model.LastfmArtist{Name: "Johnny Cash"}

	tests := []struct {
		name       string
		fetcher    *stubFetcher
		wantTrack  bool
		wantArtist bool
	}{
		{
			name:       "both found",
			fetcher:    &stubFetcher{track: track, artist: artist},
			wantTrack:  true,
			wantArtist: true,
		},
		{
			name:       "track not found",
			fetcher:    &stubFetcher{trackErr: lastfm.ErrNotFound, artist: artist},
			wantArtist: true,
		},
		{
			name:    "transport failures become absent data",
			fetcher: &stubFetcher{trackErr: errors.New("timeout"), artistErr: errors.New("503")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &LastfmPlugin{client: tt.fetcher}
			md := p.Lookup(context.Background(), model.TrackQuery{Artist: "Johnny Cash", Title: "Hurt"})

			if (md.Track != nil) != tt.wantTrack {
				t.Fatalf("track: got %v, want present=%v", md.Track, tt.wantTrack)
			}
			if (md.Artist != nil) != tt.wantArtist {
				t.Fatalf("artist: got %v, want present=%v", md.Artist, tt.wantArtist)
			}
			want := []string{"track:Johnny Cash/Hurt", "artist:Johnny Cash"}
			if len(tt.fetcher.calls) != 2 || tt.fetcher.calls[0] != want[0] || tt.fetcher.calls[1] != want[1] {
				t.Fatalf("calls: got %v, want %v", tt.fetcher.calls, want)
			}
		})
	}
}

func TestLastfmPlugin_GetSource(t *testing.T) {
	if got := NewLastfmPlugin(lastfm.NewClient("k")).GetSource(); got != model.SourceLastfm {
		t.Fatalf("GetSource: got %q", got)
	}
}
