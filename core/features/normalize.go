// Package features turns loosely-shaped Last.fm records into the fixed
// NormalizedFeatures record used by the enricher and the prompts.
package features

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"LyricRec/model"
)

// MaxGenres caps every genre list.
const MaxGenres = 5

// Normalize builds NormalizedFeatures from a track record and an optional
// artist record. A nil track yields a zero record with empty lists.
func Normalize(track *model.LastfmTrack, artist *model.LastfmArtist) model.NormalizedFeatures {
	out := model.NormalizedFeatures{Genres: []string{}}
	if track == nil {
		return out
	}

	out.Matched = true
	out.DurationMs = track.Duration.Int64()
	out.Playcount = track.Playcount.Int64()
	out.Listeners = track.Listeners.Int64()
	out.Genres = genreNames(track.TopTags.Tag)
	out.Popularity = Popularity(out.Playcount)

	if artist != nil {
		artistGenres := genreNames(artist.Tags.Tag)
		out.ArtistGenres = &artistGenres
	}
	return out
}

// genreNames lower-cases tag names and keeps the first MaxGenres in
// source order.
func genreNames(tags model.TagList) []string {
	names := tags.Names()
	if len(names) > MaxGenres {
		names = names[:MaxGenres]
	}
	lower := cases.Lower(language.Und)
	for i, name := range names {
		names[i] = lower.String(name)
	}
	return names
}
