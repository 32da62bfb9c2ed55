package agent

import (
	"fmt"
	"strings"

	"LyricRec/model"
)

// RecommendationSystemPrompt is sent as the system message of the
// recommendation call. The user message carries the profile document.
const RecommendationSystemPrompt = `You are a music recommendation assistant that specializes in lyrics and emotional tone.
A user has shared a list of songs they deeply resonate with. Each song includes a lyrics excerpt, core emotional themes, and sentiment.
Your job is to recommend 5 new songs that are lyrically similar, emotionally aligned, or thematically relevant.
For each song, also provide:
1. A 20-second lyrics snippet that best matches the user's taste
2. An estimated time range for that snippet (e.g., "00:42 - 01:02")
3. The suggested lyrics as a string
4. The suggested snippet's start and end times as separate fields (HH:MM:SS)
5. A short reason explaining why the song and that specific part would resonate with the user
Do not include any of the songs already liked by the user. Focus on well-known songs with emotionally rich lyrics.
Respond in this exact JSON format:
{
  "recommendations": [
    {
      "title": "",
      "artist": "",
      "snippet_lyrics": "",
      "snippet_timestamps": "",
      "suggested_lyrics": "",
      "suggested_lyrics_start_time": "HH:MM:SS",
      "suggested_lyrics_end_time": "HH:MM:SS",
      "reason": ""
    }
  ]
}`

// featurePromptTemplate takes title, artist and the hint line.
const featurePromptTemplate = `
You are a music analysis expert. Analyze the song "%s" by %s and provide Spotify-style audio features.

%s

Based on your knowledge of this song, provide these audio features (scale 0.0 to 1.0 unless specified):

- danceability: How suitable for dancing (0.0 = not danceable, 1.0 = very danceable)
- energy: Intensity and power (0.0 = calm/quiet, 1.0 = energetic/loud)
- valence: Musical positivity (0.0 = sad/negative, 1.0 = happy/positive)
- acousticness: Acoustic vs electronic (0.0 = electronic, 1.0 = acoustic)
- instrumentalness: Amount of vocals (0.0 = very vocal, 1.0 = instrumental)
- speechiness: Amount of spoken words (0.0 = singing, 1.0 = speech/rap)
- liveness: Live performance feel (0.0 = studio, 1.0 = live recording)
- loudness: Overall loudness in dB (typically -30 to 0, average around -10)
- tempo: BPM (typically 50-200)
- key: Musical key as integer (0=C, 1=C#, 2=D, 3=D#, 4=E, 5=F, 6=F#, 7=G, 8=G#, 9=A, 10=A#, 11=B)
- mode: Major (1) or Minor (0)
- time_signature: Beat count per measure (usually 3, 4, or 5)


Be accurate based on the actual song. Respond ONLY with valid JSON. Round your numbers up:

{
    "danceability": 0.0,
    "energy": 0.0,
    "valence": 0.0,
    "acousticness": 0.0,
    "instrumentalness": 0.0,
    "speechiness": 0.0,
    "liveness": 0.0,
    "loudness": -10.0,
    "tempo": 120,
    "key": 0,
    "mode": 1,
    "time_signature": 4
}
`

// popularHintThreshold 超过该热度才在提示中标注为热门歌曲
const popularHintThreshold = 0.5

// FeatureHints renders the metadata hints embedded in the feature prompt.
func FeatureHints(hints model.NormalizedFeatures) string {
	var b strings.Builder
	if len(hints.Genres) > 0 {
		fmt.Fprintf(&b, "Genres: %s. ", strings.Join(hints.Genres, ", "))
	}
	if hints.DurationMs > 0 {
		seconds := hints.DurationMs / 1000
		fmt.Fprintf(&b, "Duration: %d:%02d. ", seconds/60, seconds%60)
	}
	if hints.Popularity > popularHintThreshold {
		b.WriteString("This is a popular/well-known song. ")
	}
	return b.String()
}

// BuildFeaturePrompt returns the user message of a feature synthesis call.
func BuildFeaturePrompt(artist, title string, hints model.NormalizedFeatures) string {
	return fmt.Sprintf(featurePromptTemplate, title, artist, FeatureHints(hints))
}
