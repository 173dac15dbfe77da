package track

import (
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/exp/slices"
)

func sortChapters(chapters []chapterRecord) {
	slices.SortStableFunc(chapters, func(a, b chapterRecord) int {
		return a.OrderIndex - b.OrderIndex
	})
}

// Find returns the tracks whose title, author or course fuzzily match query,
// closest titles first. An empty query matches everything.
func Find(tracks []*Track, query string) []*Track {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return tracks
	}

	var matches []*Track
	for _, t := range tracks {
		if fuzzy.MatchFold(query, t.Title) ||
			fuzzy.MatchFold(query, t.Author) ||
			fuzzy.MatchFold(query, t.CourseTitle.OrEmpty()) {
			matches = append(matches, t)
		}
	}

	slices.SortStableFunc(matches, func(a, b *Track) int {
		return levenshtein.Distance(query, strings.ToLower(a.Title)) -
			levenshtein.Distance(query, strings.ToLower(b.Title))
	})

	return matches
}

// IndexOf returns the position of the track with id, or -1.
func IndexOf(tracks []*Track, id string) int {
	return slices.IndexFunc(tracks, func(t *Track) bool {
		return t.ID == id
	})
}
