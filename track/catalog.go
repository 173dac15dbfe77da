package track

import (
	"encoding/json"
	"fmt"

	"github.com/lectern-cli/lectern/filesystem"
	"github.com/lectern-cli/lectern/internal/validate"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

type chapterRecord struct {
	ID         string `json:"id" validate:"required"`
	Title      string `json:"title" validate:"required"`
	Duration   string `json:"duration"`
	AudioURL   string `json:"audio_url"`
	OrderIndex int    `json:"order_index" validate:"gte=0"`
}

type record struct {
	ID          string          `json:"id" validate:"required"`
	Title       string          `json:"title" validate:"required"`
	Author      string          `json:"author"`
	CoverURL    string          `json:"cover_url"`
	Duration    string          `json:"duration"`
	AudioURL    string          `json:"audio_url"`
	CourseTitle string          `json:"course_title"`
	IsFavorite  bool            `json:"is_favorite"`
	Chapters    []chapterRecord `json:"chapters" validate:"dive"`
}

// Load reads a JSON catalog. Audiobook records with chapters expand into one
// track per chapter, in chapter order.
func Load(path string) ([]*Track, error) {
	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	return Parse(data)
}

// Parse decodes catalog JSON.
func Parse(data []byte) ([]*Track, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	var tracks []*Track
	for i, r := range records {
		if err := validate.Struct(r); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i+1, err)
		}
		tracks = append(tracks, r.tracks()...)
	}

	return tracks, nil
}

func (r record) tracks() []*Track {
	if len(r.Chapters) == 0 {
		return []*Track{{
			ID:           r.ID,
			Title:        r.Title,
			Author:       r.Author,
			CoverURL:     r.CoverURL,
			AudioLocator: optional(r.AudioURL),
			Duration:     optional(r.Duration),
			CourseTitle:  optional(r.CourseTitle),
			IsFavorite:   r.IsFavorite,
		}}
	}

	chapters := make([]chapterRecord, len(r.Chapters))
	copy(chapters, r.Chapters)
	sortChapters(chapters)

	return lo.Map(chapters, func(c chapterRecord, _ int) *Track {
		return &Track{
			ID:           c.ID,
			Title:        c.Title,
			Author:       r.Author,
			CoverURL:     r.CoverURL,
			AudioLocator: optional(c.AudioURL),
			Duration:     optional(c.Duration),
			CourseTitle:  mo.Some(r.Title),
			IsFavorite:   r.IsFavorite,
		}
	})
}

func optional(s string) mo.Option[string] {
	if s == "" {
		return mo.None[string]()
	}
	return mo.Some(s)
}
