package client

import "encoding/json"

// Two wire conventions exist for games and genres: the flat canonical shape
// and a legacy nested one with an "attributes" envelope (genres under
// attributes.genres.data). The decoders here accept both, so callers only
// ever see the internal Game/Genre types.

type wireGenre struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Attributes *struct {
		Name string `json:"name"`
	} `json:"attributes"`
}

func (w wireGenre) normalize() Genre {
	name := w.Name
	if w.Attributes != nil && w.Attributes.Name != "" {
		name = w.Attributes.Name
	}
	return Genre{ID: w.ID, Name: name}
}

// wireGenreList absorbs either a bare array or a {"data": [...]} wrapper.
type wireGenreList struct {
	items []wireGenre
}

func (l *wireGenreList) UnmarshalJSON(b []byte) error {
	if err := json.Unmarshal(b, &l.items); err == nil {
		return nil
	}
	var wrapped struct {
		Data []wireGenre `json:"data"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return err
	}
	l.items = wrapped.Data
	return nil
}

type wireGameAttributes struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	ReleaseDate string        `json:"release_date"`
	Genres      wireGenreList `json:"genres"`
}

type wireGame struct {
	ID int `json:"id"`
	wireGameAttributes
	Attributes *wireGameAttributes `json:"attributes"`
}

func (w wireGame) normalize() Game {
	attrs := w.wireGameAttributes
	if w.Attributes != nil {
		attrs = *w.Attributes
	}

	genres := make([]Genre, 0, len(attrs.Genres.items))
	for _, genre := range attrs.Genres.items {
		genres = append(genres, genre.normalize())
	}

	return Game{
		ID:          w.ID,
		Title:       attrs.Title,
		Description: attrs.Description,
		ReleaseDate: attrs.ReleaseDate,
		Genres:      genres,
	}
}
