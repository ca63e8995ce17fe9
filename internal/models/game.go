package models

import "time"

// Game represents a catalog entry. Deletes are destructive: the row and its
// genre links are removed outright, with no soft-delete column.
type Game struct {
	ID          uint `gorm:"primarykey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Title       string `gorm:"size:255;not null"`
	Description string
	ReleaseDate *time.Time `gorm:"type:date"`
	Genres      []*Genre   `gorm:"many2many:game_genres;"`
}
