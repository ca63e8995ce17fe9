package models

import "time"

// Genre represents a game genre (e.g., "RPG", "Shooter", "Co-op").
// Games and genres are many-to-many; deleting either side never cascades
// to the other. Deletes are destructive, so a deleted genre's name is
// immediately free for reuse.
type Genre struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string  `gorm:"size:100;uniqueIndex;not null"`
	Games     []*Game `gorm:"many2many:game_genres;"`
}
