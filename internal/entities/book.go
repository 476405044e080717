package entities

import (
	"time"
)

type Book struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"index;size:512" json:"name"`
	Author    string    `gorm:"index;size:256" json:"author"`
	Rating    float64   `json:"rating"`
	Completed bool      `gorm:"default:false" json:"completed"`
	LastRead  int       `gorm:"default:0" json:"last_read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UndergroundBook marks a book as affiliated with the underground provider.
// A book without this row is served from the web-novel provider only.
type UndergroundBook struct {
	BookID        string `gorm:"primaryKey;size:64" json:"book_id"`
	UndergroundID string `gorm:"size:128" json:"underground_id"`
	Book          Book   `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
}

// WebNovelBook holds the web-novel identity of a book. Rows are written by the
// onboarding flow or by the metadata lookup.
type WebNovelBook struct {
	BookID     string    `gorm:"primaryKey;size:64" json:"book_id"`
	WebNovelID string    `gorm:"size:128" json:"web_novel_id"`
	Link       string    `gorm:"size:2048" json:"link"`
	Book       Book      `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

func (UndergroundBook) TableName() string {
	return "underground_books"
}

func (WebNovelBook) TableName() string {
	return "web_novel_books"
}
