package entities

import (
	"time"
)

// GroupSource records which provider a chapter group was fetched from.
type GroupSource string

const (
	GroupSourceUnderground GroupSource = "underground"
	GroupSourceWebNovel    GroupSource = "webnovel"
)

// Group is one unit of reading content, possibly spanning a chapter range.
// Text holds the range label ("12 - 15" or "7") and Link is the natural key.
type Group struct {
	ID       uint        `gorm:"primaryKey" json:"id"`
	BookID   string      `gorm:"index;size:64" json:"book_id"`
	Text     string      `gorm:"size:64" json:"text"`
	Link     string      `gorm:"uniqueIndex;size:2048" json:"link"`
	LastRead int         `gorm:"default:0" json:"last_read"`
	Source   GroupSource `gorm:"index;size:20" json:"source"`

	// FirstChapter mirrors the first number of Text and is only used for ordering.
	FirstChapter int `gorm:"index" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Content is a downloaded chapter. GroupLink references chapter_groups.link, so the
// rows must be deleted before the owning group's link can change.
type Content struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupLink string    `gorm:"index;size:2048" json:"group_link"`
	Title     string    `gorm:"size:512" json:"title"`
	Body      string    `gorm:"type:text" json:"body,omitempty"`
	Group     Group     `gorm:"foreignKey:GroupLink;references:Link;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (Group) TableName() string {
	return "chapter_groups"
}

func (Content) TableName() string {
	return "contents"
}
