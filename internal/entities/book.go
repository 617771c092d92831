package entities

import (
	"time"
)

// Book is a catalog entry. Authors and tags live in their own tables keyed
// by book ID so they can be queried and deduplicated independently.
type Book struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"index;size:512" json:"title"`
	SubTitle    string     `gorm:"size:512" json:"sub_title,omitempty"`
	ISBN        string     `gorm:"index;size:20" json:"isbn"`
	Lang        string     `gorm:"size:10" json:"lang"`
	Description string     `json:"description,omitempty"`
	Publisher   string     `gorm:"size:256" json:"publisher,omitempty"`
	PublishDate *time.Time `json:"publish_date,omitempty"`
	CoverImg    []byte     `json:"cover_img,omitempty"`

	Authors []Author `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"authors,omitempty"`
	Tags    []Tag    `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Author is one author row of a book.
type Author struct {
	ID     int64  `gorm:"primaryKey" json:"id"`
	BookID int64  `gorm:"index" json:"book_id"`
	Name   string `gorm:"index;size:256" json:"name"`
}

// Tag is one tag row of a book.
type Tag struct {
	ID     int64  `gorm:"primaryKey" json:"id"`
	BookID int64  `gorm:"index" json:"book_id"`
	Name   string `gorm:"index;size:100" json:"name"`
}

// AuthorNames returns the author names in record order.
func (b *Book) AuthorNames() []string {
	names := make([]string, 0, len(b.Authors))
	for _, a := range b.Authors {
		names = append(names, a.Name)
	}
	return names
}

// TagNames returns the tag names in record order.
func (b *Book) TagNames() []string {
	names := make([]string, 0, len(b.Tags))
	for _, t := range b.Tags {
		names = append(names, t.Name)
	}
	return names
}
