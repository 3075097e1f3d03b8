package models

import "time"

// Book is a catalog entry. Books have no owner.
type Book struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title          string    `json:"title" gorm:"type:varchar(255);not null"`
	Author         string    `json:"author" gorm:"type:varchar(255);not null"`
	Pages          int       `json:"pages" gorm:"not null"`
	Summary        string    `json:"summary" gorm:"type:text"`
	PublishedMonth string    `json:"publishedMonth,omitempty" gorm:"type:varchar(20)"`
	PublishedYear  int       `json:"publishedYear,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
