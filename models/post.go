package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a blog entry owned by the user that created it.
type Post struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"size:191;index;not null" json:"userId"`
	Title     string    `gorm:"size:400;not null" json:"title"`
	// Unsized so MySQL maps it to longtext; sanitized HTML can outgrow TEXT.
	Content   string    `gorm:"not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Tags      []Tag     `gorm:"-:all" json:"tags"`
	Comments  []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comments"`
}

// BeforeCreate assigns a UUID when the caller did not provide one.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
