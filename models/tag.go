package models

// Tag is a label shared between posts. Name holds the canonical form.
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:64;not null;uniqueIndex" json:"name"`
}

// PostTag links a post to a tag; the pair is the identity.
type PostTag struct {
	PostID string `gorm:"type:varchar(36);primaryKey"`
	TagID  uint   `gorm:"primaryKey;index"`
	Post   Post   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Tag    Tag    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// All returns every model that must be migrated, in dependency order.
func All() []interface{} {
	return []interface{}{&Post{}, &Comment{}, &Tag{}, &PostTag{}}
}
