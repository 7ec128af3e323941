package models

// Category is a node of the catalog tree. ParentID is a plain reference:
// deleting a parent nulls it on the children.
type Category struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	ParentID    *uint   `gorm:"index" json:"parent_id,omitempty"`
	Name        string  `gorm:"size:80;not null" json:"name"`
	Description *string `gorm:"size:255" json:"description,omitempty"`

	Parent   *Category  `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL" json:"-"`
	Products []Product  `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"-"`
}
