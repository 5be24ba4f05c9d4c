package entities

import (
	"time"

	"github.com/google/uuid"
)

// PivotTable backs the Acronym <-> Category many-to-many relationship.
// Its primary key is (acronym_id, category_id), so a pair can only be attached once.
const PivotTable = "acronym_categories"

type Acronym struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Short      string     `gorm:"size:255;not null;index" json:"short"`
	Long       string     `gorm:"size:1024;not null" json:"long"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"userID"`
	User       User       `gorm:"foreignKey:UserID" json:"-"`
	Categories []Category `gorm:"many2many:acronym_categories;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time  `json:"-"`
	UpdatedAt  time.Time  `json:"-"`
}

func (Acronym) TableName() string {
	return "acronyms"
}

type Category struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Name     string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Acronyms []Acronym `gorm:"many2many:acronym_categories;constraint:OnDelete:CASCADE" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

// CategoryNames returns the names of the given categories in order.
func CategoryNames(categories []Category) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}
