package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Ingredient struct {
	ID              uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name            string    `gorm:"size:200;not null;index" json:"name" validate:"required,max=200"`
	MeasurementUnit string    `gorm:"size:50;not null" json:"measurement_unit" validate:"required,max=50"`
}

func (i *Ingredient) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type Tag struct {
	ID    uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name  string    `gorm:"size:50;not null;uniqueIndex" json:"name" validate:"required,max=50"`
	Slug  string    `gorm:"size:50;not null;uniqueIndex" json:"slug" validate:"required,max=50"`
	Color string    `gorm:"size:7;not null" json:"color" validate:"required,hexcolor,len=7"`
}

func (t *Tag) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
