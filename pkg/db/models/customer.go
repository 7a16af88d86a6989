package models

import "time"

// Customer references an order's buyer. Document is stored normalized:
// digits only, 11 (CPF) or 14 (CNPJ) characters.
type Customer struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;not null"`
	Email     string    `gorm:"column:email;index;not null"`
	Document  string    `gorm:"column:document;index;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides GORM's default pluralization.
func (Customer) TableName() string {
	return "customers"
}
