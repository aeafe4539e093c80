package models

// Category only decorates catalog sections; products reference it by name.
type Category struct {
	Name      string  `gorm:"primaryKey;size:100" json:"name"`
	BannerURL *string `gorm:"column:banner_url;size:1024" json:"banner_url"`
}

func (Category) TableName() string {
	return "categories"
}
