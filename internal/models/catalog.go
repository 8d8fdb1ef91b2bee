package models

// Category is a static lookup table referenced by items.
type Category struct {
	BaseModel

	Name        string `gorm:"column:nama_kategori;type:varchar(50);uniqueIndex;not null" json:"nama_kategori"`
	Description string `gorm:"column:deskripsi;type:text" json:"deskripsi"`
}

// TableName keeps the table name aligned with the API vocabulary.
func (Category) TableName() string { return "kategori" }

// Location is a static lookup table referenced by items.
type Location struct {
	BaseModel

	Name        string `gorm:"column:nama_lokasi;type:varchar(100);uniqueIndex;not null" json:"nama_lokasi"`
	Description string `gorm:"column:deskripsi;type:text" json:"deskripsi"`
}

func (Location) TableName() string { return "lokasi" }
