package models

// Notification is a one-way message to a user. Only the read flag is mutable.
type Notification struct {
	BaseModel

	UserID  string `gorm:"column:id_pengguna;type:uuid;not null;index" json:"id_pengguna"`
	Title   string `gorm:"column:judul;type:varchar(150);not null" json:"judul"`
	Message string `gorm:"column:pesan;type:text;not null" json:"pesan"`
	IsRead  bool   `gorm:"column:sudah_dibaca;default:false;index" json:"sudah_dibaca"`
}

func (Notification) TableName() string { return "notifikasi" }
