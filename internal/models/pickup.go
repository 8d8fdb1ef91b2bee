package models

import "time"

// Pickup statuses.
const (
	PickupStatusPending  = "pending"
	PickupStatusApproved = "disetujui"
	PickupStatusRejected = "ditolak"
)

// Pickup is a request to physically collect an item.
type Pickup struct {
	BaseModel

	ItemID      string `gorm:"column:id_barang;type:uuid;not null;index" json:"id_barang"`
	Item        *Item  `gorm:"foreignKey:ItemID" json:"barang,omitempty"`
	RequesterID string `gorm:"column:id_pengambil;type:uuid;not null;index" json:"id_pengambil"`
	Requester   *User  `gorm:"foreignKey:RequesterID" json:"pengambil,omitempty"`

	Message string `gorm:"column:pesan_pengambilan;type:text" json:"pesan_pengambilan"`
	Status  string `gorm:"column:status_pengambilan;type:varchar(16);not null;default:'pending';index" json:"status_pengambilan"`
}

func (Pickup) TableName() string { return "pengambilan" }

// PickupProof is admin-recorded evidence that an item was collected.
type PickupProof struct {
	BaseModel

	ItemID  string `gorm:"column:id_barang;type:uuid;not null;index" json:"id_barang"`
	Item    *Item  `gorm:"foreignKey:ItemID" json:"barang,omitempty"`
	AdminID string `gorm:"column:id_admin;type:uuid;not null" json:"id_admin"`
	Admin   *User  `gorm:"foreignKey:AdminID" json:"admin,omitempty"`

	PhotoURL   string    `gorm:"column:foto_bukti;not null" json:"foto_bukti"`
	Note       string    `gorm:"column:catatan;type:text" json:"catatan"`
	PickedUpAt time.Time `gorm:"column:tanggal_pengambilan;autoCreateTime" json:"tanggal_pengambilan"`
}

func (PickupProof) TableName() string { return "bukti_pengambilan" }
