package models

import "time"

// Report types for an item.
const (
	ReportTypeLost  = "hilang"
	ReportTypeFound = "ditemukan"
)

// Item lifecycle statuses. A student-authored report starts out pending and
// becomes open once an admin verifies it; claims and pickups move it through
// proses_klaim towards the terminal selesai.
const (
	ItemStatusPending = "pending"
	ItemStatusOpen    = "open"
	ItemStatusInClaim = "proses_klaim"
	ItemStatusDone    = "selesai"
)

// Owner-verification phases tracked alongside the item status.
const (
	VerificationNone          = "belum_diverifikasi"
	VerificationAwaitingOwner = "menunggu_pemilik"
	VerificationAccepted      = "diterima_pemilik"
	VerificationRejected      = "ditolak_pemilik"
)

// Item is a lost/found report, the central entity of the system.
type Item struct {
	BaseModel

	Name               string     `gorm:"column:nama_barang;type:varchar(100);not null" json:"nama_barang"`
	Description        string     `gorm:"column:deskripsi;type:text;not null" json:"deskripsi"`
	ImageURL           string     `gorm:"column:gambar_url" json:"gambar_url"`
	ReportType         string     `gorm:"column:tipe_laporan;type:varchar(16);not null;index" json:"tipe_laporan"`
	Status             string     `gorm:"type:varchar(16);not null;default:'open';index" json:"status"`
	VerificationStatus string     `gorm:"column:status_verifikasi;type:varchar(32);not null;default:'belum_diverifikasi'" json:"status_verifikasi"`
	OccurredOn         *time.Time `gorm:"column:tanggal_kejadian;type:date" json:"tanggal_kejadian"`

	ReporterID string    `gorm:"column:id_pelapor;type:uuid;not null;index" json:"id_pelapor"`
	Reporter   *User     `gorm:"foreignKey:ReporterID" json:"pelapor,omitempty"`
	CategoryID string    `gorm:"column:id_kategori;type:uuid;not null" json:"id_kategori"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"kategori,omitempty"`
	LocationID *string   `gorm:"column:id_lokasi;type:uuid" json:"id_lokasi"`
	Location   *Location `gorm:"foreignKey:LocationID" json:"lokasi,omitempty"`

	Photos []ItemPhoto `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"foto,omitempty"`
	Claims []Claim     `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Item) TableName() string { return "barang" }

// ItemPhoto is an additional image attached to an item.
type ItemPhoto struct {
	BaseModel

	ItemID string `gorm:"column:id_barang;type:uuid;not null;index" json:"id_barang"`
	URL    string `gorm:"column:url_foto;not null" json:"url_foto"`
}

func (ItemPhoto) TableName() string { return "foto_barang" }
