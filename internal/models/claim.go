package models

// Claim statuses. At most one claim per item may ever reach diterima_pemilik.
const (
	ClaimStatusAwaitingOwner    = "menunggu_verifikasi_pemilik"
	ClaimStatusAcceptedByOwner  = "diterima_pemilik"
	ClaimStatusRejectedByOwner  = "ditolak_pemilik"
	ClaimStatusValidatedByAdmin = "divalidasi_admin"
	ClaimStatusRejectedByAdmin  = "ditolak_admin"
)

// Claim records a user's assertion that they found (or own) a reported item.
// The composite unique index backs the one-claim-per-user-per-item rule.
type Claim struct {
	BaseModel

	ItemID     string `gorm:"column:id_barang;type:uuid;not null;uniqueIndex:idx_klaim_barang_penemu" json:"id_barang"`
	Item       *Item  `gorm:"foreignKey:ItemID" json:"barang,omitempty"`
	ClaimantID string `gorm:"column:id_penemu;type:uuid;not null;uniqueIndex:idx_klaim_barang_penemu" json:"id_penemu"`
	Claimant   *User  `gorm:"foreignKey:ClaimantID" json:"penemu,omitempty"`

	FoundLocation string `gorm:"column:lokasi_ditemukan;type:varchar(150)" json:"lokasi_ditemukan"`
	Description   string `gorm:"column:deskripsi_penemuan;type:text" json:"deskripsi_penemuan"`
	EvidenceURL   string `gorm:"column:foto_penemuan" json:"foto_penemuan"`
	Status        string `gorm:"column:status_klaim;type:varchar(32);not null;default:'menunggu_verifikasi_pemilik';index" json:"status_klaim"`
}

func (Claim) TableName() string { return "klaim_penemuan" }
