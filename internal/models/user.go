package models

// User roles. Self-service endpoints can never change a role.
const (
	RoleStudent = "mahasiswa"
	RoleAdmin   = "admin"
)

// User describes a registered campus member (student or admin).
type User struct {
	BaseModel

	FullName  string `gorm:"column:nama_lengkap;type:varchar(100);not null" json:"nama_lengkap"`
	StudentID string `gorm:"column:nim;type:varchar(20);uniqueIndex;not null" json:"nim"`
	Email     string `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	Phone     string `gorm:"column:nomor_telepon;type:varchar(15)" json:"nomor_telepon"`
	Role      string `gorm:"type:varchar(16);not null;default:'mahasiswa'" json:"role"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
