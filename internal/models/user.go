package models

type UserRole string

const (
	UserRoleAdmin   UserRole = "Admin"
	UserRoleStudent UserRole = "Student"
)

func (r UserRole) Valid() bool {
	return r == UserRoleAdmin || r == UserRoleStudent
}

// Avatar is stored inline on the user row. StorageID is the object name in the
// avatar bucket, kept so the object can be removed with the account.
type Avatar struct {
	StorageID string `json:"storageId" gorm:"column:avatar_storage_id;type:text;not null"`
	URL       string `json:"url" gorm:"column:avatar_url;type:text;not null"`
}

type User struct {
	BaseModel
	Name         string   `json:"name" gorm:"type:varchar(100);not null"`
	Email        string   `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Phone        int64    `json:"phone" gorm:"not null"`
	PasswordHash string   `json:"-" gorm:"type:text;not null"`
	Role         UserRole `json:"role" gorm:"type:varchar(20);not null"`
	Avatar       Avatar   `json:"avatar" gorm:"embedded"`
}
