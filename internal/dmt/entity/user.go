package entity

// User 系统用户
type User struct {
	ID             int    `json:"id" gorm:"primaryKey"`
	Username       string `json:"username" gorm:"size:100;uniqueIndex;not null"`
	FullName       string `json:"full_name" gorm:"size:255;not null"`
	Role           Role   `json:"role" gorm:"size:100;not null"`
	CredentialHash string `json:"-" gorm:"size:255;not null"`
}

func (User) TableName() string {
	return "users"
}

// Principal 认证层解析出的当前调用者
type Principal struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}
