package model

// AppEmail is a notification recipient for a request type. IsActive is a
// '0'/'1' character column in the legacy schema.
type AppEmail struct {
	ID           int64  `gorm:"column:id;primaryKey"`
	RequestType  string `gorm:"column:request_type"`
	EmailAddress string `gorm:"column:email_address"`
	IsActive     string `gorm:"column:is_active"`
}

func (AppEmail) TableName() string {
	return "app_email"
}
