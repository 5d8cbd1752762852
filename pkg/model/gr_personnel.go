package model

// GrPersonnel links a person row to a request under a link type
// ("personnel" or "consultant").
type GrPersonnel struct {
	RequestID int64  `gorm:"column:request_id"`
	PersonID  int64  `gorm:"column:person_id"`
	Type      string `gorm:"column:type"`
}

func (GrPersonnel) TableName() string {
	return "gr_personnel"
}
