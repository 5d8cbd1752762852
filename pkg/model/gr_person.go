package model

// GrPerson is a person referenced by a grant request. The same human may
// appear once per request; rows are never shared across requests.
type GrPerson struct {
	PersonID     int64  `gorm:"column:person_id;primaryKey"`
	RequestID    int64  `gorm:"column:request_id"`
	Name         string `gorm:"column:name"`
	EmailAddress string `gorm:"column:email_address"`
	EraID        string `gorm:"column:era_id"`
	Availability int16  `gorm:"column:availability"`
	ProjectRole  string `gorm:"column:project_role"`
	Effort       string `gorm:"column:effort"`
	AnnualFee    string `gorm:"column:annual_fee"`
}

func (GrPerson) TableName() string {
	return "gr_people"
}
