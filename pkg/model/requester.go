package model

// Requester is a known submitter, keyed by email address. The token column
// holds the JWT most recently issued to them; auth checks it verbatim.
type Requester struct {
	RequesterID  int64  `gorm:"column:requester_id;primaryKey"`
	Name         string `gorm:"column:name"`
	EmailAddress string `gorm:"column:email_address"`
	IPAddress    string `gorm:"column:ip_address"`
	Token        string `gorm:"column:token"`
}

func (Requester) TableName() string {
	return "requester"
}
