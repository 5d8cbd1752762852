package model

import "time"

// Request is the root row every submission hangs off of.
type Request struct {
	RequestID int64     `gorm:"column:request_id;primaryKey"`
	TypeID    string    `gorm:"column:type_id"`
	Timestamp time.Time `gorm:"column:timestamp;autoCreateTime"`
	Method    string    `gorm:"column:method"`
	Requester int64     `gorm:"column:requester"`
}

func (Request) TableName() string {
	return "request"
}
