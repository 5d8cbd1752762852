package model

// GrSubaward is a subaward institution on a request. The PI and grant
// admin references are each optional and point at gr_people rows.
type GrSubaward struct {
	SubawardID      int64  `gorm:"column:subaward_id;primaryKey"`
	RequestID       int64  `gorm:"column:request_id"`
	InstitutionName string `gorm:"column:institution_name"`
	PrimaryInvID    *int64 `gorm:"column:primaryinv_id"`
	GrAdminID       *int64 `gorm:"column:gradmin_id"`
}

func (GrSubaward) TableName() string {
	return "gr_subawards"
}
