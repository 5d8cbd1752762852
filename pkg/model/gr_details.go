package model

// GrDetails holds the grant request detail fields for one request.
// Date columns carry Y-m-d text and the subject flags are 0/1 smallints.
type GrDetails struct {
	RequestID          int64  `gorm:"column:request_id;primaryKey"`
	SponsorName        string `gorm:"column:sponsor_name"`
	FundingOpportunity string `gorm:"column:funding_opportunity"`
	Website            string `gorm:"column:website"`
	FundingMechanism   string `gorm:"column:funding_mechanism"`
	DueDate            string `gorm:"column:due_date"`
	ProposalTitle      string `gorm:"column:proposal_title"`
	ShortTitle         string `gorm:"column:short_title"`
	StartDate          string `gorm:"column:start_date"`
	EndDate            string `gorm:"column:end_date"`
	SubjHumans         int16  `gorm:"column:subj_humans"`
	HumanClinical      int16  `gorm:"column:human_clinical"`
	HumanP3Clinical    int16  `gorm:"column:human_p3_clinical"`
	SubjVertebrates    int16  `gorm:"column:subj_vertebrates"`
	SubjAgents         int16  `gorm:"column:subj_agents"`
	SubjStemcells      int16  `gorm:"column:subj_stemcells"`
	Comments           string `gorm:"column:comments"`
}

func (GrDetails) TableName() string {
	return "gr_details"
}
