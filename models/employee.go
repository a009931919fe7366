package models

// Employee is a payroll worker as exported from the ADP
// time-and-attendance feed. AssociateId is the internal primary key;
// WorkerId is the externally visible identifier that the SlickText
// contact directory carries in its adp_associate_id custom field, and
// is the only join key between the two systems.
type Employee struct {
	AssociateId string `gorm:"column:associate_id;primaryKey;size:20" json:"associate_id"`
	WorkerId    string `gorm:"column:worker_id;uniqueIndex;size:20;not null" json:"worker_id"`
	FirstName   string `gorm:"column:first_name;size:25" json:"first_name"`
	LastName    string `gorm:"column:last_name;size:25" json:"last_name"`

	Timecards []Timecard `gorm:"foreignKey:AssociateId;references:AssociateId" json:"timecards,omitempty"`
}

func (Employee) TableName() string {
	return tableName("employees")
}
