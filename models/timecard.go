package models

// Timecard aggregates one employee's day entries for one pay period.
type Timecard struct {
	TimecardId    string `gorm:"column:timecard_id;primaryKey;size:25" json:"timecard_id"`
	AssociateId   string `gorm:"column:associate_id;size:20;index" json:"associate_id"`
	PayPeriodId   int    `gorm:"column:pay_period_id;not null;index" json:"pay_period_id"`
	HasExceptions bool   `gorm:"column:has_exceptions;not null" json:"has_exceptions"`

	Employee   *Employee  `gorm:"foreignKey:AssociateId;references:AssociateId" json:"employee,omitempty"`
	DayEntries []DayEntry `gorm:"foreignKey:TimecardId;references:TimecardId" json:"day_entries,omitempty"`
}

func (Timecard) TableName() string {
	return tableName("timecards")
}
