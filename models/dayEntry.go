package models

import "time"

// DayEntry is a single worked day on a timecard. Clock times come
// through the feed verbatim, including the vendor's placeholder
// timestamps for punches that were never recorded.
type DayEntry struct {
	EntryId      string    `gorm:"column:entry_id;primaryKey;size:50" json:"entry_id"`
	TimecardId   string    `gorm:"column:timecard_id;size:25;index" json:"timecard_id"`
	EntryDate    time.Time `gorm:"column:entry_date;type:date" json:"entry_date"`
	ClockInTime  time.Time `gorm:"column:clock_in_time" json:"clock_in_time"`
	ClockOutTime time.Time `gorm:"column:clock_out_time" json:"clock_out_time"`

	Timecard *Timecard `gorm:"foreignKey:TimecardId;references:TimecardId" json:"timecard,omitempty"`
}

func (DayEntry) TableName() string {
	return tableName("day_entries")
}
