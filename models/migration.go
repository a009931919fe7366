package models

import "gorm.io/gorm"

// MigrateTable creates the four attendance tables. Production rows are
// written by the payroll import; this exists for fresh integration-test
// databases.
func MigrateTable(db *gorm.DB) error {
	return db.AutoMigrate(
		&Employee{}, &PayPeriod{}, &Timecard{}, &DayEntry{},
	)
}
