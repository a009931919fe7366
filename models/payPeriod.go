package models

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrPayPeriodNotFound = errors.New("pay period not found")

// PayPeriod is one Monday-to-Sunday payroll interval. Rows are created
// upstream by the payroll import; this job only reads them.
// StartDate <= EndDate always holds for imported rows.
type PayPeriod struct {
	PayPeriodId int       `gorm:"column:pay_period_id;primaryKey;autoIncrement" json:"pay_period_id"`
	StartDate   time.Time `gorm:"column:start_date;type:date;not null" json:"start_date"`
	EndDate     time.Time `gorm:"column:end_date;type:date;not null" json:"end_date"`
}

func (PayPeriod) TableName() string {
	return tableName("pay_periods")
}

// GetPayPeriodByStartDate returns the pay period whose start date
// equals startDate (layout 2006-01-02). Start dates are unique by
// operational convention rather than constraint; First takes the
// lowest id if that convention is ever violated.
func GetPayPeriodByStartDate(ctx context.Context, db *gorm.DB, startDate string) (*PayPeriod, error) {
	var payPeriod PayPeriod
	err := db.WithContext(ctx).
		Where("start_date = ?", startDate).
		Order("pay_period_id").
		First(&payPeriod).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPayPeriodNotFound
		}
		return nil, err
	}
	return &payPeriod, nil
}
