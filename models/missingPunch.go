package models

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// MissingPunchSentinels are the placeholder timestamps the ADP export
// writes into a day entry's clock field when no punch was recorded.
// These are vendor conventions, not anything in our schema, and have
// changed between export versions before; keep them data, not logic.
var MissingPunchSentinels = []string{
	"2001-01-01T00:00:00-05:00",
	"2000-01-01T00:00:00-06:00",
}

func sentinelTimes() ([]time.Time, error) {
	times := make([]time.Time, 0, len(MissingPunchSentinels))
	for _, s := range MissingPunchSentinels {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("invalid missing-punch sentinel %q: %w", s, err)
		}
		times = append(times, t)
	}
	return times, nil
}

// GetMissingPunchTimecards returns the distinct timecards having at
// least one day entry whose clock-in or clock-out holds a sentinel
// placeholder. payPeriodId of 0 means all pay periods. A timecard with
// several missing punches appears once.
func GetMissingPunchTimecards(ctx context.Context, db *gorm.DB, payPeriodId int) ([]Timecard, error) {
	sentinels, err := sentinelTimes()
	if err != nil {
		return nil, err
	}

	timecards := tableName("timecards")
	dayEntries := tableName("day_entries")

	q := db.WithContext(ctx).Model(&Timecard{}).
		Distinct(timecards+".*").
		Joins(fmt.Sprintf("JOIN %s ON %s.timecard_id = %s.timecard_id", dayEntries, dayEntries, timecards)).
		Where(fmt.Sprintf("%s.clock_in_time IN ? OR %s.clock_out_time IN ?", dayEntries, dayEntries), sentinels, sentinels)
	if payPeriodId != 0 {
		q = q.Where(timecards+".pay_period_id = ?", payPeriodId)
	}

	var cards []Timecard
	if err := q.Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// GetWorkerIdsWithMissingPunches resolves the missing-punch timecards
// of a pay period to the unique set of worker ids. Worker ids, not
// associate ids: the contact directory only knows the former.
func GetWorkerIdsWithMissingPunches(ctx context.Context, db *gorm.DB, payPeriodId int) (map[string]struct{}, error) {
	sentinels, err := sentinelTimes()
	if err != nil {
		return nil, err
	}

	timecards := tableName("timecards")
	dayEntries := tableName("day_entries")
	employees := tableName("employees")

	q := db.WithContext(ctx).Model(&Timecard{}).
		Joins(fmt.Sprintf("JOIN %s ON %s.timecard_id = %s.timecard_id", dayEntries, dayEntries, timecards)).
		Joins(fmt.Sprintf("JOIN %s ON %s.associate_id = %s.associate_id", employees, employees, timecards)).
		Where(fmt.Sprintf("%s.clock_in_time IN ? OR %s.clock_out_time IN ?", dayEntries, dayEntries), sentinels, sentinels).
		Where(timecards+".pay_period_id = ?", payPeriodId).
		Distinct()

	var ids []string
	if err := q.Pluck(employees+".worker_id", &ids).Error; err != nil {
		return nil, err
	}

	workerIds := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		workerIds[id] = struct{}{}
	}
	return workerIds, nil
}
