// Package reminder drives one run of the time adjustment reminder:
// find last week's pay period, collect the workers whose timecards
// have missing punches, match them to SlickText contacts through the
// adp_associate_id custom field, and send the matched audience an SMS
// campaign.
//
// A re-run after a partial failure (list created, campaign not) will
// create a second list with the same deterministic name; the API has
// no list lookup to de-duplicate against, and stray lists are harmless
// until a campaign references them.
package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"bitbucket.org/mmdatafocus/timecard_reminder/dateutil"
	"bitbucket.org/mmdatafocus/timecard_reminder/models"
	"bitbucket.org/mmdatafocus/timecard_reminder/slicktext"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReminderMessage is the fixed campaign body. Wording is owned by HR;
// change it here only when they do.
const ReminderMessage = "Our records show your timecard for last week is missing one or more punches. " +
	"Please submit a time adjustment request so payroll can process your hours on time. Thank you!"

// Directory is the slice of the SlickText client the run needs.
type Directory interface {
	GetAllContacts(ctx context.Context, filters url.Values) ([]slicktext.Contact, error)
	CreateContactList(ctx context.Context, name, description string) (*slicktext.ContactList, error)
	AddContactsToList(ctx context.Context, contactIDs []int, listID int) (json.RawMessage, error)
	CreateCampaign(ctx context.Context, name, message string, listID int, sendTime *time.Time) (*slicktext.Campaign, error)
}

var _ Directory = (*slicktext.Client)(nil)

type Options struct {
	// StartDate overrides the pay period start date (layout
	// 2006-01-02). Empty means last week's Monday.
	StartDate string
	// DryRun resolves the period and the matched contacts but issues
	// no mutating API calls.
	DryRun bool
}

// ListName derives the deterministic contact list (and campaign) name
// for a pay period.
func ListName(payPeriod *models.PayPeriod) string {
	return fmt.Sprintf("Time Adjustment Reminder %s - %s",
		payPeriod.StartDate.Format(dateutil.DefaultLayout),
		payPeriod.EndDate.Format(dateutil.DefaultLayout))
}

// MatchResult is the outcome of reconciling directory contacts against
// the missing-punch worker id set.
type MatchResult struct {
	// ContactIDs are the directory ids of matched contacts, in
	// directory order.
	ContactIDs []int
	// MissingWorkerId counts contacts whose custom fields carry no
	// adp_associate_id value. Expected: not every subscriber is an
	// employee.
	MissingWorkerId int
	// MissingCustomFields counts contacts with no custom fields block
	// at all, which the directory normally always returns. Data
	// quality signal.
	MissingCustomFields int
}

// ProcessContacts returns the contacts whose worker id custom field is
// a member of workerIds.
func ProcessContacts(contacts []slicktext.Contact, workerIds map[string]struct{}) MatchResult {
	var result MatchResult
	for _, contact := range contacts {
		if contact.CustomFields == nil {
			result.MissingCustomFields++
			continue
		}
		workerId := contact.CustomFields.AdpAssociateId
		if workerId == "" {
			result.MissingWorkerId++
			continue
		}
		if _, ok := workerIds[workerId]; ok {
			result.ContactIDs = append(result.ContactIDs, contact.ID)
		}
	}
	return result
}

// Run executes one reminder pass. The db handle is owned by the
// caller. "No pay period", "no missing punches" and "no matched
// contacts" are normal completions, not errors; anything else that
// stops the run propagates so the process can exit non-zero. Artifacts
// created before a failure are left in place.
func Run(ctx context.Context, db *gorm.DB, directory Directory, logger *logrus.Logger, opts Options) error {
	runLog := logger.WithFields(logrus.Fields{
		"module": "reminder",
		"runId":  uuid.NewString(),
	})

	startDate := opts.StartDate
	if startDate == "" {
		startDate = dateutil.New().LastMonday()
	}

	payPeriod, err := models.GetPayPeriodByStartDate(ctx, db, startDate)
	if err != nil {
		if errors.Is(err, models.ErrPayPeriodNotFound) {
			runLog.WithField("startDate", startDate).Info("no pay period starts on the target date; nothing to do")
			return nil
		}
		return fmt.Errorf("resolve pay period for %s: %w", startDate, err)
	}
	runLog = runLog.WithField("payPeriodId", payPeriod.PayPeriodId)

	workerIds, err := models.GetWorkerIdsWithMissingPunches(ctx, db, payPeriod.PayPeriodId)
	if err != nil {
		return fmt.Errorf("query workers with missing punches: %w", err)
	}
	if len(workerIds) == 0 {
		runLog.Info("no timecards with missing punches; nothing to do")
		return nil
	}
	runLog.WithField("workers", len(workerIds)).Info("found workers with missing punches")

	contacts, err := directory.GetAllContacts(ctx, nil)
	if err != nil {
		return fmt.Errorf("fetch contacts: %w", err)
	}
	if contacts == nil {
		return errors.New("contact directory could not be fetched")
	}

	match := ProcessContacts(contacts, workerIds)
	if match.MissingCustomFields > 0 {
		runLog.WithField("count", match.MissingCustomFields).Warn("contacts returned without a custom fields block")
	}
	if match.MissingWorkerId > 0 {
		runLog.WithField("count", match.MissingWorkerId).Warn("contacts without an adp_associate_id value")
	}
	if len(match.ContactIDs) == 0 {
		runLog.WithField("contacts", len(contacts)).Info("no contacts matched the missing-punch workers; nothing to send")
		return nil
	}

	listName := ListName(payPeriod)
	if opts.DryRun {
		runLog.WithFields(logrus.Fields{
			"listName":   listName,
			"recipients": len(match.ContactIDs),
		}).Info("dry run: skipping list and campaign creation")
		return nil
	}

	list, err := directory.CreateContactList(ctx, listName, "Workers with missing punches for the pay period")
	if err != nil {
		return fmt.Errorf("create contact list: %w", err)
	}
	if list == nil {
		return fmt.Errorf("contact list %q was not created", listName)
	}

	assigned, err := directory.AddContactsToList(ctx, match.ContactIDs, list.ID)
	if err != nil {
		return fmt.Errorf("add contacts to list %d: %w", list.ID, err)
	}
	if assigned == nil {
		return fmt.Errorf("contacts were not assigned to list %d", list.ID)
	}

	campaign, err := directory.CreateCampaign(ctx, listName, ReminderMessage, list.ID, nil)
	if err != nil {
		return fmt.Errorf("create campaign: %w", err)
	}
	if campaign == nil {
		return fmt.Errorf("campaign for list %d was not created", list.ID)
	}

	runLog.WithFields(logrus.Fields{
		"listId":     list.ID,
		"campaignId": campaign.ID,
		"recipients": len(match.ContactIDs),
	}).Info("reminder campaign created")
	return nil
}
