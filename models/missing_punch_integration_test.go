package models_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/timecard_reminder/config"
	"bitbucket.org/mmdatafocus/timecard_reminder/models"
	"gorm.io/gorm"
)

func setupIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("DB_SERVER", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "timecard_reminder_test")
	t.Setenv("DB_USERNAME", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("SLICKTEXT_API_TOKEN", "test-token")
	t.Setenv("SLICKTEXT_BRAND_ID", "77")

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if err := config.ConnectDatabase(cfg); err != nil {
		t.Fatalf("ConnectDatabase: %v", err)
	}
	db := config.GetDB()
	if db == nil {
		t.Fatal("db is nil after ConnectDatabase")
	}
	if err := models.MigrateTable(db); err != nil {
		t.Fatalf("MigrateTable: %v", err)
	}
	return db
}

func sentinelAt(t *testing.T, index int) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, models.MissingPunchSentinels[index])
	if err != nil {
		t.Fatalf("parse sentinel %d: %v", index, err)
	}
	return parsed
}

// seedTwoPeriods builds two pay periods with three employees:
//   - W-001 has a timecard in period 1 with TWO sentinel day entries
//     (distinctness check) plus one clean entry
//   - W-002 has a clean timecard in period 1
//   - W-003 has a sentinel clock-out in period 2
func seedTwoPeriods(t *testing.T, db *gorm.DB) (p1, p2 *models.PayPeriod) {
	t.Helper()

	periods := []models.PayPeriod{
		{StartDate: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)},
		{StartDate: time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 1, 19, 0, 0, 0, 0, time.UTC)},
	}
	if err := db.Create(&periods).Error; err != nil {
		t.Fatalf("create pay periods: %v", err)
	}

	employees := []models.Employee{
		{AssociateId: "A1001", WorkerId: "W-001", FirstName: "Dana", LastName: "Reyes"},
		{AssociateId: "A1002", WorkerId: "W-002", FirstName: "Lee", LastName: "Ng"},
		{AssociateId: "A1003", WorkerId: "W-003", FirstName: "Sam", LastName: "Ortiz"},
	}
	if err := db.Create(&employees).Error; err != nil {
		t.Fatalf("create employees: %v", err)
	}

	timecards := []models.Timecard{
		{TimecardId: "TC-1", AssociateId: "A1001", PayPeriodId: periods[0].PayPeriodId, HasExceptions: true},
		{TimecardId: "TC-2", AssociateId: "A1002", PayPeriodId: periods[0].PayPeriodId, HasExceptions: false},
		{TimecardId: "TC-3", AssociateId: "A1003", PayPeriodId: periods[1].PayPeriodId, HasExceptions: true},
	}
	if err := db.Create(&timecards).Error; err != nil {
		t.Fatalf("create timecards: %v", err)
	}

	in := time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)
	out := time.Date(2025, 1, 6, 16, 0, 0, 0, time.UTC)
	entries := []models.DayEntry{
		{EntryId: "E-1", TimecardId: "TC-1", EntryDate: periods[0].StartDate, ClockInTime: sentinelAt(t, 0), ClockOutTime: out},
		{EntryId: "E-2", TimecardId: "TC-1", EntryDate: periods[0].StartDate.AddDate(0, 0, 1), ClockInTime: in, ClockOutTime: sentinelAt(t, 1)},
		{EntryId: "E-3", TimecardId: "TC-1", EntryDate: periods[0].StartDate.AddDate(0, 0, 2), ClockInTime: in, ClockOutTime: out},
		{EntryId: "E-4", TimecardId: "TC-2", EntryDate: periods[0].StartDate, ClockInTime: in, ClockOutTime: out},
		{EntryId: "E-5", TimecardId: "TC-3", EntryDate: periods[1].StartDate, ClockInTime: in, ClockOutTime: sentinelAt(t, 0)},
	}
	if err := db.Create(&entries).Error; err != nil {
		t.Fatalf("create day entries: %v", err)
	}

	return &periods[0], &periods[1]
}

func TestGetPayPeriodByStartDate(t *testing.T) {
	db := setupIntegrationDB(t)
	p1, _ := seedTwoPeriods(t, db)
	ctx := context.Background()

	found, err := models.GetPayPeriodByStartDate(ctx, db, "2025-01-06")
	if err != nil {
		t.Fatalf("GetPayPeriodByStartDate: %v", err)
	}
	if found.PayPeriodId != p1.PayPeriodId {
		t.Errorf("found period %d, want %d", found.PayPeriodId, p1.PayPeriodId)
	}

	_, err = models.GetPayPeriodByStartDate(ctx, db, "2025-03-03")
	if !errors.Is(err, models.ErrPayPeriodNotFound) {
		t.Errorf("missing period: err = %v, want ErrPayPeriodNotFound", err)
	}
}

func TestGetMissingPunchTimecards(t *testing.T) {
	db := setupIntegrationDB(t)
	p1, p2 := seedTwoPeriods(t, db)
	ctx := context.Background()

	cards, err := models.GetMissingPunchTimecards(ctx, db, p1.PayPeriodId)
	if err != nil {
		t.Fatalf("GetMissingPunchTimecards(p1): %v", err)
	}
	// TC-1 has two sentinel entries but must appear once; TC-2 is
	// clean and must not appear.
	if len(cards) != 1 {
		t.Fatalf("period 1 timecards = %d, want 1 (distinct)", len(cards))
	}
	if cards[0].TimecardId != "TC-1" {
		t.Errorf("period 1 timecard = %s, want TC-1", cards[0].TimecardId)
	}

	cards, err = models.GetMissingPunchTimecards(ctx, db, p2.PayPeriodId)
	if err != nil {
		t.Fatalf("GetMissingPunchTimecards(p2): %v", err)
	}
	// Sentinel on the clock-out side counts too.
	if len(cards) != 1 || cards[0].TimecardId != "TC-3" {
		t.Errorf("period 2 timecards = %v, want [TC-3]", cards)
	}

	cards, err = models.GetMissingPunchTimecards(ctx, db, 0)
	if err != nil {
		t.Fatalf("GetMissingPunchTimecards(all): %v", err)
	}
	if len(cards) != 2 {
		t.Errorf("unfiltered timecards = %d, want 2", len(cards))
	}
}

func TestGetWorkerIdsWithMissingPunches(t *testing.T) {
	db := setupIntegrationDB(t)
	p1, _ := seedTwoPeriods(t, db)
	ctx := context.Background()

	workerIds, err := models.GetWorkerIdsWithMissingPunches(ctx, db, p1.PayPeriodId)
	if err != nil {
		t.Fatalf("GetWorkerIdsWithMissingPunches: %v", err)
	}
	if len(workerIds) != 1 {
		t.Fatalf("worker ids = %v, want exactly one", workerIds)
	}
	// Worker id, not the associate id.
	if _, ok := workerIds["W-001"]; !ok {
		t.Errorf("worker ids = %v, want W-001", workerIds)
	}
	if _, ok := workerIds["A1001"]; ok {
		t.Error("result contains the associate id; worker ids expected")
	}
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("timecard-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=timecard_reminder_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
