package main

import (
	"context"
	"flag"
	"os"

	"bitbucket.org/mmdatafocus/timecard_reminder/config"
	"bitbucket.org/mmdatafocus/timecard_reminder/models"
	"bitbucket.org/mmdatafocus/timecard_reminder/reminder"
	"bitbucket.org/mmdatafocus/timecard_reminder/slicktext"
)

// One-shot job, scheduled externally (cron) on Monday mornings: remind
// workers whose timecard for the just-closed pay period has missing
// punches. Exit 0 covers the "nothing to do" paths; any failed step
// exits 1.
func main() {
	date := flag.String("date", "", "Optional: pay period start date (YYYY-MM-DD). Defaults to last week's Monday.")
	dryRun := flag.Bool("dry-run", false, "Resolve the period and matched contacts, but create no list or campaign.")
	flag.Parse()

	logger := config.GetLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		config.LogError(logger, "main", "LoadConfig", "startup", nil, err)
		os.Exit(1)
	}

	models.SetTablePrefix(cfg.DBSchema)
	if err := config.ConnectDatabase(cfg); err != nil {
		config.LogError(logger, "main", "ConnectDatabase", "startup", nil, err)
		os.Exit(1)
	}
	db := config.GetDB()
	if sqlDB, derr := db.DB(); derr == nil && sqlDB != nil {
		defer sqlDB.Close()
	}

	client := slicktext.NewClient(cfg.SlickTextToken, cfg.SlickTextBrandID, logger)

	opts := reminder.Options{StartDate: *date, DryRun: *dryRun}
	if err := reminder.Run(context.Background(), db, client, logger, opts); err != nil {
		config.LogError(logger, "main", "Run", "reminder run", opts, err)
		os.Exit(1)
	}
}
