// Package jobs provides scheduled background tasks for the logistics system.
//
// Jobs run on cron schedules using github.com/robfig/cron/v3 and are managed
// through JobManager, which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(lowStockHandler, schedule, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// LowStockAlertJob - periodically runs the low stock query and logs a warning
// for every item at or below its minimum quantity.
package jobs
