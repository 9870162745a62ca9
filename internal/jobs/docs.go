// Package jobs provides scheduled background tasks for the fleet system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for fleet operations.
//
// # Available Jobs
//
// 1. CodeExpiryJob - Runs every minute to archive delivery codes past their TTL and fail the affected deliveries
// 2. TelemetrySweepJob - Runs every ten seconds to detect drones that stopped reporting and fail their missions
// 3. RateLimitPruneJob - Runs every ten minutes to drop idle clients from the rate limiter
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(expireCodesHandler, failLostMissionsHandler, limiter, clk, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The expiry job uses "0 * * * * *" (every minute); a code lives for an hour,
// so minute granularity keeps expiry within seconds of the deadline without
// hammering the store. The sweep job uses "*/10 * * * * *" (every ten seconds)
// because a drone counts as lost thirty seconds after its final heartbeat.
// The prune job uses "0 */10 * * * *" (every ten minutes); limiter windows
// span an hour, so pruning needs no tighter cadence.
//
// # Error Handling
//
// - Both jobs log errors and wait for the next tick; a failed run never stops the schedule
// - Failed job starts will stop any already running jobs
package jobs
