// Package telemetry tracks drone heartbeats, derives health from
// heartbeat recency and raises alerts on anomalous samples.
package telemetry

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/pkg/errs"
)

// Alerting thresholds and health windows.
const (
	// MaxDrainPctPerMin is the battery drain rate that raises BATTERY_DRAIN_HIGH.
	MaxDrainPctPerMin = 5.0
	// MaxSpeedMps is the ground speed that raises VELOCITY_EXCESSIVE.
	MaxSpeedMps = 20.0
	// MaxTemperatureC is the airframe temperature that raises TEMPERATURE_HIGH.
	MaxTemperatureC = 70.0
	// MaxDriftMeters is the displacement between consecutive samples
	// that raises GPS_DRIFT.
	MaxDriftMeters = 100.0

	// HealthyWithin is the heartbeat recency for full health.
	HealthyWithin = 10 * time.Second
	// DegradedWithin is the heartbeat recency below which a drone is
	// considered offline.
	DegradedWithin = 30 * time.Second
	// CriticalWindow is how long a critical alert keeps dragging the
	// reported health down to Critical.
	CriticalWindow = 5 * time.Minute

	// maxAlertsPerDrone bounds the per-drone alert history.
	maxAlertsPerDrone = 100
)

// HealthStatus grades a drone by heartbeat recency.
type HealthStatus string

// Health grades.
const (
	Healthy  HealthStatus = "HEALTHY"
	Degraded HealthStatus = "DEGRADED"
	Critical HealthStatus = "CRITICAL"
	Offline  HealthStatus = "OFFLINE"
)

// Score returns the numeric health score for the grade.
func (h HealthStatus) Score() int {
	switch h {
	case Healthy:
		return 100
	case Degraded:
		return 70
	case Critical:
		return 30
	default:
		return 0
	}
}

// HealthFor grades the time elapsed since the last heartbeat.
func HealthFor(elapsed time.Duration) HealthStatus {
	switch {
	case elapsed < HealthyWithin:
		return Healthy
	case elapsed < DegradedWithin:
		return Degraded
	default:
		return Offline
	}
}

// AlertKind names a telemetry anomaly.
type AlertKind string

// Alert kinds.
const (
	AlertBatteryDrainHigh  AlertKind = "BATTERY_DRAIN_HIGH"
	AlertVelocityExcessive AlertKind = "VELOCITY_EXCESSIVE"
	AlertTemperatureHigh   AlertKind = "TEMPERATURE_HIGH"
	AlertGPSDrift          AlertKind = "GPS_DRIFT"
	AlertHeartbeatMissed   AlertKind = "HEARTBEAT_MISSED"
	AlertConnectionLost    AlertKind = "CONNECTION_LOST"
)

// Alert is one timestamped anomaly on a drone.
type Alert struct {
	// DroneID is the affected drone.
	DroneID kernel.UUID
	// Kind names the anomaly.
	Kind AlertKind
	// Detail is a human-readable description with the observed values.
	Detail string
	// Critical marks alerts the operations core must act on.
	Critical bool
	// At is when the alert was raised.
	At time.Time
}

// Sample is one heartbeat payload from a drone.
type Sample struct {
	// BatteryPct is the reported charge level.
	BatteryPct float64
	// Position is the reported location.
	Position kernel.GeoPoint
	// SpeedMps is the reported ground speed.
	SpeedMps float64
	// TemperatureC is the reported airframe temperature.
	TemperatureC float64
}

type droneTrack struct {
	last   Sample
	lastAt time.Time
	alerts []Alert
	// lostAnnounced suppresses repeated CONNECTION_LOST alerts for the
	// same outage; a new heartbeat resets it.
	lostAnnounced bool
}

// Monitor tracks the latest heartbeat per drone and derives health and
// alerts from it. Safe for concurrent use.
type Monitor struct {
	mu     sync.Mutex
	drones map[uuid.UUID]*droneTrack
	logger *slog.Logger
}

// NewMonitor creates an empty monitor.
func NewMonitor(logger *slog.Logger) *Monitor {
	return &Monitor{
		drones: make(map[uuid.UUID]*droneTrack),
		logger: logger.With("component", "telemetry-monitor"),
	}
}

// Heartbeat records a sample for a drone at the given receipt time and
// returns any alerts the sample raised. Alerts never block the
// heartbeat itself.
func (m *Monitor) Heartbeat(droneID kernel.UUID, sample Sample, now time.Time) []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := droneID.Bytes()
	track, ok := m.drones[key]
	if !ok {
		track = &droneTrack{}
		m.drones[key] = track
	}

	var alerts []Alert
	raise := func(kind AlertKind, detail string) {
		alerts = append(alerts, Alert{
			DroneID: droneID,
			Kind:    kind,
			Detail:  detail,
			At:      now,
		})
	}

	if sample.SpeedMps > MaxSpeedMps {
		raise(AlertVelocityExcessive,
			fmt.Sprintf("speed %.1f m/s exceeds %.1f m/s", sample.SpeedMps, MaxSpeedMps))
	}
	if sample.TemperatureC > MaxTemperatureC {
		raise(AlertTemperatureHigh,
			fmt.Sprintf("temperature %.1f C exceeds %.1f C", sample.TemperatureC, MaxTemperatureC))
	}

	if track.lastAt != (time.Time{}) {
		elapsed := now.Sub(track.lastAt)
		if elapsed >= DegradedWithin {
			raise(AlertHeartbeatMissed,
				fmt.Sprintf("heartbeat resumed after %.0fs gap", elapsed.Seconds()))
		}
		if elapsed > 0 {
			drainPerMin := (track.last.BatteryPct - sample.BatteryPct) / elapsed.Minutes()
			if drainPerMin > MaxDrainPctPerMin {
				raise(AlertBatteryDrainHigh,
					fmt.Sprintf("battery draining at %.1f %%/min, limit %.1f %%/min",
						drainPerMin, MaxDrainPctPerMin))
			}
		}

		if displacement, err := track.last.Position.DisplacementMeters(sample.Position); err == nil {
			if displacement > MaxDriftMeters {
				raise(AlertGPSDrift,
					fmt.Sprintf("position moved %.0f m since previous sample, limit %.0f m",
						displacement, MaxDriftMeters))
			}
		}
	}

	track.last, track.lastAt = sample, now
	track.lostAnnounced = false
	track.record(alerts)

	for _, a := range alerts {
		m.logger.Warn("telemetry alert",
			"droneId", a.DroneID.String(), "kind", string(a.Kind), "detail", a.Detail)
	}

	return alerts
}

// Health grades a drone by the recency of its last heartbeat. A drone
// still reporting but carrying a critical alert from the last five
// minutes is graded Critical. Returns an object-not-found error for a
// drone that never reported.
func (m *Monitor) Health(droneID kernel.UUID, now time.Time) (HealthStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	track, ok := m.drones[droneID.Bytes()]
	if !ok {
		return "", errs.NewObjectNotFoundError("droneId", droneID.String())
	}

	grade := HealthFor(now.Sub(track.lastAt))
	if grade != Offline && track.hasCriticalSince(now.Add(-CriticalWindow)) {
		return Critical, nil
	}
	return grade, nil
}

// LastSample returns the latest sample and its receipt time for a
// drone. The second return is false for a drone that never reported.
func (m *Monitor) LastSample(droneID kernel.UUID) (Sample, time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	track, ok := m.drones[droneID.Bytes()]
	if !ok {
		return Sample{}, time.Time{}, false
	}
	return track.last, track.lastAt, true
}

// Alerts returns the recorded alerts for a drone, oldest first.
func (m *Monitor) Alerts(droneID kernel.UUID) []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()

	track, ok := m.drones[droneID.Bytes()]
	if !ok {
		return nil
	}
	out := make([]Alert, len(track.alerts))
	copy(out, track.alerts)
	return out
}

// Sweep evaluates every tracked drone and raises one critical
// CONNECTION_LOST alert per outage for drones whose last heartbeat is
// older than the offline window. This catches silent total failures
// that no further heartbeat will ever report.
func (m *Monitor) Sweep(now time.Time) []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()

	var lost []Alert
	for key, track := range m.drones {
		if track.lostAnnounced || HealthFor(now.Sub(track.lastAt)) != Offline {
			continue
		}

		id, err := kernel.UUIDFromBytes(key[:])
		if err != nil {
			continue
		}

		alert := Alert{
			DroneID:  id,
			Kind:     AlertConnectionLost,
			Detail:   fmt.Sprintf("no heartbeat for %.0fs", now.Sub(track.lastAt).Seconds()),
			Critical: true,
			At:       now,
		}
		track.lostAnnounced = true
		track.record([]Alert{alert})
		lost = append(lost, alert)

		m.logger.Error("connection lost",
			"droneId", id.String(), "lastSeen", track.lastAt)
	}

	return lost
}

// hasCriticalSince reports whether any critical alert was raised at or
// after the cutoff.
func (t *droneTrack) hasCriticalSince(cutoff time.Time) bool {
	for i := len(t.alerts) - 1; i >= 0; i-- {
		if t.alerts[i].At.Before(cutoff) {
			return false
		}
		if t.alerts[i].Critical {
			return true
		}
	}
	return false
}

// record appends alerts to the track's bounded history.
func (t *droneTrack) record(alerts []Alert) {
	t.alerts = append(t.alerts, alerts...)
	if overflow := len(t.alerts) - maxAlertsPerDrone; overflow > 0 {
		t.alerts = append(t.alerts[:0], t.alerts[overflow:]...)
	}
}
