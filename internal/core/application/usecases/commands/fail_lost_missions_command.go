package commands

// FailLostMissionsCommand triggers the silent-drone sweep: every drone
// that has gone offline mid-mission gets its delivery torn down. It
// carries no parameters; the handler works off the registry and the
// telemetry monitor.
type FailLostMissionsCommand struct{}

// NewFailLostMissionsCommand creates the sweep command.
func NewFailLostMissionsCommand() FailLostMissionsCommand {
	return FailLostMissionsCommand{}
}
