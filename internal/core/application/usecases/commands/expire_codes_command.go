package commands

// ExpireCodesCommand triggers one pass of the code expiry sweep. It
// carries no parameters; the sweep takes its cutoff from the clock.
type ExpireCodesCommand struct{}

// NewExpireCodesCommand creates a command for the expiry sweep.
func NewExpireCodesCommand() ExpireCodesCommand {
	return ExpireCodesCommand{}
}
