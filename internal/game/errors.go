package game

// ServiceUnavailableMessage is the fixed critical message set when the
// backend is unconfigured. The session stays degraded until process restart.
const ServiceUnavailableMessage = "CRITICAL: the adventure backend is not configured, the game cannot start"

const (
	startErrorPrefix = "failed to start the adventure"
	playErrorPrefix  = "something went wrong during play"
)
