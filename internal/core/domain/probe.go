package domain

// ProbeResult captures the outcome of a single health probe.
type ProbeResult struct {
	Healthy bool
	// Label is an optional diagnostic identifier, e.g. which network the
	// device associated to.
	Label string
	// Err carries the probe's execution error when it could not run at all.
	// A non-nil Err always implies Healthy == false.
	Err error
}

// Unhealthy builds a failed probe result from an execution error.
func Unhealthy(err error) ProbeResult {
	return ProbeResult{Healthy: false, Err: err}
}
