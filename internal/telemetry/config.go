package telemetry

import "os"

var observeEnabled bool

func init() {
	// Read once at process start. Mid-run environment changes have no effect
	// except for the explicit test override below.
	observeEnabled = os.Getenv("MCPCHAT_OBSERVE_JSON") == "1"
}

// ObserveEnabled reports whether JSONL emission is on. The startup value is
// preserved, but tests may enable it mid-run via the env override.
func ObserveEnabled() bool {
	if os.Getenv("MCPCHAT_OBSERVE_JSON") == "1" {
		return true
	}
	return observeEnabled
}
