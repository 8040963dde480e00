package state

import "time"

// newLocalEnv creates a new LocalEnv instance with default values. Cfg, Rpt,
// Log and Renderer are filled in by initializeAppContext once the command
// line and configuration file have been parsed.
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
	}
}
