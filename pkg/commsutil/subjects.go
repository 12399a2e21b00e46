package commsutil

import (
	"fmt"
	"strings"
)

// Default COMMS subjects.
const (
	SubjectExecute    = "bridge.app.execute"
	SubjectDiscovered = "bridge.discovered"
)

// BuildExecuteSubject builds the execute subject a target host serves.
func BuildExecuteSubject(target string) string {
	return fmt.Sprintf("bridge.%s.execute", safeToken(target))
}

// BuildDiscoveredSubject builds the granular discovery event subject for a
// target.
func BuildDiscoveredSubject(target string) string {
	return fmt.Sprintf("%s.%s", SubjectDiscovered, safeToken(target))
}

// safeToken keeps a name to a single subject token.
func safeToken(name string) string {
	return strings.NewReplacer(".", "_", " ", "_", "*", "_", ">", "_").Replace(name)
}
