package demo

import (
	"fmt"

	"github.com/morezero/capabilities-bridge/pkg/protocol"
)

func invalidArg(format string, a ...any) error {
	return protocol.NewRemoteError(protocol.CodeInvalidArgument, fmt.Sprintf(format, a...))
}

func stringArg(args []any, i int, name string) (string, error) {
	if i >= len(args) {
		return "", invalidArg("missing argument %s", name)
	}
	s, ok := args[i].(string)
	if !ok {
		return "", invalidArg("%s must be a string", name)
	}
	return s, nil
}

// numberOf accepts JSON-decoded numbers as well as Go ints.
func numberOf(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}
