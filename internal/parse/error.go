package parse

import (
	"fmt"

	"github.com/viletech/doomfront/internal/green"
	"github.com/viletech/doomfront/internal/utils"
)

// An InvariantError is the value of the panics caused by a bug in a grammar
// rule or by a misuse of the Parser, never by malformed input.
type InvariantError = green.InvariantError

func invariantf(format string, args ...any) *InvariantError {
	return &InvariantError{Message: fmt.Sprintf(format, args...)}
}

// Recover should be deferred by callers that must not crash when a grammar rule
// is buggy, the recovered panic is stored in *err.
//
//	func parseFile(source string) (root *green.Node, err error) {
//		defer parse.Recover(&err)
//		...
//	}
func Recover(err *error) {
	if v := recover(); v != nil {
		*err = fmt.Errorf("parsing failed: %w", utils.ConvertPanicValueToError(v))
	}
}
