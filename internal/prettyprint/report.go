package prettyprint

import (
	"bufio"
	"io"

	"github.com/viletech/doomfront/internal/utils"
)

// PrintDiagnostic writes a single line of the form <location>: error: <message>.
func PrintDiagnostic(w io.Writer, location string, message string, colors PrettyPrintColors) (err error) {
	defer recoverWriteError(&err)

	writer := NewWriter(bufio.NewWriter(w), colors)

	writer.WriteColored(colors.DiscreteColor, location)
	writer.WriteString(": ")
	writer.WriteColored(colors.ErrorColor, "error")
	writer.WriteString(": ")
	writer.WriteString(message)
	writer.WriteByte('\n')
	return writer.Flush()
}

// PrintSummary writes the summary line of a run, it is colored as a success if ok is true.
func PrintSummary(w io.Writer, ok bool, summary string, colors PrettyPrintColors) (err error) {
	defer recoverWriteError(&err)

	writer := NewWriter(bufio.NewWriter(w), colors)

	if ok {
		writer.WriteColored(colors.SuccessColor, summary)
	} else {
		writer.WriteColored(colors.ErrorColor, summary)
	}
	writer.WriteByte('\n')
	return writer.Flush()
}

// recoverWriteError turns the panics of a PrettyPrintWriter into an error.
func recoverWriteError(err *error) {
	if e := recover(); e != nil {
		*err = utils.ConvertPanicValueToError(e)
	}
}
