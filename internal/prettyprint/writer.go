package prettyprint

import (
	"bufio"
	"fmt"

	"github.com/muesli/termenv"
	"github.com/viletech/doomfront/internal/utils"
)

var (
	ANSI_RESET_SEQUENCE = []byte(termenv.CSI + termenv.ResetSeq + "m")

	INDENT_UNIT = []byte{' ', ' '}
)

type PrettyPrintWriter struct {
	writer *bufio.Writer
	colors PrettyPrintColors

	Depth int
}

func NewWriter(writer *bufio.Writer, colors PrettyPrintColors) PrettyPrintWriter {
	return PrettyPrintWriter{
		writer: writer,
		colors: colors,
	}
}

func (w PrettyPrintWriter) Colors() PrettyPrintColors {
	return w.colors
}

func (w PrettyPrintWriter) WriteString(str string) {
	utils.Must(w.writer.Write(utils.StringAsBytes(str)))
}

func (w PrettyPrintWriter) WriteStringF(fmtStr string, args ...any) {
	utils.Must(fmt.Fprintf(w.writer, fmtStr, args...))
}

// WriteColored writes str surrounded by the color sequence and a reset sequence,
// str is written as is if color is empty.
func (w PrettyPrintWriter) WriteColored(color []byte, str string) {
	if len(color) == 0 {
		w.WriteString(str)
		return
	}
	utils.Must(w.writer.Write(color))
	w.WriteString(str)
	w.WriteAnsiReset()
}

func (w PrettyPrintWriter) WriteAnsiReset() {
	utils.Must(w.writer.Write(ANSI_RESET_SEQUENCE))
}

func (w PrettyPrintWriter) WriteIndent() {
	for i := 0; i < w.Depth; i++ {
		utils.Must(w.writer.Write(INDENT_UNIT))
	}
}

func (w PrettyPrintWriter) WriteByte(b byte) {
	utils.PanicIfErr(w.writer.WriteByte(b))
}

func (w PrettyPrintWriter) IncrDepth() PrettyPrintWriter {
	new := w
	new.Depth++
	return new
}

func (w PrettyPrintWriter) Flush() error {
	return w.writer.Flush()
}
