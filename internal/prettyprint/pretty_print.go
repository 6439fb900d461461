package prettyprint

import "github.com/muesli/termenv"

var (
	DEFAULT_DARKMODE_PRINT_COLORS = PrettyPrintColors{
		NodeKind:      GetFullColorSequence(termenv.ANSIBlue, false),
		TokenKind:     GetFullColorSequence(termenv.ANSIBrightCyan, false),
		TokenText:     GetFullColorSequence(termenv.ANSI256Color(209), false),
		InvalidNode:   GetFullColorSequence(termenv.ANSIBrightRed, false),
		DiscreteColor: GetFullColorSequence(termenv.ANSIBrightBlack, false),

		SuccessColor: GetFullColorSequence(termenv.ANSIBrightGreen, false),
		WarnColor:    GetFullColorSequence(termenv.ANSIYellow, false),
		ErrorColor:   GetFullColorSequence(termenv.ANSIRed, false),
	}

	DEFAULT_LIGHTMODE_PRINT_COLORS = PrettyPrintColors{
		NodeKind:      GetFullColorSequence(termenv.ANSI256Color(26), false),
		TokenKind:     GetFullColorSequence(termenv.ANSI256Color(27), false),
		TokenText:     GetFullColorSequence(termenv.ANSI256Color(88), false),
		InvalidNode:   GetFullColorSequence(termenv.ANSI256Color(160), false),
		DiscreteColor: GetFullColorSequence(termenv.ANSIBrightBlack, false),

		SuccessColor: GetFullColorSequence(termenv.ANSIBrightGreen, false),
		WarnColor:    GetFullColorSequence(termenv.ANSIYellow, false),
		ErrorColor:   GetFullColorSequence(termenv.ANSIRed, false),
	}

	// NO_COLORS makes writers output plain text.
	NO_COLORS = PrettyPrintColors{}
)

type PrettyPrintColors struct {
	//trees
	NodeKind, TokenKind, TokenText, InvalidNode, DiscreteColor,

	//reports
	SuccessColor, WarnColor, ErrorColor []byte
}

func GetFullColorSequence(color termenv.Color, bg bool) []byte {
	var b = []byte(termenv.CSI)
	b = append(b, []byte(color.Sequence(bg))...)
	b = append(b, 'm')
	return b
}

// ColorsFor returns the colors to use for the given terminal profile, NO_COLORS is returned
// for the Ascii profile.
func ColorsFor(profile termenv.Profile, darkBackground bool) PrettyPrintColors {
	switch {
	case profile == termenv.Ascii:
		return NO_COLORS
	case darkBackground || profile == termenv.ANSI:
		return DEFAULT_DARKMODE_PRINT_COLORS
	default:
		return DEFAULT_LIGHTMODE_PRINT_COLORS
	}
}
