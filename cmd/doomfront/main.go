package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/viletech/doomfront/internal/config"
	"github.com/viletech/doomfront/internal/prettyprint"
)

const (
	ERROR_STATUS_CODE = 1

	COMMAND_NAME = "doomfront"
)

var (
	// set at link time with -ldflags "-X main.version=..."
	version = "dev"

	// errDiagnosticsFound is returned by subcommands that already reported the problems
	// they found, nothing more should be printed.
	errDiagnosticsFound = errors.New("diagnostics found")
)

func main() {
	statusCode := _main(os.Args, os.Stdout, os.Stderr)
	if statusCode != 0 {
		os.Exit(statusCode)
	}
}

func _main(args []string, outW io.Writer, errW io.Writer) (statusCode int) {
	app := &application{outW: outW, errW: errW}

	rootCmd := app.rootCommand()
	rootCmd.SetArgs(args[1:])

	err := rootCmd.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errDiagnosticsFound):
		return ERROR_STATUS_CODE
	default:
		fmt.Fprintln(errW, "error:", err)
		return ERROR_STATUS_CODE
	}
}

// application holds the state shared by the subcommands, it is initialized
// before any subcommand runs.
type application struct {
	outW, errW io.Writer

	configPath string
	logLevel   string
	color      string

	config config.Config
	logger zerolog.Logger
	colors prettyprint.PrettyPrintColors
}

func (app *application) rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           COMMAND_NAME,
		Short:         "lossless parsers for (G)ZDoom languages",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init()
		},
	}

	rootCmd.SetOut(app.outW)
	rootCmd.SetErr(app.errW)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&app.configPath, "config", "", "path of the configuration file, the XDG config directories are searched if not set")
	flags.StringVar(&app.logLevel, "log-level", "", "minimum level of the logs written to stderr (trace, debug, info, warn, error)")
	flags.StringVar(&app.color, "color", "", "colorize the output: auto, always or never")

	rootCmd.AddCommand(
		app.parseCommand(),
		app.checkCommand(),
		app.versionCommand(),
	)

	return rootCmd
}

func (app *application) init() error {
	cfg, err := config.Load(app.configPath)
	if err != nil {
		return err
	}

	if app.logLevel != "" {
		cfg.LogLevel = app.logLevel
	}
	if app.color != "" {
		cfg.Color = config.ColorMode(app.color)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	app.config = cfg

	colorize := cfg.ShouldColorize(isTerminal(app.outW))
	app.colors = prettyprint.ColorsFor(colorProfile(colorize), true)

	app.logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     app.errW,
		NoColor: !cfg.ShouldColorize(isTerminal(app.errW)),
	}).Level(cfg.Level()).With().Timestamp().Logger()

	if cfg.Path != "" {
		app.logger.Debug().Str("path", cfg.Path).Msg("configuration loaded")
	}
	return nil
}

func (app *application) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(app.outW, COMMAND_NAME, version)
			return err
		},
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func colorProfile(colorize bool) termenv.Profile {
	switch {
	case !colorize:
		return termenv.Ascii
	case config.TRUECOLOR_COLORTERM:
		return termenv.TrueColor
	case config.TERM_256COLOR_CAPABLE:
		return termenv.ANSI256
	default:
		return termenv.ANSI
	}
}
