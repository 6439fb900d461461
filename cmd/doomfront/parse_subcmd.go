package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/viletech/doomfront/internal/parse"
	"github.com/viletech/doomfront/internal/prettyprint"
	"github.com/viletech/doomfront/internal/red"
	"github.com/viletech/doomfront/internal/utils"
)

const (
	TEXT_FORMAT = "text"
	JSON_FORMAT = "json"
	YAML_FORMAT = "yaml"

	STDIN_PATH = "-"
)

type parseOutput struct {
	Language    string             `json:"language" yaml:"language"`
	Tree        red.Snapshot       `json:"tree" yaml:"tree"`
	Diagnostics []diagnosticReport `json:"diagnostics" yaml:"diagnostics"`
}

func (app *application) parseCommand() *cobra.Command {
	var (
		langName string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "parse [flags] FILE",
		Short: "parse a file and print its syntax tree",
		Long: "parse a file and print its syntax tree followed by the diagnostics.\n" +
			"The source is read from stdin if FILE is -, the --lang flag is then required.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.parseFile(cmd.InOrStdin(), args[0], langName, format)
		},
	}

	cmd.Flags().StringVarP(&langName, "lang", "l", "", "language of the file, inferred from the file name if not set")
	cmd.Flags().StringVarP(&format, "format", "f", TEXT_FORMAT, "output format: text, json or yaml")

	return cmd
}

func (app *application) parseFile(stdin io.Reader, path string, langName string, format string) (finalErr error) {
	switch format {
	case TEXT_FORMAT, JSON_FORMAT, YAML_FORMAT:
	default:
		return fmt.Errorf("invalid format %q", format)
	}

	var (
		content []byte
		err     error
	)
	if path == STDIN_PATH {
		if langName == "" {
			return fmt.Errorf("the --lang flag is required when reading from stdin")
		}
		content, err = io.ReadAll(stdin)
	} else {
		content, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	lang, err := findLanguage(langName, path)
	if err != nil {
		return err
	}

	source := string(content)
	logger := app.logger.With().Str("file", path).Str("lang", lang.name).Logger()

	defer parse.Recover(&finalErr)
	result := lang.parse(source, app.config.NewGreenCache(), app.config.LexerOptions(), app.config.ParserOptions(&logger))

	logger.Debug().Int("diagnostics", len(result.diagnostics)).Msg("file parsed")

	reports := newDiagnosticReports(source, result.diagnostics)

	switch format {
	case JSON_FORMAT, YAML_FORMAT:
		output := parseOutput{
			Language:    lang.name,
			Tree:        result.snapshot(),
			Diagnostics: reports,
		}

		var serialized []byte
		if format == JSON_FORMAT {
			serialized, err = utils.MarshalIndentJsonNoHTMLEspace(output, "", "  ")
			serialized = append(serialized, '\n')
		} else {
			serialized, err = yaml.Marshal(output)
		}
		if err != nil {
			return err
		}

		_, err = app.outW.Write(serialized)
		return err
	default:
		if err := result.print(app.outW, app.colors); err != nil {
			return err
		}

		location := path
		if path == STDIN_PATH {
			location = ""
		}

		for _, report := range reports {
			if err := prettyprint.PrintDiagnostic(app.outW, report.location(location), report.message(), app.colors); err != nil {
				return err
			}
		}
		return nil
	}
}
