package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/viletech/doomfront/internal/green"
	"github.com/viletech/doomfront/internal/parse"
	"github.com/viletech/doomfront/internal/prettyprint"
	"github.com/viletech/doomfront/internal/red"
	"github.com/viletech/doomfront/internal/syntax"
	"github.com/viletech/doomfront/internal/utils"
	"github.com/viletech/doomfront/internal/zdoom"
	"github.com/viletech/doomfront/internal/zdoom/cvarinfo"
	"github.com/viletech/doomfront/internal/zdoom/expr"
)

type parseFn func(source string, cache green.Cache, lexOpts zdoom.Options, opts ...parse.ParserOptions) (*green.Node, []parse.Diagnostic[zdoom.Token])

// A language is a grammar exposed by the command line tool.
type language struct {
	name string

	// lowercase prefix of the base name of the files written in the language,
	// empty if the language cannot be inferred from file names.
	filePrefix string

	parse func(source string, cache green.Cache, lexOpts zdoom.Options, opts parse.ParserOptions) parseResult
}

// A parseResult is a language-independent view of a parsed file.
type parseResult struct {
	root        *green.Node
	diagnostics []parse.Diagnostic[zdoom.Token]

	print    func(w io.Writer, colors prettyprint.PrettyPrintColors) error
	snapshot func() red.Snapshot
}

func newLanguage[S syntax.Kinded](name, filePrefix string, fn parseFn, invalidKind S) language {
	return language{
		name:       name,
		filePrefix: filePrefix,
		parse: func(source string, cache green.Cache, lexOpts zdoom.Options, opts parse.ParserOptions) parseResult {
			root, diagnostics := fn(source, cache, lexOpts, opts)
			cursor := red.NewRoot[S](root)

			return parseResult{
				root:        root,
				diagnostics: diagnostics,
				print: func(w io.Writer, colors prettyprint.PrettyPrintColors) error {
					return prettyprint.PrintTree(w, cursor, invalidKind, colors)
				},
				snapshot: func() red.Snapshot {
					return red.TakeSnapshot(cursor)
				},
			}
		},
	}
}

var (
	LANGUAGES = []language{
		newLanguage("cvarinfo", "cvarinfo", cvarinfo.Parse, cvarinfo.Error),
		newLanguage("expr", "", expr.Parse, expr.Error),
	}
)

func languageNames() []string {
	return utils.MapSlice(LANGUAGES, func(lang language) string {
		return lang.name
	})
}

// findLanguage returns the language named name, or the language inferred from the base
// name of path if name is empty.
func findLanguage(name string, path string) (language, error) {
	if name != "" {
		for _, lang := range LANGUAGES {
			if lang.name == name {
				return lang, nil
			}
		}
		return language{}, fmt.Errorf("unknown language %q, supported languages are: %s", name, strings.Join(languageNames(), ", "))
	}

	base := strings.ToLower(filepath.Base(path))
	for _, lang := range LANGUAGES {
		if lang.filePrefix != "" && strings.HasPrefix(base, lang.filePrefix) {
			return lang, nil
		}
	}
	return language{}, fmt.Errorf("failed to infer the language of %s, use the --lang flag", path)
}
