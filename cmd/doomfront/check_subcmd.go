package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/maruel/natural"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"github.com/tidwall/btree"
	"golang.org/x/sync/errgroup"

	"github.com/viletech/doomfront/internal/cache"
	"github.com/viletech/doomfront/internal/config"
	"github.com/viletech/doomfront/internal/green"
	"github.com/viletech/doomfront/internal/parse"
	"github.com/viletech/doomfront/internal/prettyprint"
	"github.com/viletech/doomfront/internal/utils"
)

const (
	WATCH_DEBOUNCE_DURATION = 200 * time.Millisecond
)

type checkOptions struct {
	langName string
	jobs     int
	cache    string
	format   string
	watch    bool
}

// A fileResult is the outcome of the parsing of a source, it does not depend
// on the path of the file.
type fileResult struct {
	language    string
	diagnostics []diagnosticReport
}

type fileReport struct {
	path   string
	result *fileResult
	cached bool
	err    error
}

type checkSummary struct {
	RunId       string       `json:"run"`
	Files       []fileOutput `json:"files"`
	Diagnostics int          `json:"diagnosticCount"`
	Failures    int          `json:"failureCount"`
	Cached      int          `json:"cachedCount"`

	ResultCache resultCacheStats `json:"resultCache"`

	//nil if the cache policy is none
	Interning *green.CacheStats `json:"interning,omitempty"`
}

// resultCacheStats describes the whole-file result caches, the hits and misses
// are counted since the creation of the checker.
type resultCacheStats struct {
	Entries int `json:"entries"`
	Hits    int `json:"hits"`
	Misses  int `json:"misses"`
}

type interningStatsReporter interface {
	Stats() green.CacheStats
}

type fileOutput struct {
	Path        string             `json:"path"`
	Language    string             `json:"language,omitempty"`
	Cached      bool               `json:"cached"`
	Error       string             `json:"error,omitempty"`
	Diagnostics []diagnosticReport `json:"diagnostics"`
}

func (s checkSummary) ok() bool {
	return s.Diagnostics == 0 && s.Failures == 0
}

func (app *application) checkCommand() *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check [flags] PATTERN...",
		Short: "parse files and report their diagnostics",
		Long: "parse the files matching the patterns and report their diagnostics, the exit status is 1 if any diagnostic is found.\n" +
			"Patterns support ** (doublestar) wildcards.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.cache != "" {
				app.config.Cache = config.CachePolicy(opts.cache)
			}
			if opts.jobs != 0 {
				app.config.Jobs = opts.jobs
			}
			if err := app.config.Validate(); err != nil {
				return err
			}

			switch opts.format {
			case TEXT_FORMAT, JSON_FORMAT:
			default:
				return fmt.Errorf("invalid format %q", opts.format)
			}

			checker := newChecker(app, opts)

			if opts.watch {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
				defer stop()
				return checker.watch(ctx, args)
			}

			summary, err := checker.run(cmd.Context(), args)
			if err != nil {
				return err
			}
			if !summary.ok() {
				return errDiagnosticsFound
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.langName, "lang", "l", "", "language of the files, inferred from the file names if not set")
	flags.IntVarP(&opts.jobs, "jobs", "j", 0, "maximum number of files parsed concurrently, defaults to the configured value")
	flags.StringVar(&opts.cache, "cache", "", "green cache policy: none, local or shared")
	flags.StringVarP(&opts.format, "format", "f", TEXT_FORMAT, "output format: text or json")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "check the files again each time they change")

	return cmd
}

type checker struct {
	app  *application
	opts checkOptions

	//results by language
	results map[string]*cache.Cache[fileResult]

	//nil if the cache policy is local, a cache is then created for each file
	sharedGreenCache green.Cache

	//stats of the local green caches of the current run
	localInterning     green.CacheStats
	localInterningLock sync.Mutex

	//results of the files of the last run, by path
	lastResults map[string]*fileResult
}

func newChecker(app *application, opts checkOptions) *checker {
	c := &checker{
		app:     app,
		opts:    opts,
		results: make(map[string]*cache.Cache[fileResult], len(LANGUAGES)),
	}

	for _, lang := range LANGUAGES {
		c.results[lang.name] = cache.New[fileResult]()
	}

	if app.config.Cache != config.LocalCache {
		c.sharedGreenCache = app.config.NewGreenCache()
	}
	return c
}

// run checks the files matching the patterns and prints the reports.
func (c *checker) run(ctx context.Context, patterns []string) (checkSummary, error) {
	runId := ulid.Make()
	start := time.Now()
	logger := c.app.logger.With().Str("run", runId.String()).Logger()

	reports, err := c.collectFiles(patterns)
	if err != nil {
		return checkSummary{}, err
	}

	c.localInterning = green.CacheStats{}
	var sharedInterningBefore green.CacheStats
	if reporter, ok := c.sharedGreenCache.(interningStatsReporter); ok {
		sharedInterningBefore = reporter.Stats()
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(c.app.config.Jobs)

	for _, report := range reports {
		report := report
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c.checkFile(report)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return checkSummary{}, err
	}

	summary := checkSummary{
		RunId: runId.String(),
		Files: make([]fileOutput, 0, len(reports)),
	}

	var failures []error
	for _, report := range reports {
		output := fileOutput{Path: report.path, Cached: report.cached}

		if report.err != nil {
			summary.Failures++
			output.Error = report.err.Error()
			output.Diagnostics = []diagnosticReport{}
			failures = append(failures, report.err)
		} else {
			output.Language = report.result.language
			output.Diagnostics = report.result.diagnostics
			summary.Diagnostics += len(report.result.diagnostics)
		}
		if report.cached {
			summary.Cached++
		}
		summary.Files = append(summary.Files, output)
	}

	if err := utils.CombineErrorsWithPrefixMessage("some files could not be checked", failures...); err != nil {
		logger.Debug().Err(err).Send()
	}

	c.evictStaleResults(reports)
	summary.ResultCache = c.resultCacheStats()
	summary.Interning = c.interningStats(sharedInterningBefore)

	logger.Info().
		Int("files", len(reports)).
		Int("diagnostics", summary.Diagnostics).
		Int("cached", summary.Cached).
		Int("cachedResults", summary.ResultCache.Entries).
		Int("resultHits", summary.ResultCache.Hits).
		Dur("duration", time.Since(start)).
		Msg("check done")

	return summary, c.printSummary(summary)
}

// collectFiles returns a report for each file matching the patterns, in natural order.
func (c *checker) collectFiles(patterns []string) ([]*fileReport, error) {
	files := btree.NewBTreeG(func(a, b *fileReport) bool {
		return natural.Less(a.path, b.path)
	})

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}

		fileCount := 0
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			fileCount++
			files.Set(&fileReport{path: filepath.Clean(match)})
		}

		if fileCount == 0 {
			c.app.logger.Warn().Str("pattern", pattern).Msg("no file matches the pattern")
		}
	}

	if files.Len() == 0 {
		return nil, fmt.Errorf("no file to check")
	}

	reports := make([]*fileReport, 0, files.Len())
	files.Scan(func(report *fileReport) bool {
		reports = append(reports, report)
		return true
	})
	return reports, nil
}

func (c *checker) checkFile(report *fileReport) {
	lang, err := findLanguage(c.opts.langName, report.path)
	if err != nil {
		report.err = err
		return
	}

	content, err := os.ReadFile(report.path)
	if err != nil {
		report.err = err
		return
	}

	//content is never modified
	source := utils.BytesAsString(content)

	report.result, report.cached, report.err = c.results[lang.name].GetOrCompute(source, func() (*fileResult, error) {
		return c.parseSource(lang, report.path, source)
	})
}

func (c *checker) parseSource(lang language, path string, source string) (result *fileResult, finalErr error) {
	defer parse.Recover(&finalErr)

	logger := c.app.logger.With().Str("file", path).Str("lang", lang.name).Logger()

	greenCache := c.sharedGreenCache
	if greenCache == nil {
		greenCache = c.app.config.NewGreenCache()
	}

	parsed := lang.parse(source, greenCache, c.app.config.LexerOptions(), c.app.config.ParserOptions(&logger))
	logger.Debug().Int("diagnostics", len(parsed.diagnostics)).Msg("file parsed")

	if reporter, ok := greenCache.(interningStatsReporter); ok && c.sharedGreenCache == nil {
		c.localInterningLock.Lock()
		c.localInterning = c.localInterning.Add(reporter.Stats())
		c.localInterningLock.Unlock()
	}

	return &fileResult{
		language:    lang.name,
		diagnostics: newDiagnosticReports(source, parsed.diagnostics),
	}, nil
}

// evictStaleResults removes the results of the sources that no longer exist.
func (c *checker) evictStaleResults(reports []*fileReport) {
	kept := make(map[string][]*fileResult, len(c.results))
	for _, report := range reports {
		if report.result != nil {
			kept[report.result.language] = append(kept[report.result.language], report.result)
		}
	}

	for name, results := range c.results {
		results.KeepEntriesByValue(kept[name]...)
	}

	c.lastResults = make(map[string]*fileResult, len(reports))
	for _, report := range reports {
		if report.result != nil {
			c.lastResults[report.path] = report.result
		}
	}
}

// forgetFile drops the cached result of a file of the last run, the files
// with the same content lose their result as well.
func (c *checker) forgetFile(path string) {
	path = filepath.Clean(path)
	result, ok := c.lastResults[path]
	if !ok {
		return
	}
	delete(c.lastResults, path)
	c.results[result.language].DeleteEntryByValue(result)
}

func (c *checker) resultCacheStats() resultCacheStats {
	var stats resultCacheStats
	for _, results := range c.results {
		hits, misses := results.Stats()
		stats.Entries += results.Len()
		stats.Hits += hits
		stats.Misses += misses
	}
	return stats
}

// interningStats returns the green cache stats of the current run, nil is
// returned if the green cache does not intern anything.
func (c *checker) interningStats(sharedBefore green.CacheStats) *green.CacheStats {
	if c.sharedGreenCache == nil {
		c.localInterningLock.Lock()
		defer c.localInterningLock.Unlock()
		stats := c.localInterning
		return &stats
	}

	reporter, ok := c.sharedGreenCache.(interningStatsReporter)
	if !ok {
		return nil
	}
	stats := reporter.Stats().Sub(sharedBefore)
	return &stats
}

func (c *checker) printSummary(summary checkSummary) error {
	out := c.app.outW

	if c.opts.format == JSON_FORMAT {
		serialized, err := utils.MarshalIndentJsonNoHTMLEspace(summary, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%s\n", serialized)
		return err
	}

	colors := c.app.colors

	for _, file := range summary.Files {
		if file.Error != "" {
			if err := prettyprint.PrintDiagnostic(out, file.Path, file.Error, colors); err != nil {
				return err
			}
			continue
		}

		for _, diagnostic := range file.Diagnostics {
			if err := prettyprint.PrintDiagnostic(out, diagnostic.location(file.Path), diagnostic.message(), colors); err != nil {
				return err
			}
		}
	}

	text := fmt.Sprintf("%d file(s) checked, %d diagnostic(s)", len(summary.Files), summary.Diagnostics)
	if summary.Failures > 0 {
		text += fmt.Sprintf(", %d file(s) could not be checked", summary.Failures)
	}
	return prettyprint.PrintSummary(out, summary.ok(), text, colors)
}

// watch checks the files, then checks them again each time a file in their directories
// changes, until ctx is done. Unchanged files are not parsed again.
func (c *checker) watch(ctx context.Context, patterns []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range watchedDirs(patterns) {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	watchCreatedDir := func(path string) {
		if info, err := os.Stat(path); err != nil || !info.IsDir() {
			return
		}
		for _, dir := range subdirectories(path) {
			if err := watcher.Add(dir); err != nil {
				c.app.logger.Warn().Err(err).Str("dir", dir).Msg("failed to watch directory")
			}
		}
	}

	rerun := make(chan struct{}, 1)
	debounced := debounce.New(WATCH_DEBOUNCE_DURATION)

	check := func() {
		if _, err := c.run(ctx, patterns); err != nil && ctx.Err() == nil {
			c.app.logger.Error().Err(err).Send()
		}
	}

	check()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				watchCreatedDir(event.Name)
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				c.forgetFile(event.Name)
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				debounced(func() {
					select {
					case rerun <- struct{}{}:
					default:
					}
				})
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.app.logger.Warn().Err(err).Msg("watcher error")
		case <-rerun:
			check()
		}
	}
}

// watchedDirs returns the non-wildcard base directories of the patterns and, for the
// patterns that match files in nested directories, all the directories below them.
func watchedDirs(patterns []string) []string {
	var dirs []string
	seen := map[string]bool{}

	for _, pattern := range patterns {
		base, rest := doublestar.SplitPattern(filepath.ToSlash(pattern))
		root := filepath.FromSlash(base)

		if info, err := os.Stat(root); err == nil && !info.IsDir() {
			root = filepath.Dir(root)
		}

		patternDirs := []string{root}
		if strings.Contains(rest, "/") || strings.Contains(rest, "**") {
			patternDirs = subdirectories(root)
		}

		for _, dir := range patternDirs {
			if !seen[dir] {
				seen[dir] = true
				dirs = append(dirs, dir)
			}
		}
	}
	return dirs
}

// subdirectories returns root followed by the directories below it in lexical order,
// root is returned even if it cannot be read.
func subdirectories(root string) []string {
	dirs := []string{root}

	filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if entry.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs
}
