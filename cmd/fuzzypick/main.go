// Command fuzzypick runs a standalone interactive fuzzy picker over a
// ripgrep-backed symbol index, wiring the matcher, column schema,
// preview cache, and highlight worker into a single bubbletea program.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"fuzzypick/internal/highlighter"
	"fuzzypick/internal/picker"
	"fuzzypick/internal/preview"
	"fuzzypick/internal/symbolsrc"
)

type editorData struct {
	root string
}

func main() {
	var (
		root          string
		pattern       string
		noPreview     bool
		cacheSize     int
		workers       int
		contextRadius int
		themeName     string
		noIgnore      bool
		excludeTests  bool
		debounceMs    int
	)

	flag.StringVar(&root, "root", ".", "search root")
	flag.StringVar(&pattern, "pattern", symbolsrc.DefaultRGPattern, "ripgrep regex pattern")
	flag.BoolVar(&noPreview, "no-preview", false, "disable the preview pane")
	flag.IntVar(&cacheSize, "cache-size", 20000, "highlight span cache entries")
	flag.IntVar(&workers, "workers", max(1, runtime.GOMAXPROCS(0)-1), "highlight worker count")
	flag.IntVar(&contextRadius, "context-radius", 40, "line radius for file-context highlighting")
	flag.StringVar(&themeName, "theme", "nord", "color theme (nord, dracula, monokai, github, ...)")
	flag.BoolVar(&noIgnore, "no-ignore", false, "disable rg's .gitignore/.ignore/.rgignore handling")
	flag.BoolVar(&excludeTests, "exclude-tests", false, "exclude common test directories and filenames")
	flag.IntVar(&debounceMs, "debounce-ms", 100, "prompt idle debounce in milliseconds, used by -dynamic")
	dynamic := flag.Bool("dynamic", false, "re-scan on query idle instead of streaming once at startup")
	flag.Parse()

	if flag.NArg() > 0 {
		root = flag.Arg(0)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		fatal("resolve root: %v", err)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	theme, err := picker.LoadTheme(themeName)
	if err != nil {
		fatal("invalid -theme: %v", err)
	}

	hl := highlighter.NewHighlighter(highlighter.HighlighterConfig{
		CacheSize:     cacheSize,
		Workers:       workers,
		Root:          absRoot,
		DefaultMode:   highlighter.HighlightContextFile,
		ContextRadius: contextRadius,
	})

	registry := preview.NewRegistry(hl)
	cache := preview.NewCache(registry, registry)
	hlWorker := preview.NewWorker(hl, 256)
	defer hlWorker.Stop()
	cache.OnHighlightNeeded = registry.HighlightRequestFunc(hlWorker)

	columns := symbolColumns()
	data := editorData{root: absRoot}

	onSelect := func(data editorData, cand symbolsrc.Candidate, action picker.SelectAction) {
		abs := filepath.Join(data.root, cand.File)
		log.Info("selected", "action", action, "file", abs, "line", cand.Line, "col", cand.Col)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	producerCfg := symbolsrc.ProducerConfig{
		Root:         absRoot,
		Pattern:      pattern,
		NoIgnore:     noIgnore,
		ExcludeTests: excludeTests,
	}

	var program *tea.Program
	if *dynamic {
		core := picker.New(columns, data, nil, onSelect)
		core.WithTheme(theme)
		if !noPreview {
			core.WithPreview(cache, candidatePreview).WithHighlighter(hl)
		}
		query := func(q string, data editorData) ([]symbolsrc.Candidate, error) {
			items, err := scanOnce(ctx, symbolsrc.ProducerConfig{
				Root:         data.root,
				Pattern:      pattern,
				NoIgnore:     noIgnore,
				ExcludeTests: excludeTests,
			})
			if err != nil {
				log.Warn("re-scan failed", "err", err)
			}
			return items, err
		}
		dyn := picker.NewDynamic(core, time.Duration(debounceMs)*time.Millisecond, query)
		program = tea.NewProgram(dyn, tea.WithAltScreen())
	} else {
		m, inj, gen := picker.Stream(columns, data)
		out, done := symbolsrc.StartProducer(ctx, producerCfg)
		go func() {
			for cand := range out {
				if err := inj.Push(cand); err != nil {
					return
				}
			}
		}()
		go func() {
			if err := <-done; err != nil {
				log.Warn("scan finished with error", "err", err)
			}
		}()

		core := picker.WithStream(m, columns, data, gen, onSelect)
		core.WithTheme(theme)
		if !noPreview {
			core.WithPreview(cache, candidatePreview).WithHighlighter(hl)
		}
		program = tea.NewProgram(core, tea.WithAltScreen())
	}

	if _, err := program.Run(); err != nil {
		fatal("fuzzypick failed: %v", err)
	}
}

func scanOnce(ctx context.Context, cfg symbolsrc.ProducerConfig) ([]symbolsrc.Candidate, error) {
	out, done := symbolsrc.StartProducer(ctx, cfg)
	var items []symbolsrc.Candidate
	for cand := range out {
		items = append(items, cand)
	}
	return items, <-done
}

func symbolColumns() picker.Columns[symbolsrc.Candidate, editorData] {
	cols := []picker.Column[symbolsrc.Candidate, editorData]{
		{
			Name:   "text",
			Filter: true,
			Format: func(c symbolsrc.Candidate, _ editorData) picker.StyledCell {
				return picker.PlainCell(c.Text)
			},
		},
		{
			Name:          "path",
			Filter:        true,
			TruncateStart: true,
			Format: func(c symbolsrc.Candidate, _ editorData) picker.StyledCell {
				return picker.PlainCell(fmt.Sprintf("%s:%d:%d", c.File, c.Line, c.Col))
			},
		},
	}
	columns := picker.NewColumns(cols, 0)
	columns.Bonus = func(c symbolsrc.Candidate, _ editorData) int32 {
		return int32(symbolsrc.SemanticScore(&c))
	}
	return columns
}

func candidatePreview(data editorData, cand symbolsrc.Candidate) (preview.FileLocation, bool) {
	abs := filepath.Join(data.root, cand.File)
	start := max(1, cand.Line-1)
	end := cand.Line + 1
	return preview.FileLocation{
		Where: preview.Path(abs),
		Range: &preview.LineRange{Start: start, End: end},
	}, true
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
