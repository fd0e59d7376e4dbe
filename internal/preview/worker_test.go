package preview

import (
	"testing"
	"time"

	"fuzzypick/internal/highlighter"
	"fuzzypick/internal/lang"
)

func TestWorkerQueueHighlightsAndMarksDocument(t *testing.T) {
	hl := highlighter.NewHighlighter(highlighter.HighlighterConfig{Workers: 1})
	w := NewWorker(hl, 4)
	defer w.Stop()

	doc := &memDocument{
		path:  "main.go",
		lines: []string{"package main", "", "func main() {}"},
		lang:  lang.Go,
		hl:    hl,
	}

	if doc.HasLanguageConfig() {
		t.Fatalf("expected HasLanguageConfig false before highlighting")
	}

	w.Queue(doc)

	deadline := time.Now().Add(2 * time.Second)
	for !doc.highlit && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if !doc.highlit {
		t.Fatalf("expected worker to mark the document highlighted")
	}
	if !doc.HasLanguageConfig() {
		t.Fatalf("expected HasLanguageConfig true after highlighting")
	}
}

func TestWorkerQueueFullDropsWithoutBlocking(t *testing.T) {
	hl := highlighter.NewHighlighter(highlighter.HighlighterConfig{Workers: 1})
	w := NewWorker(hl, 1)
	defer w.Stop()

	for i := 0; i < 10; i++ {
		w.Queue(&memDocument{path: "a.go", lines: []string{"package a"}, lang: lang.Go, hl: hl})
	}
}
