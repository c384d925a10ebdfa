// Package syntax highlights buffer snapshots with tree-sitter.
package syntax

import (
	"context"
	"math"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/yaml"

	"github.com/kobzarvs/ptedit/internal/config"
	"github.com/kobzarvs/ptedit/internal/logger"
)

// Span is a highlighted run on one line. Columns are byte offsets into the
// line; EndCol may exceed the line length for spans that continue.
type Span struct {
	StartCol int
	EndCol   int
	Kind     string
}

type grammar struct {
	lang  *sitter.Language
	query *sitter.Query
}

type Engine struct {
	langs    config.Languages
	grammars map[string]*grammar
	parsers  map[string]*sitter.Parser
	trees    map[string]*sitter.Tree
	sources  map[string][]byte
	mu       sync.RWMutex
}

func New(langs config.Languages) *Engine {
	e := &Engine{
		langs:    langs,
		grammars: make(map[string]*grammar),
		parsers:  make(map[string]*sitter.Parser),
		trees:    make(map[string]*sitter.Tree),
		sources:  make(map[string][]byte),
	}
	for _, l := range []struct {
		name  string
		lang  *sitter.Language
		query string
	}{
		{"go", golang.GetLanguage(), goHighlightQuery},
		{"toml", toml.GetLanguage(), tomlHighlightQuery},
		{"yaml", yaml.GetLanguage(), yamlHighlightQuery},
		{"bash", bash.GetLanguage(), bashHighlightQuery},
	} {
		query, err := sitter.NewQuery([]byte(l.query), l.lang)
		if err != nil {
			logger.Warn("highlight query rejected", "language", l.name, "err", err)
			continue
		}
		e.grammars[l.name] = &grammar{lang: l.lang, query: query}
	}
	return e
}

// Language returns the configured language name for path, or "" when the
// path has no grammar.
func (e *Engine) Language(path string) string {
	lang := e.langs.Match(path)
	if lang == nil {
		return ""
	}
	if _, ok := e.grammars[lang.Name]; !ok {
		return ""
	}
	return lang.Name
}

// Parse replaces the tree stored for path with a parse of text. It reports
// whether path has a grammar.
func (e *Engine) Parse(path, text string) bool {
	name := e.Language(path)
	if name == "" {
		return false
	}
	g := e.grammars[name]

	e.mu.Lock()
	defer e.mu.Unlock()
	parser := e.parsers[name]
	if parser == nil {
		parser = sitter.NewParser()
		parser.SetLanguage(g.lang)
		e.parsers[name] = parser
	}
	source := []byte(text)
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		logger.Warn("parse failed", "path", path, "err", err)
		return false
	}
	if old := e.trees[path]; old != nil {
		old.Close()
	}
	e.trees[path] = tree
	e.sources[path] = source
	return true
}

// Highlights returns spans for lines startLine..endLine inclusive, keyed
// by line.
func (e *Engine) Highlights(path string, startLine, endLine int) map[int][]Span {
	if startLine < 0 || endLine < startLine {
		return nil
	}
	name := e.Language(path)
	if name == "" {
		return nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	tree := e.trees[path]
	if tree == nil {
		return nil
	}
	return queryHighlights(e.grammars[name].query, tree, e.sources[path], startLine, endLine)
}

// Close releases every tree and parser.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for path, tree := range e.trees {
		tree.Close()
		delete(e.trees, path)
	}
	for name, p := range e.parsers {
		p.Close()
		delete(e.parsers, name)
	}
}

func queryHighlights(query *sitter.Query, tree *sitter.Tree, source []byte, startLine, endLine int) map[int][]Span {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.SetPointRange(
		sitter.Point{Row: uint32(startLine), Column: 0},
		sitter.Point{Row: uint32(endLine + 1), Column: 0},
	)
	cursor.Exec(query, tree.RootNode())

	out := make(map[int][]Span)
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, source)
		if match == nil {
			continue
		}
		for _, capture := range match.Captures {
			kind := query.CaptureNameForId(capture.Index)
			start := capture.Node.StartPoint()
			end := capture.Node.EndPoint()
			startRow := int(start.Row)
			endRow := int(end.Row)
			for row := startRow; row <= endRow; row++ {
				if row < startLine || row > endLine {
					continue
				}
				startCol := 0
				endCol := math.MaxInt32
				if row == startRow {
					startCol = int(start.Column)
				}
				if row == endRow {
					endCol = int(end.Column)
				}
				if endCol <= startCol {
					continue
				}
				out[row] = append(out[row], Span{StartCol: startCol, EndCol: endCol, Kind: kind})
			}
		}
	}
	return out
}
