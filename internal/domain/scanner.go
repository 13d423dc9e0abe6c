package domain

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mouse-blink/agentcli/internal/adapter"
	"github.com/mouse-blink/agentcli/internal/config"
	rerrors "github.com/mouse-blink/agentcli/internal/errors"
	m "github.com/mouse-blink/agentcli/internal/model"
)

const (
	// binarySniffLen is how much of a file is checked for NUL bytes.
	binarySniffLen = 8 * 1024
	// DefaultMaxFileSize bounds per-file memory during a scan.
	DefaultMaxFileSize int64 = 10 * 1024 * 1024
)

// DefaultExcludedDirs are never descended into.
var DefaultExcludedDirs = []string{"target", "build", ".git", "node_modules", config.StateDirName}

// Scanner finds the references a rename would touch. It never writes.
type Scanner interface {
	Scan(ctx context.Context, root m.Path, symbol m.Symbol) (m.ReferenceSet, error)
}

// ScanOptions tunes candidate filtering and read concurrency.
type ScanOptions struct {
	ExcludeDirs []string
	MaxFileSize int64
	Workers     int
}

type scanner struct {
	fsAdapter adapter.SourceFSAdapter
	logger    *slog.Logger
	exclude   map[string]struct{}
	maxSize   int64
	workers   int
}

// NewScanner builds a Scanner. Extra exclusions are added to DefaultExcludedDirs.
func NewScanner(fsAdapter adapter.SourceFSAdapter, logger *slog.Logger, opts ScanOptions) Scanner {
	exclude := make(map[string]struct{}, len(DefaultExcludedDirs)+len(opts.ExcludeDirs))
	for _, dir := range append(append([]string{}, DefaultExcludedDirs...), opts.ExcludeDirs...) {
		exclude[dir] = struct{}{}
	}

	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	return &scanner{
		fsAdapter: fsAdapter,
		logger:    logger,
		exclude:   exclude,
		maxSize:   maxSize,
		workers:   workers,
	}
}

// Scan walks root, reads candidate files concurrently, and merges the
// matches into a deterministic ReferenceSet.
func (s *scanner) Scan(ctx context.Context, root m.Path, symbol m.Symbol) (m.ReferenceSet, error) {
	absRoot, err := filepath.Abs(string(root))
	if err != nil {
		return m.ReferenceSet{}, fmt.Errorf("failed to resolve root: %w", err)
	}

	candidates, err := s.candidates(m.Path(absRoot), symbol)
	if err != nil {
		return m.ReferenceSet{}, err
	}

	s.logger.Debug("scan candidates collected", "root", absRoot, "symbol", symbol.String(), "files", len(candidates))

	mt := newMatcher(symbol)
	perFile := make([][]m.Reference, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, path := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			refs, err := s.scanFile(path, mt)
			if err != nil {
				return err
			}

			perFile[i] = refs

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return m.ReferenceSet{}, err
	}

	var all []m.Reference
	for _, refs := range perFile {
		all = append(all, refs...)
	}

	set := m.NewReferenceSet(all)
	s.logger.Info("scan finished", "symbol", symbol.String(), "files", set.FileCount(), "references", set.Len())

	return set, nil
}

// candidates lists the files the symbol's scope allows, in walk order.
func (s *scanner) candidates(root m.Path, symbol m.Symbol) ([]m.Path, error) {
	if symbol.Kind == m.SymbolVariable && symbol.Scope.File != "" {
		return s.scopedFile(root, symbol.Scope.File)
	}

	var files []m.Path

	err := s.fsAdapter.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return rerrors.Scan(m.Path(path), err)
		}

		if info.IsDir() {
			if path != string(root) {
				if _, skip := s.exclude[info.Name()]; skip {
					return adapter.SkipDir
				}
			}

			return nil
		}

		if !s.eligible(m.Path(path), info) {
			return nil
		}

		if symbol.Kind == m.SymbolMethod && symbol.Scope.Class != "" && m.Path(path).Stem() != symbol.Scope.Class {
			return nil
		}

		files = append(files, m.Path(path))

		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (s *scanner) scopedFile(root, scope m.Path) ([]m.Path, error) {
	path := string(scope)
	if !filepath.IsAbs(path) {
		path = filepath.Join(string(root), path)
	}

	info, err := s.fsAdapter.FileInfo(m.Path(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, rerrors.New(rerrors.NotFound, "scope file does not exist", m.Path(path), err)
		}

		return nil, rerrors.Scan(m.Path(path), err)
	}

	if info.IsDir() {
		return nil, rerrors.New(rerrors.InvalidSymbol, "scope must be a file", m.Path(path), nil)
	}

	if !s.eligible(m.Path(path), info) {
		return nil, nil
	}

	return []m.Path{m.Path(path)}, nil
}

// eligible filters out non-regular and oversized files.
func (s *scanner) eligible(path m.Path, info os.FileInfo) bool {
	if !info.Mode().IsRegular() {
		return false
	}

	if info.Size() > s.maxSize {
		s.logger.Debug("skipping oversized file", "path", path, "size", info.Size())
		return false
	}

	return true
}

func (s *scanner) scanFile(path m.Path, mt matcher) ([]m.Reference, error) {
	content, err := s.fsAdapter.ReadFile(path)
	if err != nil {
		return nil, rerrors.Scan(path, err)
	}

	if isBinary(content) {
		s.logger.Debug("skipping binary file", "path", path)
		return nil, nil
	}

	spans := mt.find(content)
	if len(spans) == 0 {
		return nil, nil
	}

	lineStarts := computeLineStarts(content)
	refs := make([]m.Reference, 0, len(spans))
	lastLine := 0

	for _, span := range spans {
		line := lineOf(lineStarts, span[0])
		if line == lastLine {
			continue
		}

		lastLine = line
		refs = append(refs, m.Reference{File: path, Line: line, Text: lineText(content, lineStarts, line)})
	}

	return refs, nil
}

func lineText(content []byte, lineStarts []int, line int) string {
	start := lineStarts[line-1]

	end := len(content)
	if line < len(lineStarts) {
		end = lineStarts[line] - 1
	}

	return strings.TrimSpace(string(content[start:end]))
}

func isBinary(content []byte) bool {
	sniff := content
	if len(sniff) > binarySniffLen {
		sniff = sniff[:binarySniffLen]
	}

	return bytes.IndexByte(sniff, 0) >= 0
}
