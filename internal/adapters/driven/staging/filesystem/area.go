// Package filesystem implements staging areas as directories of numbered
// text files.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
)

// Ensure Provider and Area implement the interfaces.
var (
	_ driven.StagingProvider = (*Provider)(nil)
	_ driven.StagingArea     = (*Area)(nil)
)

// titlePrefix starts the header line of every unit file.
const titlePrefix = "title: "

// Provider creates staging directories under a root directory.
type Provider struct {
	root string
}

// NewProvider creates a provider rooted at root.
// If root is empty, a "qabench-staging" directory in the OS temp dir is used.
func NewProvider(root string) *Provider {
	if root == "" {
		root = filepath.Join(os.TempDir(), "qabench-staging")
	}
	return &Provider{root: root}
}

// Root returns the directory staging areas are created under.
func (p *Provider) Root() string {
	return p.root
}

// Acquire creates a new directory for key under the root. Every call gets
// its own directory, so concurrent acquisitions of one key never share units.
func (p *Provider) Acquire(ctx context.Context, key string) (driven.StagingArea, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(p.root, 0700); err != nil {
		return nil, fmt.Errorf("create staging root: %w", err)
	}
	dir, err := os.MkdirTemp(p.root, safeName(key)+"-*")
	if err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	return &Area{dir: dir}, nil
}

// safeName maps a key to a single path element.
func safeName(key string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
	if strings.Trim(name, "_") == "" {
		return "default"
	}
	return name
}

// Area is a staging directory holding <sequence>.txt files.
type Area struct {
	mu       sync.Mutex
	dir      string
	count    int
	released bool
}

// Dir returns the directory backing the area.
func (a *Area) Dir() string {
	return a.dir
}

// Put writes the unit to <sequence>.txt. Sequences must be contiguous from 1.
func (a *Area) Put(ctx context.Context, unit domain.TextUnit) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.released {
		return domain.ErrStagingReleased
	}
	if unit.Sequence != a.count+1 {
		return fmt.Errorf("%w: sequence %d, expected %d", domain.ErrInvalidInput, unit.Sequence, a.count+1)
	}

	content := titlePrefix + strings.ReplaceAll(unit.Title, "\n", " ") + "\n\n" + unit.RawText
	path := filepath.Join(a.dir, strconv.Itoa(unit.Sequence)+".txt")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("write unit %d: %w", unit.Sequence, err)
	}
	a.count++
	return nil
}

// Units reads every unit file back, ordered by sequence.
func (a *Area) Units(ctx context.Context) ([]domain.TextUnit, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.released {
		return nil, domain.ErrStagingReleased
	}

	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, fmt.Errorf("list staging dir: %w", err)
	}

	units := make([]domain.TextUnit, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".txt" {
			continue
		}
		seq, err := strconv.Atoi(strings.TrimSuffix(name, ".txt"))
		if err != nil || seq <= 0 {
			continue
		}
		unit, err := readUnit(filepath.Join(a.dir, name), seq)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}

	sort.Slice(units, func(i, j int) bool { return units[i].Sequence < units[j].Sequence })
	return units, nil
}

// readUnit parses a unit file written by Put.
func readUnit(path string, seq int) (domain.TextUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.TextUnit{}, fmt.Errorf("read unit %d: %w", seq, err)
	}

	unit := domain.TextUnit{Sequence: seq}
	text := string(data)
	if strings.HasPrefix(text, titlePrefix) {
		header, body, _ := strings.Cut(text, "\n")
		unit.Title = strings.TrimPrefix(header, titlePrefix)
		text = strings.TrimPrefix(body, "\n")
	} else {
		// Files dropped in by hand have no header; use the first line.
		first, _, _ := strings.Cut(text, "\n")
		unit.Title = strings.TrimSpace(first)
	}
	unit.RawText = text
	return unit, nil
}

// Len returns the number of units written.
func (a *Area) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.count
}

// Release removes the directory. Safe to call more than once.
func (a *Area) Release() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.released {
		return nil
	}
	a.released = true
	a.count = 0
	if err := os.RemoveAll(a.dir); err != nil {
		return fmt.Errorf("remove staging dir: %w", err)
	}
	return nil
}
