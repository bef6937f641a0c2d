// Package authz decides which bracelet IDs may be resolved or registered.
package authz

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcoot/ofelia/internal/model"
)

// Policy is a membership check over issued bracelet IDs
type Policy interface {
	Allowed(id model.BraceletID) bool
}

// DefaultIDs are the bracelets issued with the first production batch
var DefaultIDs = []model.BraceletID{
	"DD2349X66",
	"OF6233Q81",
	"XG2867G11",
	"QZ3757G54",
	"WR9864H20",
}

// List is a fixed set of authorized IDs
type List struct {
	ids map[model.BraceletID]struct{}
}

// Ensure List implements the interface
var _ Policy = (*List)(nil)

// NewList builds a List from the given IDs
func NewList(ids ...model.BraceletID) *List {
	l := &List{ids: make(map[model.BraceletID]struct{}, len(ids))}
	for _, id := range ids {
		l.ids[id] = struct{}{}
	}
	return l
}

// Default returns the List of DefaultIDs
func Default() *List {
	return NewList(DefaultIDs...)
}

// Allowed reports whether id is on the list. Matching is exact.
func (l *List) Allowed(id model.BraceletID) bool {
	_, ok := l.ids[id]
	return ok
}

// Len returns the number of authorized IDs
func (l *List) Len() int {
	return len(l.ids)
}

// Parse reads one ID per line. Blank lines and lines starting with # are skipped.
func Parse(r io.Reader) (*List, error) {
	var ids []model.BraceletID
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, model.BraceletID(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("authorization list is empty")
	}
	return NewList(ids...), nil
}

// LoadFile reads an authorization list from disk
func LoadFile(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	list, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return list, nil
}
