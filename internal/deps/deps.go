// Package deps flags redundant entries in a dependency manifest.
package deps

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bgricker/qualitygate/internal/config"
)

// Auditor checks a manifest against a table of redundant pairs.
type Auditor struct {
	pairs []config.RedundantPair
}

// NewAuditor creates an auditor. A nil table falls back to config.DefaultPairs.
func NewAuditor(pairs []config.RedundantPair) *Auditor {
	if pairs == nil {
		pairs = config.DefaultPairs()
	}
	return &Auditor{pairs: append([]config.RedundantPair{}, pairs...)}
}

// AuditFile audits the manifest at path, reported as display in messages. A
// missing manifest yields one violation rather than an error.
func (a *Auditor) AuditFile(path, display string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{fmt.Sprintf("%s not found for dependency analysis", display)}, nil
		}
		return nil, fmt.Errorf("open manifest %q: %w", display, err)
	}
	defer f.Close()
	return a.Audit(f)
}

// Audit reads one dependency name per line and returns one violation per
// pair whose members are both declared, in table order.
func (a *Auditor) Audit(r io.Reader) ([]string, error) {
	declared, err := ReadManifest(r)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, pair := range a.pairs {
		if declared[pair.First] && declared[pair.Second] {
			out = append(out, pairMessage(pair))
		}
	}
	return out, nil
}

// ReadManifest returns the set of trimmed, non-blank lines.
func ReadManifest(r io.Reader) (map[string]bool, error) {
	declared := make(map[string]bool)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		declared[line] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return declared, nil
}

func pairMessage(pair config.RedundantPair) string {
	if pair.Message != "" {
		return pair.Message
	}
	return fmt.Sprintf("Redundant libraries: %s and %s", pair.First, pair.Second)
}
