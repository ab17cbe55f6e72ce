// Package vault reads and rewrites markdown documents in a local vault
// directory. Query blocks are fenced code blocks labeled "harvest".
package vault

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Vault is a directory of markdown documents.
type Vault struct {
	dir string
	log *slog.Logger
}

func New(dir string, log *slog.Logger) *Vault {
	return &Vault{dir: dir, log: log}
}

// Dir returns the vault root directory.
func (v *Vault) Dir() string { return v.dir }

// Block is one query block inside a document. StartLine and EndLine are
// zero-based and inclusive, covering the fence lines themselves.
type Block struct {
	Source    string
	StartLine int
	EndLine   int
}

const fenceLabel = "harvest"

// FindQueryBlocks scans document content for ```harvest fenced blocks and
// returns them in document order. An unterminated fence is ignored.
func FindQueryBlocks(content string) []Block {
	lines := strings.Split(content, "\n")
	var blocks []Block
	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(trimmed, "```") {
			continue
		}
		if strings.TrimSpace(strings.TrimPrefix(trimmed, "```")) != fenceLabel {
			continue
		}
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == "```" {
				source := strings.TrimSpace(strings.Join(lines[i+1:j], "\n"))
				blocks = append(blocks, Block{Source: source, StartLine: i, EndLine: j})
				i = j
				break
			}
		}
	}
	return blocks
}

// ListDocuments returns the vault-relative paths of all markdown documents.
func (v *Vault) ListDocuments() ([]string, error) {
	var docs []string
	err := filepath.WalkDir(v.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Dotfolders are hidden in most vault UIs; skip them.
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			rel, err := filepath.Rel(v.dir, path)
			if err != nil {
				return err
			}
			docs = append(docs, rel)
		}
		return nil
	})
	return docs, err
}

// Read returns the content of a vault-relative document.
func (v *Vault) Read(rel string) (string, error) {
	b, err := os.ReadFile(filepath.Join(v.dir, rel))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReplaceLines replaces the inclusive zero-based line range [start, end] of
// a document with text. The whole file is rewritten; concurrent writers of
// the same document race last-write-wins.
func (v *Vault) ReplaceLines(rel string, start, end int, text string) error {
	path := filepath.Join(v.dir, rel)
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	lines := strings.Split(string(b), "\n")
	if start < 0 || end < start || end >= len(lines) {
		return fmt.Errorf("vault: line range %d..%d out of bounds for %s (%d lines)", start, end, rel, len(lines))
	}

	replacement := strings.Split(strings.TrimRight(text, "\n"), "\n")
	out := make([]string, 0, len(lines)-(end-start+1)+len(replacement))
	out = append(out, lines[:start]...)
	out = append(out, replacement...)
	out = append(out, lines[end+1:]...)

	if err := os.WriteFile(path, []byte(strings.Join(out, "\n")), 0o644); err != nil {
		return err
	}
	v.log.Debug("rewrote document lines",
		slog.String("doc", rel),
		slog.Int("start", start),
		slog.Int("end", end),
	)
	return nil
}
