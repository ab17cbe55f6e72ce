package app

import (
	"context"
	"fmt"
	"log/slog"

	"harvestql/internal/adapter/vault"
	"harvestql/internal/report"
)

// BlockResult is the outcome of evaluating one query block in a document.
type BlockResult struct {
	Doc    string
	Line   int // zero-based opening-fence line, as found before any rewrite
	Source string
	Tree   *report.Tree
	Frozen bool
}

// EvaluateDocument evaluates every query block in one vault document.
// Blocks are processed bottom-up so a static freeze, which changes the
// document's line count, cannot shift the line numbers of blocks still
// pending. Each block evaluates independently; one block's failure is
// rendered in place and does not stop the rest.
func (a *App) EvaluateDocument(ctx context.Context, rel string) ([]BlockResult, error) {
	if a.vault == nil {
		return nil, fmt.Errorf("no vault configured: set VAULT_DIR")
	}
	content, err := a.vault.Read(rel)
	if err != nil {
		return nil, err
	}
	blocks := vault.FindQueryBlocks(content)

	results := make([]BlockResult, 0, len(blocks))
	for i := len(blocks) - 1; i >= 0; i-- {
		b := blocks[i]
		tree, frozen := a.exec.ExecuteBlock(ctx, rel, b.Source, b.StartLine, b.EndLine)
		results = append(results, BlockResult{
			Doc:    rel,
			Line:   b.StartLine,
			Source: b.Source,
			Tree:   tree,
			Frozen: frozen,
		})
	}
	// Back into document order for the caller.
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results, nil
}

// RunBlocksOnce evaluates every query block in every vault document.
func (a *App) RunBlocksOnce(ctx context.Context) ([]BlockResult, error) {
	if a.vault == nil {
		return nil, fmt.Errorf("no vault configured: set VAULT_DIR")
	}
	docs, err := a.vault.ListDocuments()
	if err != nil {
		return nil, err
	}

	var results []BlockResult
	for _, doc := range docs {
		res, err := a.EvaluateDocument(ctx, doc)
		if err != nil {
			a.log.Error("document evaluation failed",
				slog.String("doc", doc),
				slog.String("error", err.Error()),
			)
			continue
		}
		results = append(results, res...)
	}
	a.log.Info("evaluated query blocks", slog.Int("count", len(results)))
	return results, nil
}
