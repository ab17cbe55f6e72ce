package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"harvestql/internal/domain"
	"harvestql/internal/hql"
	"harvestql/internal/ports"
	"harvestql/internal/report"
)

// fetchFailedMessage is the fixed text shown when the entry source fails.
// The underlying error goes to the log, not the document.
const fetchFailedMessage = "Failed to fetch time entries."

// ExecuteUseCase evaluates query source into a display tree: parse, fetch
// matching entries, aggregate, render. Every failure terminates in a tree
// carrying user-visible text; no error escapes to the caller.
type ExecuteUseCase struct {
	Log      *slog.Logger
	Entries  ports.EntryFetcher
	Rewriter ports.DocumentRewriter
	Now      func() time.Time // defaults to time.Now
}

func (uc *ExecuteUseCase) today() domain.Date {
	if uc.Now != nil {
		return domain.Today(uc.Now())
	}
	return domain.Today(time.Now())
}

// Execute evaluates source for live display. A static flag, if present, is
// stripped and ignored: freezing only makes sense for a document block.
func (uc *ExecuteUseCase) Execute(ctx context.Context, source string) *report.Tree {
	clean, _ := hql.SplitStaticFlag(source)
	tree, _, _ := uc.evaluate(ctx, clean)
	return tree
}

// ExecuteBlock evaluates one document block. Blocks carrying the static flag
// are frozen in place: the rendered markdown replaces the block's source
// lines, behind a fold-away reproduction of the original query. Returns the
// display tree and whether the block was frozen. A block that failed to
// evaluate is never frozen.
func (uc *ExecuteUseCase) ExecuteBlock(ctx context.Context, doc, source string, startLine, endLine int) (*report.Tree, bool) {
	clean, static := hql.SplitStaticFlag(source)
	tree, _, ok := uc.evaluate(ctx, clean)
	if !static || !ok {
		return tree, false
	}
	if uc.Rewriter == nil {
		return report.ErrorTree("Cannot freeze report: no document rewriter configured."), false
	}
	frozen := freezeMarkup(source, tree, uc.today())
	if err := uc.Rewriter.ReplaceLines(doc, startLine, endLine, frozen); err != nil {
		uc.Log.Error("static freeze failed",
			slog.String("doc", doc),
			slog.String("error", err.Error()),
		)
		return report.ErrorTree("Failed to freeze report: " + err.Error()), false
	}
	uc.Log.Info("froze query block",
		slog.String("doc", doc),
		slog.Int("line", startLine),
	)
	return tree, true
}

func (uc *ExecuteUseCase) evaluate(ctx context.Context, clean string) (*report.Tree, hql.Query, bool) {
	q, err := hql.Parse(clean, uc.today())
	if err != nil {
		uc.Log.Warn("query parse failed",
			slog.String("source", clean),
			slog.String("error", err.Error()),
		)
		return report.ErrorTree(err.Error()), hql.Query{}, false
	}

	uc.Log.Debug("fetching time entries",
		slog.String("from", q.From.String()),
		slog.String("to", q.To.String()),
	)
	entries, err := uc.Entries.ListTimeEntries(ctx, q.From, q.To)
	if err != nil {
		uc.Log.Error("entry fetch failed", slog.String("error", err.Error()))
		return report.ErrorTree(fetchFailedMessage), q, false
	}

	return report.Render(report.Aggregate(entries, q)), q, true
}

// freezeMarkup renders the one-time snapshot that replaces a static block:
// the original query text folded away, followed by the rendered report.
// The reproduction uses an unlabeled fence. A labeled one would be picked
// up as a query block on the next scan and re-frozen forever.
func freezeMarkup(source string, tree *report.Tree, today domain.Date) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<details><summary>harvest: %s (frozen %s)</summary>\n\n", strings.TrimSpace(source), today)
	b.WriteString("```\n")
	b.WriteString(strings.TrimSpace(source))
	b.WriteString("\n```\n\n</details>\n\n")
	b.WriteString(report.Markdown(tree))
	return b.String()
}
