package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"harvestql/internal/adapter/vault"
	"harvestql/internal/domain"
	"harvestql/internal/report"
)

type fakeFetcher struct {
	entries []domain.TimeEntry
	err     error
	gotFrom domain.Date
	gotTo   domain.Date
	calls   int
}

func (f *fakeFetcher) ListTimeEntries(ctx context.Context, from, to domain.Date) ([]domain.TimeEntry, error) {
	f.calls++
	f.gotFrom, f.gotTo = from, to
	return f.entries, f.err
}

type fakeRewriter struct {
	err      error
	gotPath  string
	gotStart int
	gotEnd   int
	gotText  string
	calls    int
}

func (f *fakeRewriter) ReplaceLines(path string, start, end int, text string) error {
	f.calls++
	f.gotPath, f.gotStart, f.gotEnd, f.gotText = path, start, end, text
	return f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedNow() time.Time {
	return time.Date(2025, 8, 27, 12, 0, 0, 0, time.UTC)
}

func errorText(t *testing.T, tree *report.Tree) string {
	t.Helper()
	for _, n := range tree.Nodes {
		if text, ok := n.(report.Text); ok && text.Error {
			return text.Body
		}
	}
	t.Fatal("expected an error node in the tree")
	return ""
}

func TestExecute_FetchesResolvedRange(t *testing.T) {
	fetcher := &fakeFetcher{entries: []domain.TimeEntry{
		{ID: 1, SpentDate: mustDate("2025-08-27"), Hours: 1.5, Project: domain.Ref{Name: "Proj A"}, Task: domain.Ref{Name: "Dev"}},
	}}
	uc := &ExecuteUseCase{Log: discardLogger(), Entries: fetcher, Now: fixedNow}

	tree := uc.Execute(context.Background(), "LIST PAST 7 DAYS")

	if fetcher.gotFrom.String() != "2025-08-21" || fetcher.gotTo.String() != "2025-08-27" {
		t.Fatalf("fetched %s..%s, want 2025-08-21..2025-08-27", fetcher.gotFrom, fetcher.gotTo)
	}
	foundTable := false
	for _, n := range tree.Nodes {
		if _, ok := n.(report.Table); ok {
			foundTable = true
		}
	}
	if !foundTable {
		t.Fatal("expected a table in the result tree")
	}
}

func TestExecute_ParseFailureRendersMessage(t *testing.T) {
	fetcher := &fakeFetcher{}
	uc := &ExecuteUseCase{Log: discardLogger(), Entries: fetcher, Now: fixedNow}

	tree := uc.Execute(context.Background(), "LIST")

	msg := errorText(t, tree)
	if !strings.Contains(msg, "LIST") {
		t.Fatalf("parse error should reference the input, got %q", msg)
	}
	if fetcher.calls != 0 {
		t.Fatal("parse failure must not fetch")
	}
}

func TestExecute_FetchFailureRendersFixedMessage(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	uc := &ExecuteUseCase{Log: discardLogger(), Entries: fetcher, Now: fixedNow}

	tree := uc.Execute(context.Background(), "SUMMARY WEEK")

	msg := errorText(t, tree)
	if msg != fetchFailedMessage {
		t.Fatalf("got %q, want the fixed fetch-failure message", msg)
	}
	if strings.Contains(msg, "connection refused") {
		t.Fatal("underlying error must not leak into the document")
	}
}

func TestExecute_StripsStaticFlagOnLivePath(t *testing.T) {
	fetcher := &fakeFetcher{}
	uc := &ExecuteUseCase{Log: discardLogger(), Entries: fetcher, Now: fixedNow}

	uc.Execute(context.Background(), "LIST TODAY --static")

	if fetcher.calls != 1 {
		t.Fatal("query with static flag must still evaluate")
	}
	if fetcher.gotFrom.String() != "2025-08-27" {
		t.Fatalf("flag must not affect the range, got from=%s", fetcher.gotFrom)
	}
}

func TestExecuteBlock_LiveBlockIsNotRewritten(t *testing.T) {
	fetcher := &fakeFetcher{}
	rewriter := &fakeRewriter{}
	uc := &ExecuteUseCase{Log: discardLogger(), Entries: fetcher, Rewriter: rewriter, Now: fixedNow}

	_, frozen := uc.ExecuteBlock(context.Background(), "notes.md", "LIST TODAY", 3, 5)

	if frozen {
		t.Fatal("live block must not freeze")
	}
	if rewriter.calls != 0 {
		t.Fatal("live block must not touch the rewriter")
	}
}

func TestExecuteBlock_StaticBlockFreezes(t *testing.T) {
	fetcher := &fakeFetcher{entries: []domain.TimeEntry{
		{ID: 1, SpentDate: mustDate("2025-08-27"), Hours: 2.0, Project: domain.Ref{Name: "Proj A"}, Task: domain.Ref{Name: "Dev"}},
	}}
	rewriter := &fakeRewriter{}
	uc := &ExecuteUseCase{Log: discardLogger(), Entries: fetcher, Rewriter: rewriter, Now: fixedNow}

	_, frozen := uc.ExecuteBlock(context.Background(), "notes.md", "SUMMARY TODAY --static", 3, 5)

	if !frozen {
		t.Fatal("static block should freeze")
	}
	if rewriter.calls != 1 {
		t.Fatalf("expected one rewrite, got %d", rewriter.calls)
	}
	if rewriter.gotPath != "notes.md" || rewriter.gotStart != 3 || rewriter.gotEnd != 5 {
		t.Fatalf("rewrote %s:%d..%d, want notes.md:3..5", rewriter.gotPath, rewriter.gotStart, rewriter.gotEnd)
	}
	// The frozen markup folds away the original query and keeps the report.
	if !strings.Contains(rewriter.gotText, "<details>") {
		t.Fatal("frozen markup should be fold-away")
	}
	if !strings.Contains(rewriter.gotText, "SUMMARY TODAY --static") {
		t.Fatal("frozen markup should reproduce the original query text")
	}
	if !strings.Contains(rewriter.gotText, "Proj A: 2.00h") {
		t.Fatal("frozen markup should contain the rendered report")
	}
}

func TestExecuteBlock_FrozenMarkupIsNotScannedAgain(t *testing.T) {
	fetcher := &fakeFetcher{entries: []domain.TimeEntry{
		{ID: 1, SpentDate: mustDate("2025-08-27"), Hours: 2.0, Project: domain.Ref{Name: "Proj A"}, Task: domain.Ref{Name: "Dev"}},
	}}
	rewriter := &fakeRewriter{}
	uc := &ExecuteUseCase{Log: discardLogger(), Entries: fetcher, Rewriter: rewriter, Now: fixedNow}

	_, frozen := uc.ExecuteBlock(context.Background(), "notes.md", "SUMMARY TODAY --static", 0, 2)
	if !frozen {
		t.Fatal("static block should freeze")
	}

	// The snapshot replaces the block in the document, so the next scan of
	// that document sees exactly this text. It must contain no query block,
	// or every later pass would freeze the snapshot again.
	if blocks := vault.FindQueryBlocks(rewriter.gotText); len(blocks) != 0 {
		t.Fatalf("frozen markup still parses as %d query block(s): %+v", len(blocks), blocks)
	}
}

func TestExecuteBlock_FailedEvaluationIsNeverFrozen(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("down")}
	rewriter := &fakeRewriter{}
	uc := &ExecuteUseCase{Log: discardLogger(), Entries: fetcher, Rewriter: rewriter, Now: fixedNow}

	tree, frozen := uc.ExecuteBlock(context.Background(), "notes.md", "LIST TODAY --static", 0, 2)

	if frozen || rewriter.calls != 0 {
		t.Fatal("a failed evaluation must not be frozen into the document")
	}
	if msg := errorText(t, tree); msg != fetchFailedMessage {
		t.Fatalf("got %q", msg)
	}
}

func TestExecuteBlock_RewriteFailureRendersMessage(t *testing.T) {
	fetcher := &fakeFetcher{}
	rewriter := &fakeRewriter{err: errors.New("section not found")}
	uc := &ExecuteUseCase{Log: discardLogger(), Entries: fetcher, Rewriter: rewriter, Now: fixedNow}

	tree, frozen := uc.ExecuteBlock(context.Background(), "notes.md", "LIST TODAY --static", 0, 2)

	if frozen {
		t.Fatal("failed rewrite must not report frozen")
	}
	msg := errorText(t, tree)
	if !strings.Contains(msg, "section not found") {
		t.Fatalf("rewrite error should surface inline, got %q", msg)
	}
}

func mustDate(s string) domain.Date {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}
