package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	hv "harvestql/internal/adapter/harvest"
	msql "harvestql/internal/adapter/mysql"
	"harvestql/internal/adapter/vault"
	"harvestql/internal/config"
	"harvestql/internal/domain"
	"harvestql/internal/migrate"
	"harvestql/internal/ports"
	"harvestql/internal/report"
	"harvestql/internal/session"
	"harvestql/internal/usecase"
)

// App wires adapters and use cases.
type App struct {
	log     *slog.Logger
	loc     *time.Location
	harvest ports.HarvestClient
	cache   *msql.Client // nil without MYSQL_DSN
	vault   *vault.Vault // nil without VAULT_DIR
	exec    *usecase.ExecuteUseCase
	sync    *usecase.SyncUseCase
	session *session.Session
}

func New(log *slog.Logger, cfg config.Config) (*App, error) {
	loc, err := time.LoadLocation(cfg.Report.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_TZ %q: %w", cfg.Report.Timezone, err)
	}

	harvestClient := hv.NewClient(cfg.Harvest.BaseURL, cfg.Harvest.APIToken, cfg.Harvest.AccountID, log)

	a := &App{
		log:     log,
		loc:     loc,
		harvest: harvestClient,
		session: session.New(log, harvestClient),
	}

	if cfg.MySQL.DSN != "" {
		// Run migrations before opening the cache for use.
		if err := migrate.Run(context.Background(), cfg.MySQL.DSN, log); err != nil {
			return nil, err
		}
		cache, err := msql.NewClient(context.Background(), cfg.MySQL.DSN, log)
		if err != nil {
			return nil, err
		}
		a.cache = cache
	}

	if cfg.Vault.Dir != "" {
		a.vault = vault.New(cfg.Vault.Dir, log)
	}

	a.exec = &usecase.ExecuteUseCase{
		Log:     log,
		Entries: harvestClient,
		Now:     a.now,
	}
	if a.vault != nil {
		a.exec.Rewriter = a.vault
	}
	if a.cache != nil {
		a.sync = &usecase.SyncUseCase{Log: log, Harvest: harvestClient, Sink: a.cache}
	}

	return a, nil
}

func (a *App) now() time.Time { return time.Now().In(a.loc) }

// Session returns the shared tracker session.
func (a *App) Session() *session.Session { return a.session }

// Execute evaluates one query string against the live Harvest API.
func (a *App) Execute(ctx context.Context, source string) *report.Tree {
	return a.exec.Execute(ctx, source)
}

// ExecuteCached evaluates one query string against the local report cache.
func (a *App) ExecuteCached(ctx context.Context, source string) (*report.Tree, error) {
	if a.cache == nil {
		return nil, fmt.Errorf("no report cache configured: set MYSQL_DSN")
	}
	uc := &usecase.ExecuteUseCase{Log: a.log, Entries: a.cache, Now: a.now}
	return uc.Execute(ctx, source), nil
}

// SyncCache fetches entries in [from, to] and upserts them into the cache.
func (a *App) SyncCache(ctx context.Context, from, to domain.Date) error {
	if a.sync == nil {
		return fmt.Errorf("no report cache configured: set MYSQL_DSN")
	}
	return a.sync.Run(ctx, from, to)
}

// Today returns today's calendar date in the configured report timezone.
func (a *App) Today() domain.Date { return domain.Today(a.now()) }

// Close releases adapter resources.
func (a *App) Close() error {
	if a.cache != nil {
		return a.cache.Close()
	}
	return nil
}
