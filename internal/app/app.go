package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Owen-Pu/Networking-Agent/internal/config"
	"github.com/Owen-Pu/Networking-Agent/internal/infrastructure/extract"
	"github.com/Owen-Pu/Networking-Agent/internal/infrastructure/feed"
	"github.com/Owen-Pu/Networking-Agent/internal/infrastructure/fetch"
	"github.com/Owen-Pu/Networking-Agent/internal/infrastructure/llm"
	"github.com/Owen-Pu/Networking-Agent/internal/infrastructure/output"
	"github.com/Owen-Pu/Networking-Agent/internal/infrastructure/storage"
	"github.com/Owen-Pu/Networking-Agent/internal/logging"
	"github.com/Owen-Pu/Networking-Agent/internal/ports"
	"github.com/Owen-Pu/Networking-Agent/internal/scoring"
	"github.com/Owen-Pu/Networking-Agent/internal/usecase"
)

// Application wires configuration to adapters and the pipeline.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	return &Application{cfg: cfg, logger: baseLogger}
}

// Run opens the ledger, wires the pipeline, and executes one complete pass.
// The ledger is closed on every exit path so WAL checkpoints are flushed.
func (a *Application) Run(ctx context.Context) error {
	ledger, err := storage.Open(a.cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer ledger.Close()

	client, err := llm.NewClient(a.cfg.LLM)
	if err != nil {
		return fmt.Errorf("create llm client: %w", err)
	}
	extractor := llm.NewExtractor(client, a.cfg, a.logger.With("component", "extractor"))

	fetcher := fetch.NewClient(a.cfg.Fetch)
	articles := extract.NewArticleReader(fetcher, a.logger.With("component", "articles"))
	pages := extract.NewPageReader(fetcher, a.logger.With("component", "pages"))
	finder := extract.NewTeamFinder(fetcher, extractor, a.logger.With("component", "teamfinder"))

	resolver := usecase.NewResolver(usecase.ResolverDeps{
		Ledger:    ledger,
		Pages:     pages,
		Extractor: extractor,
		Finder:    finder,
		Logger:    a.logger,
	}, a.cfg.Limits.MaxPeoplePerCompany)

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Ledger:    ledger,
		Source:    feed.NewSource(a.logger.With("component", "feeds")),
		Articles:  articles,
		Extractor: extractor,
		Resolver:  resolver,
		Scorer:    scoring.NewScorer(a.cfg.Preferences, a.cfg.Weights),
		Sink:      a.buildSink(),
		Logger:    a.logger,
	}, a.cfg)

	report, err := pipeline.Run(ctx)
	if report != nil {
		a.logStats(ctx, ledger, report)
	}
	return err
}

func (a *Application) buildSink() ports.CandidateSink {
	sinks := []ports.CandidateSink{output.NewCSVSink(a.cfg.Output.CSVPath)}
	if s := a.cfg.Output.Sheets; s != nil && s.SheetID != "" {
		sheets := output.NewSheetsSink(s.SheetID, s.CredentialsPath)
		sinks = append(sinks, output.NewBestEffort(sheets, a.logger.With("component", "sheets")))
	}
	return output.NewFanout(sinks...)
}

func (a *Application) logStats(ctx context.Context, ledger ports.Ledger, report *usecase.RunReport) {
	counts, err := ledger.CountByType(ctx)
	if err != nil {
		a.logger.Warn("ledger stats unavailable", "error", err)
		return
	}
	args := []any{"run_id", report.RunID, "state", string(report.State)}
	for itemType, count := range counts {
		args = append(args, "seen_"+string(itemType), count)
	}
	a.logger.Info("ledger stats", args...)
}
