package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/brackenfield/matchstate/external/llm"
	"github.com/brackenfield/matchstate/internal/config"
	"github.com/brackenfield/matchstate/internal/domain/eventlog"
	"github.com/brackenfield/matchstate/internal/domain/world"
	memoryrepo "github.com/brackenfield/matchstate/internal/infrastructure/repository/memory"
	postgresrepo "github.com/brackenfield/matchstate/internal/infrastructure/repository/postgres"
	"github.com/brackenfield/matchstate/internal/interfaces/httpapi"
	"github.com/brackenfield/matchstate/internal/interfaces/streamapi"
	"github.com/brackenfield/matchstate/internal/platform/logging"
	"github.com/brackenfield/matchstate/internal/platform/resilience"
	"github.com/brackenfield/matchstate/internal/usecase"
)

// Core is the service graph shared by every CLI mode: the event log, the
// matchday orchestrator, and the C8 query services. serve wraps it with an
// HTTP router; simulate and test drive it directly.
type Core struct {
	Events       eventlog.Repository
	Snapshots    eventlog.SnapshotRepository
	World        *world.World
	Orchestrator *usecase.OrchestratorService
	Table        *usecase.TableService
	TopScorers   *usecase.TopScorersService
	HeadToHead   *usecase.HeadToHeadService
	PlayerStats  *usecase.PlayerStatsService
	Close        func() error
}

// BuildCore wires the full service graph. backend selects the event log
// implementation: "postgres" for serve, "memory" for simulate/test.
func BuildCore(ctx context.Context, cfg config.Config, logger *logging.Logger, backend string) (*Core, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var events eventlog.Repository
	var snapshots eventlog.SnapshotRepository
	closeFn := func() error { return nil }

	switch backend {
	case "postgres":
		dbURL := normalizeDBURL(cfg.DBURL, false)
		db, err := otelsqlx.Open("postgres", dbURL,
			otelsql.WithDBSystem("postgresql"),
			otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
			otelsql.WithQueryFormatter(formatDBQueryForTrace),
		)
		if err != nil {
			return nil, fmt.Errorf("open postgres connection: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		events = postgresrepo.NewEventRepository(db)
		snapshots = postgresrepo.NewSnapshotRepository(db)
		closeFn = db.Close
	case "memory":
		events = memoryrepo.NewEventRepository()
		snapshots = memoryrepo.NewSnapshotRepository()
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}

	if cfg.ResetDB {
		if err := events.Reset(ctx); err != nil {
			return nil, fmt.Errorf("reset event log: %w", err)
		}
	}

	genesisSvc := usecase.NewGenesisService()
	w, err := genesisSvc.Build(usecase.GenesisConfig{Seed: cfg.WorldSeed})
	if err != nil {
		_ = closeFn()
		return nil, fmt.Errorf("build genesis world: %w", err)
	}

	history, err := events.ReadFrom(ctx, 0)
	if err != nil {
		_ = closeFn()
		return nil, fmt.Errorf("read event log: %w", err)
	}
	for _, evt := range history {
		if err := w.Apply(evt); err != nil {
			_ = closeFn()
			return nil, fmt.Errorf("replay event sequence %d: %w", evt.Sequence, err)
		}
	}

	collaborator := buildCollaborator(cfg, logger)
	softState := usecase.NewSoftStateService(logger)
	orchestrator := usecase.NewOrchestratorService(events, softState, collaborator, logger, usecase.OrchestratorConfig{
		WorkerCount: cfg.OrchestratorWorkers,
	})

	return &Core{
		Events:       events,
		Snapshots:    snapshots,
		World:        w,
		Orchestrator: orchestrator,
		Table:        usecase.NewTableService(),
		TopScorers:   usecase.NewTopScorersService(),
		HeadToHead:   usecase.NewHeadToHeadService(),
		PlayerStats:  usecase.NewPlayerStatsService(),
		Close:        closeFn,
	}, nil
}

func buildCollaborator(cfg config.Config, logger *logging.Logger) llm.Client {
	if cfg.LLMProvider != "http" {
		return llm.OfflineClient{Seed: cfg.WorldSeed}
	}
	return llm.NewHTTPClient(llm.ClientConfig{
		HTTPClient:  &http.Client{Timeout: cfg.LLMTimeout},
		BaseURL:     cfg.LLMBaseURL,
		APIKey:      cfg.LLMAPIKey,
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
		MaxTokens:   cfg.LLMMaxTokens,
		Timeout:     cfg.LLMTimeout,
		Logger:      logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.LLMCircuitEnabled,
			FailureThreshold: cfg.LLMCircuitFailureCount,
			OpenTimeout:      cfg.LLMCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.LLMCircuitHalfOpenMaxReq,
		},
	})
}

// NewHTTPHandler builds the serve-mode HTTP router against a postgres-backed
// Core. The returned close func must run on shutdown.
func NewHTTPHandler(ctx context.Context, cfg config.Config, logger *logging.Logger) (http.Handler, func() error, error) {
	core, err := BuildCore(ctx, cfg, logger, "postgres")
	if err != nil {
		return nil, nil, err
	}

	handler := httpapi.NewHandler(
		core.Events,
		httpapi.NewWorldStore(core.World),
		core.Table,
		core.TopScorers,
		core.HeadToHead,
		core.PlayerStats,
		core.Orchestrator,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, []string{"*"})
	return router, core.Close, nil
}

// NewStreamServer builds the fasthttp SSE listener against its own
// postgres-backed event log connection — a separate connection pool and
// timeout budget from the JSON API's Core, since a live stream's lifetime
// isn't bounded by ReadTimeout/WriteTimeout the way a request/response
// handler's is.
func NewStreamServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*streamapi.Server, func() error, error) {
	core, err := BuildCore(ctx, cfg, logger, "postgres")
	if err != nil {
		return nil, nil, err
	}
	return streamapi.NewServer(core.Events, logger), core.Close, nil
}
