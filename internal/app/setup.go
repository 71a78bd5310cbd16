package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/compat_oai/openai"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/time/rate"

	"github.com/syamace/syaos/db"
	"github.com/syamace/syaos/internal/applets"
	"github.com/syamace/syaos/internal/chat"
	"github.com/syamace/syaos/internal/config"
	"github.com/syamace/syaos/internal/debounce"
	"github.com/syamace/syaos/internal/log"
	"github.com/syamace/syaos/internal/music"
	"github.com/syamace/syaos/internal/prompt"
	"github.com/syamace/syaos/internal/tools"
	"github.com/syamace/syaos/internal/vfs"
)

// editorRefreshDelay coalesces rapid successive writes to one document
// into a single editor-refresh notification.
const editorRefreshDelay = 300 * time.Millisecond

// Setup builds the application. On failure everything already
// initialized is torn down before returning.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (_ *App, retErr error) {
	if cfg == nil {
		return nil, config.ErrConfigNil
	}
	a := &App{Config: cfg, Logger: logger}

	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	g, err := provideGenkit(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	meta, content, pool, err := provideStores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.DBPool = pool

	httpClient := &http.Client{Timeout: cfg.ServiceTimeout}
	library := music.NewClient(cfg.MusicBaseURL, httpClient, logger)
	catalog := applets.NewClient(cfg.CatalogBaseURL, httpClient, logger)

	a.saves = debounce.New(editorRefreshDelay)
	a.Router = vfs.NewRouter(meta, content, library, catalog, logger).
		WithChangeNotifier(func(path, content string) {
			// Clients get the updated content in the tool result itself;
			// there is no server push channel. The notifier's server-side
			// terminal is this coalesced per-document audit entry.
			a.saves.Schedule(path, func() {
				logger.Debug("document changed", "path", path, "bytes", len(content))
			})
		})

	kit, err := tools.NewKit(a.Router, library, tools.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("creating tool kit: %w", err)
	}
	defined, err := kit.Register(g)
	if err != nil {
		return nil, fmt.Errorf("registering tools: %w", err)
	}
	a.Tools = defined

	agent, err := provideAgent(cfg, g, defined, logger)
	if err != nil {
		return nil, err
	}
	a.Agent = agent
	a.Flow = chat.NewFlow(g, agent)

	return a, nil
}

// provideGenkit initializes Genkit with the configured model provider.
func provideGenkit(ctx context.Context, cfg *config.Config) (*genkit.Genkit, error) {
	var g *genkit.Genkit
	switch cfg.Provider {
	case config.ProviderOpenAI:
		g = genkit.Init(ctx, genkit.WithPlugins(&openai.OpenAI{}))
	default: // gemini
		g = genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	}
	if g == nil {
		return nil, fmt.Errorf("initializing genkit with provider %q", cfg.Provider)
	}
	return g, nil
}

// provideStores selects the VFS backing stores. An empty DSN runs the
// gateway on in-memory stores, which suits development and tests; a
// configured DSN migrates the schema and uses Postgres.
func provideStores(ctx context.Context, cfg *config.Config, logger log.Logger) (vfs.MetadataStore, vfs.ContentStore, *pgxpool.Pool, error) {
	if cfg.PostgresURL == "" {
		logger.Info("no database configured, using in-memory VFS stores")
		return vfs.NewMemoryMetadataStore(), vfs.NewMemoryContentStore(), nil, nil
	}

	if err := db.Migrate(cfg.PostgresURL, logger); err != nil {
		return nil, nil, nil, fmt.Errorf("migrating database: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("pinging database: %w", err)
	}

	logger.Info("connected to postgres VFS stores")
	return vfs.NewPostgresMetadataStore(pool), vfs.NewPostgresContentStore(pool), pool, nil
}

// provideAgent builds the chat agent over the registered tool catalog.
func provideAgent(cfg *config.Config, g *genkit.Genkit, defined []ai.Tool, logger log.Logger) (*chat.Agent, error) {
	refs := make([]ai.ToolRef, len(defined))
	for i, t := range defined {
		refs[i] = t
	}

	modelName := cfg.ModelName
	switch cfg.Provider {
	case config.ProviderOpenAI:
		modelName = "openai/" + modelName
	default:
		modelName = "googleai/" + modelName
	}

	agent, err := chat.New(chat.Config{
		Genkit:      g,
		Assembler:   prompt.NewAssembler(logger),
		Logger:      logger,
		Tools:       refs,
		ModelName:   modelName,
		MaxSteps:    cfg.MaxToolSteps,
		RateLimiter: rate.NewLimiter(10, 30),
	})
	if err != nil {
		return nil, fmt.Errorf("creating chat agent: %w", err)
	}
	return agent, nil
}
