// Package app initializes and wires the gateway: Genkit and the model
// provider, the VFS stores (Postgres or in-memory), the external music
// and applet-catalog clients, the tool catalog, and the chat agent.
package app

import (
	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/syamace/syaos/internal/chat"
	"github.com/syamace/syaos/internal/config"
	"github.com/syamace/syaos/internal/debounce"
	"github.com/syamace/syaos/internal/log"
	"github.com/syamace/syaos/internal/vfs"
)

// App is the application container. Setup builds it; Close releases it.
type App struct {
	Config *config.Config
	Logger log.Logger

	Genkit *genkit.Genkit
	DBPool *pgxpool.Pool // nil when running on in-memory stores

	Router *vfs.Router
	Tools  []ai.Tool
	Agent  *chat.Agent
	Flow   *chat.Flow

	saves *debounce.Scheduler
}

// Close shuts everything down: pending debounced notifications are
// flushed, then the pool is released.
func (a *App) Close() error {
	a.Logger.Info("shutting down")

	if a.saves != nil {
		a.saves.FlushAll()
		a.saves.Stop()
	}
	if a.DBPool != nil {
		a.DBPool.Close()
		a.Logger.Info("database pool closed")
	}
	return nil
}
