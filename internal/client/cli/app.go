package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/client/client"
	"github.com/dmitrijs2005/todokeeper/internal/client/config"
	"github.com/dmitrijs2005/todokeeper/internal/client/services"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	todoService services.TodoService
	reader      *bufio.Reader

	mu   sync.RWMutex
	Mode Mode
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewHTTPClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	as := services.NewAuthService(apiClient)
	ts := services.NewTodoService(apiClient, as)

	return &App{
		config:      c,
		authService: as,
		todoService: ts,
		Mode:        ModeOffline,
		reader:      bufio.NewReader(os.Stdin),
	}, nil
}

func (app *App) setMode(mode Mode) {
	app.mu.Lock()
	defer app.mu.Unlock()
	if app.Mode != mode {
		app.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (app *App) mode() Mode {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.Mode
}

// Run probes the server once, starts the connectivity watcher and blocks in
// the REPL until the user exits or ctx is cancelled.
func (app *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.checkOnline()
	go app.StartOnlineStatusWatcher(ctx, app.config.OnlineCheckInterval)

	printlnFn("TodoKeeper client, server", app.config.ServerEndpointAddr)
	printlnFn("Type 'help' for available commands")
	runREPL(ctx, app, app.status, app.reader)
}

func (app *App) isLoggedIn() bool {
	return app.authService.CurrentUser() != nil
}

func (app *App) status() string {
	if u := app.authService.CurrentUser(); u != nil {
		return fmt.Sprintf("%s %s", app.mode(), u.UserName)
	}
	return string(app.mode())
}

func (app *App) checkOnline() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := app.authService.Ping(ctx); err != nil {
		app.setMode(ModeOffline)
		return
	}
	app.setMode(ModeOnline)
}

func (app *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			app.checkOnline()
		case <-ctx.Done():
			return
		}
	}
}
