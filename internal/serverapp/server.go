// Package serverapp assembles the HTTP handler: store selection, per-user
// repositories, per-user boards and the route table.
package serverapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/BastianThoma/join/internal/auth"
	"github.com/BastianThoma/join/internal/board"
	"github.com/BastianThoma/join/internal/config"
	"github.com/BastianThoma/join/internal/contact"
	"github.com/BastianThoma/join/internal/docstore"
	"github.com/BastianThoma/join/internal/httpmw"
	"github.com/BastianThoma/join/internal/metrics"
	"github.com/BastianThoma/join/internal/task"
	staticfiles "github.com/BastianThoma/join/static"
	"github.com/BastianThoma/join/ui/page"

	"github.com/a-h/templ"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	Config        *config.Config
	DataDir       string
	StaticDir     string
	UseDiskStatic bool
	Logger        *log.Logger

	// Store overrides the backend chosen by Config.Store.Driver. Tests
	// inject a memory store here.
	Store docstore.Store
}

// boardManager hands out one live board per user, built lazily on first
// touch.
type boardManager struct {
	mu     sync.Mutex
	boards map[string]*board.Board
	build  func(userID string) *board.Board
}

func (m *boardManager) forUser(userID string) *board.Board {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.boards[userID]; ok {
		return b
	}
	b := m.build(userID)
	m.boards[userID] = b
	return b
}

func openStore(cfg *config.Config) (docstore.Store, error) {
	switch cfg.Store.Driver {
	case "memory":
		return docstore.NewMemoryStore(), nil
	case "sqlite":
		return docstore.NewSQLiteStore(cfg.Store.SQLitePath)
	case "file", "":
		return docstore.NewFileStore(cfg.Store.DataDir)
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
}

func NewHandler(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if strings.TrimSpace(opts.DataDir) == "" {
		opts.DataDir = opts.Config.Store.DataDir
	}
	if strings.TrimSpace(opts.StaticDir) == "" {
		opts.StaticDir = "static"
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	store := opts.Store
	if store == nil {
		var err error
		store, err = openStore(opts.Config)
		if err != nil {
			return nil, err
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	rec := metrics.NewRecorder(registry)

	mux := http.NewServeMux()

	staticHandler := http.FileServer(http.FS(staticfiles.EmbeddedFS()))
	if opts.UseDiskStatic {
		staticHandler = http.FileServer(http.Dir(opts.StaticDir))
	}
	mux.Handle("/static/", http.StripPrefix("/static/", staticHandler))

	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "join",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	authRepo, err := auth.NewFileRepo(opts.DataDir)
	if err != nil {
		return nil, err
	}
	authService := auth.NewService(authRepo, opts.Logger)
	logSecurityHints(opts.Logger)
	authHandler := auth.NewHandler(authService)
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/session", authHandler.Session)
	mux.HandleFunc("/api/auth/logout", authHandler.Logout)

	taskRepo := task.NewStoreRepo(store)
	contactRepo := contact.NewStoreRepo(store, opts.Config.Contacts.Palette)

	taskRepoFor := func(r *http.Request) *task.StoreRepo {
		u, ok := auth.UserFromContext(r.Context())
		if !ok {
			return taskRepo
		}
		return taskRepo.ForUser(u.ID)
	}
	contactRepoFor := func(r *http.Request) *contact.StoreRepo {
		u, ok := auth.UserFromContext(r.Context())
		if !ok {
			return contactRepo
		}
		return contactRepo.ForUser(u.ID)
	}

	boards := &boardManager{
		boards: map[string]*board.Board{},
		build: func(userID string) *board.Board {
			tr := taskRepo
			cr := contactRepo
			if userID != "" {
				tr = taskRepo.ForUser(userID)
				cr = contactRepo.ForUser(userID)
			}
			b := board.New(tr, cr, opts.Config.WriteTimeout(), opts.Logger, rec)
			// Initial load; a failure lands in the board's load error and
			// surfaces in the state payload.
			_ = b.Refresh(context.Background())
			return b
		},
	}
	boardFor := func(r *http.Request) *board.Board {
		u, ok := auth.UserFromContext(r.Context())
		if !ok {
			return boards.forUser("")
		}
		return boards.forUser(u.ID)
	}

	taskHandler := task.NewHandler(taskRepo)
	taskHandler.SetRepoResolver(func(r *http.Request) task.Repo {
		return taskRepoFor(r)
	})
	taskHandler.SetContactResolver(func(r *http.Request) contact.Repo {
		return contactRepoFor(r)
	})
	taskHandler.SetBoardResolver(func(r *http.Request) task.BoardSync {
		return boardFor(r)
	})
	mux.Handle("/api/tasks", authService.RequireAPI(http.HandlerFunc(taskHandler.TasksRoot)))
	mux.Handle("/api/tasks/", authService.RequireAPI(http.HandlerFunc(taskHandler.TasksSub)))

	contactHandler := contact.NewHandler(contactRepo)
	contactHandler.SetRepoResolver(func(r *http.Request) contact.Repo {
		return contactRepoFor(r)
	})
	mux.Handle("/api/contacts", authService.RequireAPI(http.HandlerFunc(contactHandler.ContactsRoot)))
	mux.Handle("/api/contacts/grouped", authService.RequireAPI(http.HandlerFunc(contactHandler.ContactsGrouped)))
	mux.Handle("/api/contacts/", authService.RequireAPI(http.HandlerFunc(contactHandler.ContactsSub)))

	boardHandler := board.NewHandler(nil)
	boardHandler.SetBoardResolver(boardFor)
	mux.Handle("/api/board/state", authService.RequireAPI(http.HandlerFunc(boardHandler.GetState)))
	mux.Handle("/api/board/cmd", authService.RequireAPI(http.HandlerFunc(boardHandler.Command)))

	mux.Handle("/api/config", authService.RequireAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(opts.Config); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})))

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if _, err := taskRepo.List(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "task storage unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "join",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.Handle("/", templ.Handler(page.HomePage()))
	mux.Handle("/login", templ.Handler(page.LoginPage()))
	mux.Handle("/board", authService.RequirePage(templ.Handler(page.BoardPage())))
	mux.Handle("/contacts", authService.RequirePage(templ.Handler(page.ContactsPage())))

	return httpmw.Chain(
		mux,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithSlowRequestWarn(opts.Logger, 2*opts.Config.WriteTimeout()),
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
	), nil
}

func UseDiskStaticByEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("JOIN_DEV_STATIC"))) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func logSecurityHints(logger *log.Logger) {
	if logger == nil {
		return
	}
	env := strings.ToLower(strings.TrimSpace(os.Getenv("JOIN_ENV")))
	cookieSecure := strings.ToLower(strings.TrimSpace(os.Getenv("JOIN_COOKIE_SECURE")))

	if env == "production" || env == "prod" {
		if cookieSecure != "1" && cookieSecure != "true" && cookieSecure != "yes" {
			logger.Printf("[security] JOIN_ENV=%s but JOIN_COOKIE_SECURE is not explicitly true", env)
		}
	}
}
