// cmd/sessionctl/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"trainhub-session/internal/api"
	"trainhub-session/internal/audit"
	"trainhub-session/internal/common/config"
	"trainhub-session/internal/common/logger"
	"trainhub-session/internal/common/observability"
	"trainhub-session/internal/session"
	"trainhub-session/internal/store"
)

// printNavigator prints the post-login destination, standing in for the
// web shell's router.
type printNavigator struct{}

func (printNavigator) Navigate(route string) {
	fmt.Printf("-> %s\n", route)
}

func main() {
	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	logoutCmd := flag.NewFlagSet("logout", flag.ExitOnError)
	whoamiCmd := flag.NewFlagSet("whoami", flag.ExitOnError)
	statusCmd := flag.NewFlagSet("status", flag.ExitOnError)

	email := loginCmd.String("email", "", "Account email")
	password := loginCmd.String("password", "", "Account password")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	tokenStore, err := buildStore(cfg)
	if err != nil {
		zapLog.Fatal("token store init failed", zap.Error(err))
	}
	defer tokenStore.Close()

	trail, err := audit.NewTrail(cfg.Audit, log)
	if err != nil {
		zapLog.Fatal("audit trail init failed", zap.Error(err))
	}

	tracing := observability.NewTracing(cfg.App.Name, tracingEndpoint(cfg))
	defer tracing.Shutdown()

	var obs *observability.Observability
	if cfg.Observability.MetricsEnabled {
		obs = observability.New(cfg.App.Name)
		defer obs.Shutdown()
	}

	mgr := session.NewManager(session.Dependencies{
		API:       api.NewClient(cfg.API.BaseURL, time.Duration(cfg.API.Timeout)*time.Millisecond, log),
		Store:     tokenStore,
		Navigator: printNavigator{},
		Logger:    log,
		Audit:     trail,
		Obs:       obs,
		Tracing:   tracing,
	})

	ctx := context.Background()

	switch os.Args[1] {
	case "login":
		loginCmd.Parse(os.Args[2:])
		if *email == "" || *password == "" {
			fmt.Println("Error: email and password are required for login.")
			loginCmd.Usage()
			os.Exit(1)
		}
		if !mgr.Login(ctx, *email, *password) {
			fmt.Printf("Login failed: %s\n", mgr.LastError())
			os.Exit(1)
		}
		user := mgr.CurrentUser()
		fmt.Printf("Logged in as %s (%s)\n", user.FullName(), user.Role)

	case "logout":
		logoutCmd.Parse(os.Args[2:])
		if err := mgr.Initialize(ctx); err != nil {
			zapLog.Warn("session restore failed", zap.Error(err))
		}
		mgr.Logout(ctx)
		fmt.Println("Logged out.")

	case "whoami":
		whoamiCmd.Parse(os.Args[2:])
		if err := mgr.Initialize(ctx); err != nil {
			zapLog.Fatal("session restore failed", zap.Error(err))
		}
		if !mgr.IsAuthenticated() {
			fmt.Println("Not logged in.")
			if msg := mgr.LastError(); msg != "" {
				fmt.Printf("Last error: %s\n", msg)
			}
			os.Exit(1)
		}
		user := mgr.CurrentUser()
		fmt.Printf("%s <%s>\n", user.FullName(), user.Email)
		fmt.Printf("Role:      %s\n", user.Role)
		fmt.Printf("Dashboard: %s\n", session.RouteForRole(user.Role))

	case "status":
		statusCmd.Parse(os.Args[2:])
		if err := mgr.Initialize(ctx); err != nil {
			zapLog.Warn("session restore failed", zap.Error(err))
		}
		fmt.Printf("Backend:       %s\n", cfg.API.BaseURL)
		fmt.Printf("Storage:       %s\n", cfg.Storage.Backend)
		fmt.Printf("Authenticated: %v\n", mgr.IsAuthenticated())
		if msg := mgr.LastError(); msg != "" {
			fmt.Printf("Last error:    %s\n", msg)
		}

	default:
		help()
		os.Exit(1)
	}
}

func buildStore(cfg *config.Config) (store.TokenStore, error) {
	switch cfg.Storage.Backend {
	case "redis":
		s := NewRedisStoreChecked(cfg)
		return s, nil
	case "postgres":
		s, err := store.NewPostgresStore(cfg.Storage.Postgres)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.EnsureSchema(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	default:
		return store.NewFileStore(cfg.Storage.File.Path), nil
	}
}

// NewRedisStoreChecked builds the Redis store and verifies connectivity
// before first use.
func NewRedisStoreChecked(cfg *config.Config) store.TokenStore {
	s := store.NewRedisStore(cfg.Storage.Redis)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Ping(ctx); err != nil {
		fmt.Printf("Warning: redis unreachable: %v\n", err)
	}
	return s
}

func tracingEndpoint(cfg *config.Config) string {
	if !cfg.Observability.TracingEnabled {
		return ""
	}
	return cfg.Observability.JaegerEndpoint
}

func help() {
	fmt.Println("Usage: sessionctl <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  login    -email <email> -password <password>   Authenticate against the backend")
	fmt.Println("  logout                                         End the current session")
	fmt.Println("  whoami                                         Show the authenticated user")
	fmt.Println("  status                                         Show session state")
}
