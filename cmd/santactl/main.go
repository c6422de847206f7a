// Command santactl is a terminal client for the Secret Santa event
// service: registration and login, event and participant management, rule
// configuration, and assignment viewing. All state-changing work happens
// in the remote backend; santactl handles presentation, the local
// session, and client-side caching.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"santactl/internal/api"
	"santactl/internal/config"
	"santactl/internal/logging"
	"santactl/internal/session"
	"santactl/internal/store"
	"santactl/internal/transport"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "santactl: %v\n", err)
		os.Exit(1)
	}
}

// app wires the client components for the command handlers.
type app struct {
	auth   *store.Auth
	events *store.Events
	admin  *store.Admin
	health api.HealthService
}

func run(args []string) error {
	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	stateStore, err := session.OpenStore(cfg.StatePath)
	if err != nil {
		return err
	}
	defer stateStore.Close()

	ctx := context.Background()
	sessions := session.NewManager(stateStore, logger)

	client := transport.New(transport.Config{
		BaseURL:        cfg.APIBaseURL,
		HTTPClient:     &http.Client{Timeout: cfg.RequestTimeout},
		MaxRetries:     cfg.MaxRetries,
		RetryBaseDelay: cfg.RetryBaseDelay,
		Tokens:         sessions,
		Logger:         logger,
		// The transport reports 401s; deciding what to do about them is
		// ours. Invalidate yields true only for the first observer, so
		// the notice prints once even when several calls fail together.
		OnUnauthorized: func() {
			if sessions.Invalidate(ctx) {
				fmt.Fprintln(os.Stderr, "session expired; run `santactl login` to sign in again")
			}
		},
	})

	authFacade := api.NewAuthService(client)
	eventFacade := api.NewEventService(client)
	participantFacade := api.NewParticipantService(client)
	assignmentFacade := api.NewAssignmentService(client)

	authStore := store.NewAuth(authFacade, sessions, logger)
	eventStore := store.NewEvents(eventFacade, participantFacade, assignmentFacade, authStore, logger)
	adminStore := store.NewAdmin(api.NewAdminService(client))

	a := &app{
		auth:   authStore,
		events: eventStore,
		admin:  adminStore,
		health: api.NewHealthService(client),
	}

	// Restore any persisted session before dispatching.
	if err := a.auth.Initialize(ctx); err != nil {
		logger.Warn("restore session", zap.Error(err))
	}

	if len(args) == 0 {
		usage()
		return fmt.Errorf("no command given")
	}
	return a.dispatch(ctx, args[0], args[1:])
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: santactl <command> [flags]

Account:
  register       create an account (then verify-otp)
  verify-otp     confirm registration with the emailed code
  login          sign in with email and password
  verify         complete an invitation signup
  invite         invite a participant to an event
  logout         discard the local session
  whoami         show the signed-in user and permissions

Events:
  events         list | create | show | rename | delete
  participants   add | update | remove
  rules          show | set
  assign         generate assignments for an event
  my-assignment  show who you are giving to
  my-info        show your standing within an event

System:
  admin          dashboard | events | users
  health         check backend liveness and readiness
`)
}
