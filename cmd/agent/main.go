// The agent is the field-capture companion to the mango-lens server.
// Scans taken without connectivity queue in a local SQLite file and are
// pushed to the API when the user runs flush.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/almonsour13/mango-lens/internal/config"
	"github.com/almonsour13/mango-lens/internal/localstore"
	"github.com/almonsour13/mango-lens/internal/model"
	"github.com/almonsour13/mango-lens/internal/queue"
	"github.com/almonsour13/mango-lens/internal/syncclient"
)

var rootCmd = &cobra.Command{
	Use:   "mango-lens-agent",
	Short: "Field capture agent for mango-lens",
	Long: `Capture mango leaf scans in the field, queue them locally while
offline, and push them to the mango-lens server on demand.

The queue only moves when you run "flush"; nothing uploads in the
background.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// agentEnv bundles everything a command needs: the local store, the
// queue and an API client primed with the cached token.
type agentEnv struct {
	cfg     *config.AgentConfig
	store   *localstore.Store
	pending *queue.Manager
	creds   *localstore.CredentialsRepository
	client  *syncclient.Client
}

func openEnv(ctx context.Context) (*agentEnv, error) {
	cfg, err := config.LoadAgent()
	if err != nil {
		return nil, err
	}

	store, err := localstore.Open(ctx, cfg.LocalDBPath)
	if err != nil {
		return nil, err
	}

	client := syncclient.New(cfg.ServerBaseURL, cfg.RequestTimeout)
	creds := localstore.NewCredentialsRepository(store)

	if cached, err := creds.Get(ctx); err == nil {
		client.SetToken(cached.Token)
	} else if !errors.Is(err, localstore.ErrNotFound) {
		store.Close()
		return nil, err
	}

	return &agentEnv{
		cfg:     cfg,
		store:   store,
		pending: queue.NewManager(localstore.NewPendingRepository(store), client),
		creds:   creds,
		client:  client,
	}, nil
}

func (e *agentEnv) Close() {
	_ = e.store.Close()
}

// currentUser returns the cached account or an error telling the user
// to log in first.
func (e *agentEnv) currentUser(ctx context.Context) (model.UserCredentials, error) {
	creds, err := e.creds.Get(ctx)
	if errors.Is(err, localstore.ErrNotFound) {
		return model.UserCredentials{}, errors.New("not logged in, run \"mango-lens-agent login\" first")
	}
	return creds, err
}

func main() {
	rootCmd.AddCommand(loginCmd, logoutCmd, enqueueCmd, listCmd, flushCmd, discardCmd, trashCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
