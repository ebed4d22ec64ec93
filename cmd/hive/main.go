// Command hive runs the agent coordination system: it wires the bus,
// storage, coordinator, and probe worker together and reads task
// descriptions interactively from stdin.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"agent-hive/internal/config"
	"agent-hive/internal/coordinator"
	"agent-hive/internal/eventbus"
	"agent-hive/internal/logging"
	"agent-hive/internal/probe"
	"agent-hive/internal/roster"
	"agent-hive/internal/runtime"
	"agent-hive/internal/storage"
)

const (
	coordinatorID = "coordinator"
	probeID       = "probe"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "hive",
		Short:        "Event-driven task coordination for cooperating agents",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
	return cmd
}

func run(ctx context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.New("hive", cfg.Log.Level)

	policy, err := eventbus.ParseDeliveryPolicy(cfg.Bus.DeliveryPolicy)
	if err != nil {
		return err
	}
	bus := eventbus.NewInMemoryBus(policy, logger)

	var store storage.Store
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		store = storage.NewRedisStore(&redis.Options{Addr: cfg.Storage.RedisAddr}, cfg.Storage.RedisPrefix, logger)
	default:
		store = storage.NewFSStore(cfg.Workspace.Root)
	}
	defer store.Close()

	var ledger *coordinator.Ledger
	if cfg.Workspace.Ledger {
		ledger = coordinator.NewLedger(store, coordinator.DefaultLedgerName)
	}

	provider := &roster.StorageProvider{Store: store, Name: cfg.Workspace.Roster}
	coord := coordinator.New(coordinatorID, bus, store, provider, ledger, logger)

	manager := runtime.NewManager(bus, coord, logger)
	manager.Register(probe.New(probeID, bus, store, coordinatorID, logger))

	if err := manager.Start(ctx); err != nil {
		return err
	}
	defer manager.Stop(context.Background())

	fmt.Println("hive started; enter a task description, or 'quit' to exit")
	return repl(ctx, manager)
}

func repl(ctx context.Context, manager *runtime.Manager) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		fmt.Print("task> ")
		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Println()
				return nil
			}
			input := strings.TrimSpace(line)
			switch strings.ToLower(input) {
			case "":
				continue
			case "quit", "exit", "q":
				return nil
			}

			taskID, err := manager.SubmitTask(ctx, input)
			if err != nil {
				fmt.Fprintf(os.Stderr, "submit failed: %v\n", err)
				continue
			}
			status := manager.Status()
			fmt.Printf("submitted %s (active tasks: %d)\n", taskID, status.ActiveTaskCount)
		}
	}
}
