package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/devprompt/devprompt/internal/api"
	"github.com/devprompt/devprompt/internal/composer"
	"github.com/devprompt/devprompt/internal/config"
	"github.com/devprompt/devprompt/internal/storage"
	"github.com/devprompt/devprompt/internal/vendors"
)

// --- vendors ---

var vendorsCmd = &cobra.Command{
	Use:   "vendors",
	Short: "List supported coding-assistant vendors",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := vendors.NewRegistry()
		for _, name := range registry.List() {
			a, err := registry.Get(name)
			if err != nil {
				continue
			}
			fmt.Printf("  %-10s %-12s %s\n", colorize(colorBold, a.Name()), a.OutputFilename(), a.DisplayName())
		}
		return nil
	},
}

// --- catalog ---

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the question catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		cat, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		fmt.Println(colorize(colorBold, "Fields"))
		for _, f := range cat.Fields() {
			req := ""
			if f.Required {
				req = colorize(colorYellow, " (required)")
			}
			fmt.Printf("  %-22s %s%s\n", f.Name, f.Shape, req)
		}

		fmt.Println()
		fmt.Println(colorize(colorBold, "Questions"))
		for _, q := range cat.Questions() {
			fmt.Printf("  %-22s priority %3d  fills %s\n", q.ID, q.Priority, strings.Join(q.Fields, ", "))
			if len(q.Requires) > 0 {
				fmt.Printf("  %-22s requires %s\n", "", strings.Join(q.Requires, ", "))
			}
		}
		return nil
	},
}

// --- history ---

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived interview sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		sessions, err := store.ListSessions(limit)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions recorded yet.")
			return nil
		}

		for _, s := range sessions {
			vendor := s.Vendor
			if vendor == "" {
				vendor = "-"
			}
			fmt.Printf("%s  %s  %-8s  %2d questions  %s\n",
				colorize(colorCyan, s.ID[:8]),
				s.StartedAt.Format(time.RFC3339),
				s.State,
				s.QuestionCount,
				vendor,
			)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one session with its answers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		sess, err := findSession(store, args[0])
		if err != nil {
			return err
		}

		printStatus("Session", "%s", sess.ID)
		printStatus("Started", "%s", sess.StartedAt.Format(time.RFC3339))
		printStatus("State", "%s", sess.State)
		printStatus("Questions", "%d", sess.QuestionCount)
		if sess.Vendor != "" {
			printStatus("Vendor", "%s", sess.Vendor)
			printStatus("Output", "%s", sess.OutputPath)
		}
		if len(sess.Answers) > 0 {
			fmt.Fprintln(os.Stderr)
			for _, a := range sess.Answers {
				printStatus(a.Field, "%s", a.Value)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of sessions to list")
	historyCmd.AddCommand(historyShowCmd)
}

func openHistory() (*storage.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return storage.Open(cfg.Storage.DataDir)
}

// findSession resolves a full or prefix session id.
func findSession(store *storage.Store, id string) (storage.Session, error) {
	sess, err := store.GetSession(id)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return storage.Session{}, err
	}

	sessions, err := store.ListSessions(100)
	if err != nil {
		return storage.Session{}, err
	}
	for _, s := range sessions {
		if strings.HasPrefix(s.ID, id) {
			return store.GetSession(s.ID)
		}
	}
	return storage.Session{}, fmt.Errorf("session %q: %w", id, storage.ErrNotFound)
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Revert a configuration value to its default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.UnsetKey(args[0]); err != nil {
			return err
		}

		printSuccess("Unset %s", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
}

// --- mcp ---

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the catalog and renderer over MCP (stdio transport)",
	Long: `Serve devprompt as an MCP server on stdio, exposing the question
catalog as a resource and rules rendering as tools. Intended to be launched
by an MCP-capable editor or agent, not interactively.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		offline, _ := cmd.Flags().GetBool("offline")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		setupLogging(cfg.Log.Level)

		cat, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		eng := buildEngine(ctx, cfg, offline)

		var store *storage.Store
		if cfg.Storage.HistoryEnabled {
			if store, err = storage.Open(cfg.Storage.DataDir); err != nil {
				return fmt.Errorf("opening storage: %w", err)
			}
			defer store.Close()
		}

		mcpSrv := api.NewMCPServer(api.MCPDeps{
			Catalog:  cat,
			Renderer: composer.NewRenderer(eng, cfg.Engine.ResolvedModel(), cat),
			Registry: vendors.NewRegistry(),
			Store:    store,
		})

		stdioSrv := server.NewStdioServer(mcpSrv)
		if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	},
}

func init() {
	mcpCmd.Flags().Bool("offline", false, "render deterministically without calling the LLM")
}

// --- version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the devprompt version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("devprompt version %s\n", version)
	},
}
