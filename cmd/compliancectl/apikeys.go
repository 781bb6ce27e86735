package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/audit"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/config"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/db"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/logger"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/providers"
	gormstore "github.com/doodlesbykumbi/aiact-compliance/pkg/server/store/gorm"
)

var apiKeysCmd = &cobra.Command{
	Use:   "apikeys",
	Short: "Manage AI provider API keys",
	Run:   requireSubcommand,
}

var apiKeysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored provider keys",
	Run: func(cmd *cobra.Command, args []string) {
		database, err := openDB(true)
		exitOnError("Listing keys failed", err)
		defer closeDB(database)

		keys, err := gormstore.NewAPIKeysStore(database).ListKeys(cmd.Context())
		exitOnError("Listing keys failed", err)

		rows := make([][]interface{}, 0, len(keys))
		for _, k := range keys {
			rows = append(rows, []interface{}{k.ID, k.Provider, k.Label, model.MaskKey(k.Key), k.IsActive, k.FailureCount, k.LastError})
		}
		renderTable([]string{"ID", "Provider", "Label", "Key", "Active", "Failures", "Last error"}, rows)
	},
}

var apiKeysAddCmd = &cobra.Command{
	Use:   "add <provider> <key>",
	Short: "Store a provider key, sealed with AIACT_DATA_KEY",
	Long: `Store a provider key, sealed with AIACT_DATA_KEY.

Providers: deepseek, openai, gemini, google_search.

Example:
  compliancectl apikeys add gemini "$KEY" --label backup`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		label, _ := cmd.Flags().GetString("label")

		provider, err := model.ParseProvider(args[0])
		exitOnError("Adding key failed", err)

		database, err := openDB(true)
		exitOnError("Adding key failed", err)
		defer closeDB(database)

		key := &model.APIKey{Provider: provider, Label: label, Key: args[1]}
		err = gormstore.NewAPIKeysStore(database).AddKey(cmd.Context(), key)
		audit.Log(audit.APIKeyEvent{
			Provider:     string(provider),
			Fingerprint:  model.Fingerprint(args[1]),
			Label:        label,
			Operation:    "added",
			Actor:        "compliancectl",
			Success:      err == nil,
			ErrorMessage: errString(err),
		})
		exitOnError("Adding key failed", err)

		fmt.Printf("Stored %s key %s (id %d)\n", provider, model.MaskKey(key.Key), key.ID)
	},
}

var apiKeysCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check provider keys against the provider APIs",
	Long: `Check environment and stored provider keys against the provider APIs.

Keys rejected by the provider are deactivated. The command exits with
status 1 when a provider of the fallback chain has no healthy key.

Example:
  compliancectl apikeys check
  compliancectl apikeys check --provider gemini`,
	Run: func(cmd *cobra.Command, args []string) {
		only, _ := cmd.Flags().GetString("provider")

		ok, err := runKeyCheck(cmd.Context(), only)
		exitOnError("Key check failed", err)
		if !ok {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(apiKeysCmd)
	apiKeysCmd.AddCommand(apiKeysListCmd)
	apiKeysCmd.AddCommand(apiKeysAddCmd)
	apiKeysCmd.AddCommand(apiKeysCheckCmd)

	apiKeysAddCmd.Flags().StringP("label", "l", "", "label shown in listings")
	apiKeysCheckCmd.Flags().String("provider", "", "only check this provider")
}

// runKeyCheck reports whether every checked chain provider has a healthy key.
func runKeyCheck(ctx context.Context, only string) (bool, error) {
	lggr, err := logger.New()
	if err != nil {
		return false, err
	}
	defer func() { _ = lggr.Sync() }()

	var filter []model.Provider
	if only != "" {
		p, err := model.ParseProvider(only)
		if err != nil {
			return false, err
		}
		filter = append(filter, p)
	}

	manager := providers.NewKeyManager(lggr)

	// stored keys need the database and the data key
	if db.URL() != "" {
		database, err := openDB(true)
		if err != nil {
			return false, err
		}
		defer closeDB(database)

		keyStore := gormstore.NewAPIKeysStore(database)
		keys, err := keyStore.ListKeys(ctx)
		if err != nil {
			return false, err
		}
		manager = providers.NewKeyManager(lggr, providers.WithStateStore(keyStore))
		manager.SetStored(keys)
	}

	return reportKeyCheck(ctx, manager, config.Get(), filter)
}

func reportKeyCheck(ctx context.Context, manager *providers.KeyManager, cfg *config.Config, filter []model.Provider) (bool, error) {
	manager.LoadFromEnv()
	clients := providers.DefaultClients(&http.Client{Timeout: cfg.ProviderTimeout()}, os.Getenv("GOOGLE_SEARCH_ENGINE_ID"))

	results := manager.HealthCheck(ctx, clients, filter...)
	rows := make([][]interface{}, 0, len(results))
	for _, h := range results {
		source := "env"
		if h.Stored {
			source = "db"
		}
		rows = append(rows, []interface{}{h.Provider, h.Label, source, h.Fingerprint, h.Status, h.Error})
	}
	renderTable([]string{"Provider", "Label", "Source", "Fingerprint", "Status", "Error"}, rows)

	healthy := providers.HealthyProviders(results)
	checked := map[model.Provider]bool{}
	for _, p := range filter {
		checked[p] = true
	}

	ok := true
	for _, p := range cfg.FallbackChain() {
		if len(filter) > 0 && !checked[p] {
			continue
		}
		if !healthy[p] {
			fmt.Fprintf(os.Stderr, "No healthy key for %s\n", p)
			ok = false
		}
	}
	return ok, nil
}
