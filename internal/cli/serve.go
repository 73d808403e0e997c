package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tejashree-V/IBM-PROJECT/internal/config"
	"github.com/Tejashree-V/IBM-PROJECT/internal/identity"
	"github.com/Tejashree-V/IBM-PROJECT/internal/server"
	"github.com/Tejashree-V/IBM-PROJECT/internal/store"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the task service",
	Long:  "Starts the HTTP task service backed by the configured database.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	s, err := store.New(cfg.Server.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	var verifier server.TokenVerifier
	if cfg.Identity.Enabled() {
		verifier = identity.NewVerifier(cfg.Identity.URL, cfg.Identity.EffectiveAnonKey())
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	fmt.Printf("Task service listening on %s (db: %s)\n", addr, cfg.Server.DBPath)
	return server.New(s, verifier).Run(addr)
}
