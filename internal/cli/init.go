package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Tejashree-V/IBM-PROJECT/internal/config"
	"github.com/Tejashree-V/IBM-PROJECT/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize taskman in the current directory",
	Long:  "Creates a .taskman/ directory with default config and database.",
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := ".taskman"

	// Check if already initialized.
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("taskman already initialized in this directory (.taskman/ exists)")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create .taskman: %w", err)
	}

	// Write default config.
	cfg := config.DefaultConfig()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	// Create the database by opening the store (migration runs
	// automatically).
	s, err := store.New(cfg.Server.DBPath)
	if err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	s.Close()

	fmt.Println("Initialized taskman in .taskman/")
	fmt.Println("")
	fmt.Println("Next steps:")
	fmt.Println("  1. Optionally set identity.url and identity.anon_key_env in .taskman/config.yaml")
	fmt.Println("  2. Run: taskman serve")
	fmt.Println("  3. Run: taskman ui")

	return nil
}
