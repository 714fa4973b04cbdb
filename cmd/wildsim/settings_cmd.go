package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/talgya/wildlife-control/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the wild animal limit stored in the world database.",
	Long: `Show or change the wild animal limit stored in the world database. ` +
		`A running simulation keeps its own copy; use the HTTP API to change it live.`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored limit.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSettings(cmd, func(st *settings.Settings) bool { return false })
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set N",
	Short: fmt.Sprintf("Set the limit (clamped to %d-%d).", settings.MinWildAnimals, settings.MaxWildAnimals),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("limit must be an integer: %w", err)
		}
		return withSettings(cmd, func(st *settings.Settings) bool {
			if applied := st.SetMaxWildAnimals(n); applied != n {
				fmt.Fprintf(cmd.OutOrStdout(), "%d is out of range, clamped to %d\n", n, applied)
			}
			return true
		})
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: fmt.Sprintf("Restore the default limit (%d).", settings.DefaultMaxWildAnimals),
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSettings(cmd, func(st *settings.Settings) bool {
			st.RestoreDefaults()
			return true
		})
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsResetCmd)
}

// withSettings loads the stored settings, applies fn and saves when fn
// reports a change.
func withSettings(cmd *cobra.Command, fn func(*settings.Settings) bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	st, err := loadSettings(db, cfg.MaxWildAnimals)
	if err != nil {
		return err
	}
	if fn(st) {
		if err := settings.Save(db, st); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", settings.Category, st.Label())
	return nil
}
