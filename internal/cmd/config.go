package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/letsdev/lets/internal/config"
	"github.com/letsdev/lets/internal/launcher"
	"github.com/letsdev/lets/internal/prompt"
	"github.com/letsdev/lets/internal/style"
	"github.com/letsdev/lets/internal/ui"
	"github.com/letsdev/lets/internal/util"
)

var configCmd = &cobra.Command{
	Use:     "config",
	GroupID: GroupConfig,
	Short:   "Manage lets configuration",
	RunE:    requireSubcommand,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfig(cmd.OutOrStdout(), configPath())
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), configPath())
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the configuration file in $EDITOR",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return editConfig(cmd.OutOrStdout(), newRunner(), configPath(), os.Getenv("EDITOR"))
	},
}

var configSetLauncherCmd = &cobra.Command{
	Use:   "set-launcher <launcher>",
	Short: "Set the default launcher",
	Long: `Set the default launcher.

Valid launchers are multiplexer (alias tmux) and terminal-window (alias
terminal). A launcher that is not available on this system is refused.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setLauncher(cmd.OutOrStdout(), newRunner(), configPath(), args[0])
	},
}

var configLaunchersCmd = &cobra.Command{
	Use:   "launchers",
	Short: "List launchers and whether they are available",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listLaunchers(cmd.OutOrStdout(), newRunner(), configPath())
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset configuration to defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return resetConfig(cmd.OutOrStdout(), newPrompter(), configPath())
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configPathCmd, configEditCmd,
		configSetLauncherCmd, configLaunchersCmd, configResetCmd)
	rootCmd.AddCommand(configCmd)
}

func requireSubcommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
}

func showConfig(w io.Writer, path string) error {
	fmt.Fprintf(w, "Configuration file: %s\n\n", path)

	data, err := os.ReadFile(path) //nolint:gosec // G304: path is the settings location
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(w, "No configuration file found. Using defaults.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Default configuration:")
		defaults, err := config.Encode(config.Defaults())
		if err != nil {
			return err
		}
		_, err = w.Write(defaults)
		return err
	}
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	fmt.Fprintln(w, "Current configuration:")
	_, err = w.Write(data)
	return err
}

func editConfig(w io.Writer, r util.Runner, path, editor string) error {
	if !config.Exists(path) {
		if err := config.Save(path, config.Defaults()); err != nil {
			return err
		}
		fmt.Fprintf(w, "Created default configuration at: %s\n", path)
	}

	if editor == "" {
		editor = "vi"
	}
	if !util.Which(r, editor) {
		style.FprintError(w, "Editor not found: %s", editor)
		fmt.Fprintf(w, "You can manually edit: %s\n", path)
		return nil
	}
	if err := r.Interactive("", editor, path); err != nil {
		style.FprintError(w, "Failed to open editor: %s", editor)
		fmt.Fprintf(w, "You can manually edit: %s\n", path)
	}
	return nil
}

// loadedRegistry loads settings from path and builds the launcher registry.
func loadedRegistry(r util.Runner, path string) (config.Settings, *launcher.Registry, error) {
	s, err := config.Load(path)
	if err != nil {
		return s, nil, err
	}
	reg := launcher.NewRegistry(s, launcher.Env{Runner: r, Prompter: prompt.NewTerminal()})
	return s, reg, nil
}

func setLauncher(w io.Writer, r util.Runner, path, name string) error {
	_, reg, err := loadedRegistry(r, path)
	if err != nil {
		return err
	}
	id, err := reg.Resolve(name)
	if err != nil {
		return err
	}
	if !reg.IsAvailable(id) {
		style.FprintError(w, "Launcher '%s' is not available on this system", id)
		style.FprintInfo(w, "Available launchers: %s", joinIDs(reg.Available()))
		return NewSilentExit(1)
	}

	// Save the file's own values, not the LETS_* overrides.
	file, err := config.LoadFile(path)
	if err != nil && !errors.Is(err, config.ErrNotFound) {
		return err
	}
	file.Launcher = string(id)
	if err := config.Save(path, file); err != nil {
		return err
	}
	style.FprintSuccess(w, "Default launcher set to: %s", id)
	return nil
}

func listLaunchers(w io.Writer, r util.Runner, path string) error {
	s, reg, err := loadedRegistry(r, path)
	if err != nil {
		return err
	}
	current, _ := launcher.Normalize(s.Launcher)

	fmt.Fprintln(w, "Available launchers:")
	for _, id := range reg.IDs() {
		mark := style.Error.Render(ui.IconFail)
		if reg.IsAvailable(id) {
			mark = style.Success.Render(ui.IconPass)
		}
		suffix := ""
		if id == current {
			suffix = " (default)"
		}
		fmt.Fprintf(w, "  %s %s%s\n", mark, id, suffix)
	}
	return nil
}

func resetConfig(w io.Writer, p prompt.Prompter, path string) error {
	ok, err := p.Confirm("This will reset all configuration to defaults. Continue?", false)
	if err != nil || !ok {
		return nil
	}
	if err := config.Save(path, config.Defaults()); err != nil {
		return err
	}
	style.FprintSuccess(w, "Configuration reset to defaults")
	return nil
}
