package config

import (
	"fmt"
	"strings"

	"opsdash/internal/config"
	"opsdash/internal/daterange"
	"opsdash/internal/util"

	"github.com/spf13/cobra"
)

// SetCommand returns the "config set" command.
func SetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Set a persistent configuration value.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  opsdash config set server-url https://dash.example.com\n" +
			"  opsdash config set default-range 7d",
		Args: cobra.ExactArgs(2),
		Run:  runSet,
	}

	return cmd
}

// validators maps key names to optional pre-save validation functions.
// Keys not present in this map have no extra validation.
var validators = map[string]func(cmd *cobra.Command, value string) error{
	"default-range": validateRange,
}

func runSet(cmd *cobra.Command, args []string) {
	key := util.NormalizeKey(args[0])
	// Values are stored verbatim: server URLs and paths are
	// case-sensitive, unlike the key names.
	value := strings.TrimSpace(args[1])

	spec := config.Lookup(key)
	if spec == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: unknown configuration key %q\n", args[0])
		fmt.Fprintf(cmd.ErrOrStderr(), "Valid keys: %s\n", strings.Join(config.KeyNames(), ", "))
		return
	}

	if validate, ok := validators[spec.Name]; ok {
		if err := validate(cmd, value); err != nil {
			return // validate already printed the error
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}

	spec.Set(cfg, value)
	if err := cfg.Save(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s set to %q\n", spec.Name, value)
}

// validateRange checks that the given value is a known range preset.
func validateRange(cmd *cobra.Command, value string) error {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, p := range daterange.Presets() {
		if normalized == string(p) || normalized == p.Label() {
			return nil
		}
	}
	var labels []string
	for _, p := range daterange.Presets() {
		labels = append(labels, p.Label())
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: unknown range %q\n", value)
	fmt.Fprintf(cmd.ErrOrStderr(), "Valid ranges: %s\n", strings.Join(labels, ", "))
	return fmt.Errorf("unknown range %q", value)
}
