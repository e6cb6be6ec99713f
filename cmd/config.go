package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/marcus/wayfind/internal/config"
	"github.com/marcus/wayfind/internal/output"
	"github.com/marcus/wayfind/internal/suggest"
	"github.com/spf13/cobra"
)

const keysHelp = `Key bindings are overridden with "keys.<context>:<key>", for example
"keys.swipe:d" set to "like". Contexts: global, home, onboarding, swipe, map,
places, search, help.`

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Manage wayfind configuration",
	GroupID: "system",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Long:  "Valid keys: " + strings.Join(config.SettingKeys, ", ") + "\n\n" + keysHelp,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		err := config.Update(getConfigDir(), func(c *config.Config) error {
			return c.Set(key, val)
		})
		if err != nil {
			output.Error("%v", err)
			suggestKey(key)
			return err
		}
		output.Success("Set %s = %s", key, val)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a config value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(getConfigDir())
		if err != nil {
			output.Error("load config: %v", err)
			return err
		}
		val, err := cfg.Get(args[0])
		if err != nil {
			output.Error("%v", err)
			suggestKey(args[0])
			return err
		}
		if val == "" {
			val = "(not set)"
		}
		fmt.Println(val)
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a config value so the default applies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := config.Update(getConfigDir(), func(c *config.Config) error {
			return c.Unset(args[0])
		})
		if err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("Unset %s", args[0])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured values",
	Long:  `Lists values stored in config.json. With --json, prints the effective settings after environment and defaults are applied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			settings, err := config.Resolve(getConfigDir())
			if err != nil {
				output.Error("%v", err)
				return err
			}
			return output.JSON(settings)
		}

		cfg, err := config.Load(getConfigDir())
		if err != nil {
			output.Error("load config: %v", err)
			return err
		}
		shown := 0
		for _, e := range cfg.Entries() {
			if e[1] == "" {
				continue
			}
			fmt.Printf("%s = %s\n", e[0], e[1])
			shown++
		}
		if shown == 0 {
			fmt.Println("No config values set")
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Show version",
	GroupID: "system",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wayfind %s\n", versionStr)
	},
}

// suggestKey prints near matches for a mistyped scalar key.
func suggestKey(key string) {
	if strings.HasPrefix(key, "keys.") || slices.Contains(config.SettingKeys, key) {
		return
	}
	if near := suggest.Closest(key, config.SettingKeys); len(near) > 0 {
		fmt.Println("Did you mean:", strings.Join(near, ", "))
		return
	}
	fmt.Println("Valid keys:", strings.Join(config.SettingKeys, ", "))
}

func init() {
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configListCmd)

	configListCmd.Flags().Bool("json", false, "Print effective settings as JSON")
}
