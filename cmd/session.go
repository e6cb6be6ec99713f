package cmd

import (
	"fmt"

	"github.com/marcus/wayfind/internal/gate"
	"github.com/marcus/wayfind/internal/output"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"whoami"},
	Short:   "Show the stored session",
	Long:    `Shows the user id, chosen interests and swipe progress kept on this machine.`,
	GroupID: "session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(false)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer a.Close()

		state := a.session.Snapshot()
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return output.JSON(map[string]interface{}{
				"user_id":             state.UserID,
				"selected_categories": state.SelectedCategories,
				"swipe_count":         state.SwipeCount,
				"graduated":           state.Graduated(),
			})
		}

		fmt.Print(output.FormatSession(state))
		return nil
	},
}

var sessionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the user, interests and swipe count",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(false)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer a.Close()

		if err := a.session.Reset(); err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("Session cleared")
		return nil
	},
}

var sessionSetUserCmd = &cobra.Command{
	Use:   "set-user <user-id>",
	Short: "Adopt an existing user id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(false)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer a.Close()

		if err := a.session.SetUserID(args[0]); err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("Using user %s", args[0])
		return nil
	},
}

var gateCmd = &cobra.Command{
	Use:     "gate <path>",
	Short:   "Show where a route would take you",
	Long:    `Runs the route gate for path against the stored session and prints the decision.`,
	GroupID: "session",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(false)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer a.Close()

		d := gate.Guard(a.session, args[0])
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return output.JSON(map[string]interface{}{
				"path":        d.Path,
				"allowed":     d.Allowed,
				"redirect_to": d.RedirectTo,
				"target":      d.Target(),
			})
		}
		fmt.Println(output.FormatGate(d))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(gateCmd)
	sessionCmd.AddCommand(sessionResetCmd)
	sessionCmd.AddCommand(sessionSetUserCmd)

	sessionCmd.Flags().Bool("json", false, "JSON output")
	gateCmd.Flags().Bool("json", false, "JSON output")
}
