package cmd

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/marcus/wayfind/internal/input"
	"github.com/marcus/wayfind/internal/models"
	"github.com/marcus/wayfind/internal/output"
	"github.com/marcus/wayfind/internal/session"
	"github.com/marcus/wayfind/internal/suggest"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"cats"},
	Short:   "List interest categories offered by the service",
	GroupID: "discover",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(false)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer a.Close()

		cats, err := a.client.ListCategories(cmd.Context())
		if err != nil {
			output.Error("failed to load categories: %v", err)
			return err
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return output.JSON(cats)
		}

		selected := a.session.Snapshot().SelectedCategories
		for _, c := range cats {
			mark := " "
			if slices.Contains(selected, c.ID) {
				mark = "*"
			}
			fmt.Printf("%s %-20s %s\n", mark, c.ID, c.Label)
		}
		return nil
	},
}

var onboardCmd = &cobra.Command{
	Use:     "onboard",
	Aliases: []string{"interests"},
	Short:   "Pick interests and create or update your profile",
	Long: fmt.Sprintf(`Choose at least %d interest categories. The service creates a profile
on first use and updates it afterwards. Without --categories an interactive
picker is shown.`, session.MinCategories),
	Example: `  wayfind onboard
  wayfind onboard --categories museums,parks,food`,
	GroupID: "session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(false)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer a.Close()

		ids, _ := cmd.Flags().GetStringSlice("categories")
		if ids, err = input.NewExpander().Expand(ids); err != nil {
			output.Error("%v", err)
			return err
		}
		if len(ids) > 0 {
			cats, err := a.client.ListCategories(cmd.Context())
			if err != nil {
				output.Error("failed to load categories: %v", err)
				return err
			}
			if err := checkCategoryIDs(cleanIDs(ids), cats); err != nil {
				output.Error("%v", err)
				return err
			}
		} else {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				err := errors.New("no terminal for the picker; pass --categories")
				output.Error("%v", err)
				return err
			}
			cats, err := a.client.ListCategories(cmd.Context())
			if err != nil {
				output.Error("failed to load categories: %v", err)
				return err
			}
			ids, err = pickCategories(cats, a.session.Snapshot().SelectedCategories)
			if err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					output.Warning("Cancelled")
					return nil
				}
				output.Error("%v", err)
				return err
			}
		}

		ids = cleanIDs(ids)
		if err := requireCategories(ids); err != nil {
			output.Error("%v", err)
			return err
		}

		hadUser := a.session.UserID() != ""
		profileID, err := a.client.CreateOrUpdateProfile(cmd.Context(), models.ChoicesFromCategories(ids))
		if err != nil {
			output.Error("failed to save profile: %v", err)
			return err
		}
		if err := a.session.SetSelectedCategories(ids); err != nil {
			output.Error("%v", err)
			return err
		}
		if err := a.session.SetUserID(profileID); err != nil {
			output.Error("%v", err)
			return err
		}

		if hadUser {
			output.Success("Interests updated")
		} else {
			output.Success("Profile %s created. Run 'wayfind deck' to start swiping.", profileID)
		}
		return nil
	},
}

func pickCategories(cats []models.Category, current []string) ([]string, error) {
	opts := make([]huh.Option[string], 0, len(cats))
	for _, c := range cats {
		label := c.Label
		if label == "" {
			label = c.ID
		}
		opts = append(opts, huh.NewOption(label, c.ID).Selected(slices.Contains(current, c.ID)))
	}

	var picked []string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("What are you into?").
				Description(fmt.Sprintf("Pick at least %d", session.MinCategories)).
				Options(opts...).
				Value(&picked).
				Validate(requireCategories),
		),
	).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		return nil, err
	}
	return picked, nil
}

func requireCategories(ids []string) error {
	if len(ids) < session.MinCategories {
		return fmt.Errorf("pick at least %d categories (%d selected)", session.MinCategories, len(ids))
	}
	return nil
}

// checkCategoryIDs rejects ids the service does not offer, suggesting near
// matches.
func checkCategoryIDs(ids []string, cats []models.Category) error {
	known := make([]string, 0, len(cats))
	for _, c := range cats {
		known = append(known, c.ID)
	}
	for _, id := range ids {
		if slices.Contains(known, id) {
			continue
		}
		if near := suggest.Closest(id, known); len(near) > 0 {
			return fmt.Errorf("unknown category %q (did you mean %s?)", id, strings.Join(near, ", "))
		}
		return fmt.Errorf("unknown category %q (see 'wayfind categories')", id)
	}
	return nil
}

// cleanIDs trims and de-duplicates, keeping first-seen order.
func cleanIDs(ids []string) []string {
	var out []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(onboardCmd)

	categoriesCmd.Flags().Bool("json", false, "JSON output")
	onboardCmd.Flags().StringSlice("categories", nil, "Category ids to select (comma-separated, - for stdin, @file)")
}
