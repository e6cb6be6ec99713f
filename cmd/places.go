package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/marcus/wayfind/internal/gate"
	"github.com/marcus/wayfind/internal/input"
	"github.com/marcus/wayfind/internal/mapview"
	"github.com/marcus/wayfind/internal/models"
	"github.com/marcus/wayfind/internal/output"
	"github.com/marcus/wayfind/internal/places"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var _ pflag.Value = (*places.Sort)(nil)

var placesSort = places.SortDefault

var placesCmd = &cobra.Command{
	Use:     "places",
	Aliases: []string{"ls"},
	Short:   "Browse all places",
	Example: `  wayfind places --category museums --sort popular
  wayfind places --search harbour`,
	GroupID: "discover",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(false)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer a.Close()

		if err := requireRoute(a, gate.PathPlaces); err != nil {
			return err
		}

		pois, err := a.client.ListPois(cmd.Context())
		if err != nil {
			output.Error("failed to load places: %v", err)
			return err
		}

		category, _ := cmd.Flags().GetString("category")
		search, _ := cmd.Flags().GetString("search")
		list := places.Filter(pois, places.Query{CategoryID: category, Search: search, Sort: placesSort})

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return output.JSON(list)
		}
		if len(list) == 0 {
			fmt.Println("No matching places")
			return nil
		}
		for _, p := range list {
			fmt.Println(output.FormatPoiShort(p))
		}
		return nil
	},
}

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Show places with their map markers",
	Long: `Lists every place with its marker: places you liked are marked as yours.
With --poi the place opens as a preview, --expand shows its full details.`,
	GroupID: "discover",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(false)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer a.Close()

		if err := requireRoute(a, gate.PathMap); err != nil {
			return err
		}

		pois, err := a.client.ListPois(cmd.Context())
		if err != nil {
			output.Error("failed to load places: %v", err)
			return err
		}

		coord := mapview.New()
		coord.SetPois(pois)
		coord.SetMine(userDecisions(cmd.Context(), a))

		poiID, _ := cmd.Flags().GetString("poi")
		if poiID != "" && !coord.SyncURL(poiID) {
			err := fmt.Errorf("%w: %s", mapview.ErrUnknownPoi, poiID)
			output.Error("%v", err)
			return err
		}
		if expand, _ := cmd.Flags().GetBool("expand"); expand {
			coord.ExpandPreview()
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			markers := make([]map[string]string, 0, len(pois))
			for _, p := range coord.Pois() {
				markers = append(markers, map[string]string{
					"poi_id": p.ID,
					"name":   p.Name,
					"marker": coord.MarkerState(p.ID).String(),
				})
			}
			return output.JSON(map[string]interface{}{
				"state":   coord.State(),
				"markers": markers,
			})
		}

		for _, p := range coord.Pois() {
			fmt.Printf("%-14s %s\n", output.MarkerBadge(coord.MarkerState(p.ID)), p.Name)
		}

		width := output.TerminalWidth(80)
		if p, ok := coord.Selected(); ok {
			fmt.Println()
			fmt.Println(output.FormatPoiLong(p, width))
		} else if p, ok := coord.Preview(); ok {
			fmt.Println()
			fmt.Println(output.SectionHeader(p.Name))
			if p.ShortDesc != "" {
				fmt.Println(output.WrapText(p.ShortDesc, width))
			}
		}
		return nil
	},
}

var routeCmd = &cobra.Command{
	Use:   "route [poi-id...]",
	Short: "Print a Google Maps route through places",
	Long: `Builds a directions link through the given places in order. Without
arguments the route runs through every place you liked. "-" reads ids from
stdin and "@file" from a file, one per line.`,
	GroupID: "discover",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(false)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer a.Close()

		ids, err := input.NewExpander().Expand(args)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if len(ids) == 0 {
			ids = models.LikedIDs(userDecisions(cmd.Context(), a))
		}
		if len(ids) == 0 {
			err := errors.New("no places given and none liked yet")
			output.Error("%v", err)
			return err
		}

		pois := make([]models.Poi, 0, len(ids))
		for _, id := range ids {
			p, err := a.client.GetPoi(cmd.Context(), id)
			if err != nil {
				output.Error("failed to load place %s: %v", id, err)
				return err
			}
			pois = append(pois, p)
		}

		link := places.RouteURL(pois)
		if link == "" {
			err := errors.New("none of these places has a location")
			output.Error("%v", err)
			return err
		}
		fmt.Println(link)
		return nil
	},
}

// requireRoute applies the same gate the app uses before showing a screen.
func requireRoute(a *app, path string) error {
	d := gate.Guard(a.session, path)
	if d.Allowed {
		return nil
	}
	hint := "swipe through a few places first ('wayfind deck')"
	if d.RedirectTo == gate.PathOnboarding {
		hint = "pick your interests first ('wayfind onboard')"
	}
	err := fmt.Errorf("%s is locked: %s", strings.TrimPrefix(path, "/"), hint)
	output.Error("%v", err)
	return err
}

// userDecisions returns the user's decisions from the service, falling back
// to the local cache when the service is unreachable.
func userDecisions(ctx context.Context, a *app) []models.Decision {
	userID := a.session.UserID()
	if userID == "" {
		return nil
	}
	remote, err := a.client.ListUserDecisions(ctx, userID)
	if err == nil {
		return remote
	}
	a.logger.Warn("decisions: using local cache", "err", err)
	cached, cerr := a.db.CachedDecisions(userID)
	if cerr != nil {
		a.logger.Warn("decisions: cache unreadable", "err", cerr)
		return nil
	}
	return cached
}

func init() {
	rootCmd.AddCommand(placesCmd)
	rootCmd.AddCommand(mapCmd)
	rootCmd.AddCommand(routeCmd)

	placesCmd.Flags().String("category", places.AllCategories, "Category id to show, or 'all'")
	placesCmd.Flags().Var(&placesSort, "sort", "Sort order: default, popular or name")
	placesCmd.Flags().StringP("search", "s", "", "Case-insensitive name search")
	placesCmd.Flags().Bool("json", false, "JSON output")

	mapCmd.Flags().String("poi", "", "Open this place as a preview")
	mapCmd.Flags().Bool("expand", false, "Expand the preview into full details")
	mapCmd.Flags().Bool("json", false, "JSON output")
}
