package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/marcus/wayfind/internal/deck"
	"github.com/marcus/wayfind/internal/models"
	"github.com/marcus/wayfind/internal/output"
	"github.com/marcus/wayfind/internal/session"
	"github.com/spf13/cobra"
)

var deckCmd = &cobra.Command{
	Use:     "deck",
	Aliases: []string{"swipe"},
	Short:   "Show recommended places or record a like/pass",
	Long: `Without flags, fetches your recommendations and prints the cards in order.
With --like or --dislike, records a decision for one place. Each recorded
decision counts toward unlocking the map and places list.`,
	Example: `  wayfind deck
  wayfind deck --like p42
  wayfind deck --dislike p17`,
	GroupID: "discover",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(false)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer a.Close()

		userID, err := a.session.Snapshot().RequireUser()
		if err != nil {
			output.Error("no profile yet; run 'wayfind onboard' first")
			return err
		}

		like, _ := cmd.Flags().GetString("like")
		dislike, _ := cmd.Flags().GetString("dislike")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		d := deck.New(a.session, a.client, a.logger)

		if like != "" || dislike != "" {
			if like != "" && dislike != "" {
				err := errors.New("pass only one of --like and --dislike")
				output.Error("%v", err)
				return err
			}
			poiID, liked := like, true
			if dislike != "" {
				poiID, liked = dislike, false
			}
			return recordDecision(cmd, a, d, poiID, liked, jsonOutput)
		}

		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			limit = a.settings.DeckLimit
		}

		loader := deck.NewLoader(a.client, d, a.settings.RetryDelays, a.logger)
		res, err := loader.Load(cmd.Context(), userID, limit)
		if err != nil {
			output.Error("failed to load recommendations: %v", err)
			return err
		}

		cards := d.Upcoming(res.Cards)
		if jsonOutput {
			return output.JSON(cards)
		}
		if len(cards) == 0 {
			fmt.Println("No recommendations right now. Try again in a moment.")
			return nil
		}

		width := output.TerminalWidth(80)
		if width > 72 {
			width = 72
		}
		for i, c := range cards {
			if i > 0 {
				fmt.Println()
			}
			fmt.Println(output.FormatCard(c, width))
		}
		return nil
	},
}

// recordDecision swipes a single known place. The deck is seeded with just
// that card so the usual commit path (backend ack, then swipe count) applies.
func recordDecision(cmd *cobra.Command, a *app, d *deck.Deck, poiID string, liked, jsonOutput bool) error {
	poi, err := a.client.GetPoi(cmd.Context(), poiID)
	if err != nil {
		output.Error("failed to load place %s: %v", poiID, err)
		return err
	}
	d.Replace([]models.Card{models.CardFromPoi(poi)})

	out, err := d.RecordDecision(cmd.Context(), poi.ID, liked)
	if err != nil {
		output.Error("could not save your choice: %v", err)
		return err
	}

	dec := out.Decision
	dec.DecidedAt = time.Now().UTC()
	if err := a.db.CacheDecision(a.session.UserID(), dec); err != nil {
		a.logger.Warn("deck: decision not cached", "poi", dec.PoiID, "err", err)
	}

	if jsonOutput {
		return output.JSON(map[string]interface{}{
			"decision":    dec,
			"swipe_count": out.SwipeCount,
		})
	}

	fmt.Printf("%s  %s\n", output.FormatDecision(dec), poi.Name)
	if justGraduated(out.SwipeCount) {
		output.Success("You unlocked the map and places!")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(deckCmd)

	deckCmd.Flags().Int("limit", 0, "Number of recommendations to fetch (default from config)")
	deckCmd.Flags().String("like", "", "Like the place with this id")
	deckCmd.Flags().String("dislike", "", "Pass on the place with this id")
	deckCmd.Flags().Bool("json", false, "JSON output")
}

// justGraduated reports whether the swipe that brought the count to n was
// the one that unlocked every route.
func justGraduated(n int) bool {
	return n == session.GraduationSwipes
}
