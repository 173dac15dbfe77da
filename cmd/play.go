package cmd

import (
	"errors"
	"fmt"

	"github.com/lectern-cli/lectern/log"
	"github.com/lectern-cli/lectern/progress"
	"github.com/lectern-cli/lectern/query"
	"github.com/lectern-cli/lectern/track"
	"github.com/lectern-cli/lectern/tui"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("catalog", "C", "", "JSON catalog of tracks and courses to queue")
	playCmd.Flags().StringP("find", "f", "", "Start with the catalog track best matching the query")
	playCmd.Flags().BoolP("continue", "c", false, "Resume the most recently played unfinished track")
	lo.Must0(playCmd.MarkFlagFilename("catalog", "json"))
	lo.Must0(playCmd.RegisterFlagCompletionFunc("find", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	}))
}

// playCmd queues a catalog, or the resume history, and opens the player.
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play tracks from a catalog file or continue where you left off",
	Example: "  lectern play --catalog lessons.json\n" +
		"  lectern play --catalog lessons.json --find audits\n" +
		"  lectern play --continue",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			catalog   = lo.Must(cmd.Flags().GetString("catalog"))
			search    = lo.Must(cmd.Flags().GetString("find"))
			continued = lo.Must(cmd.Flags().GetBool("continue"))
		)

		options, err := playOptions(catalog, search, continued)
		handleErr(err)

		CheckDependencies()
		handleErr(tui.Run(options))
	},
}

// playOptions builds the player queue from the catalog and flags.
func playOptions(catalog, search string, continued bool) (*tui.Options, error) {
	var queue []*track.Track

	if catalog != "" {
		tracks, err := track.Load(catalog)
		if err != nil {
			return nil, err
		}
		queue = tracks
	}

	options := &tui.Options{Queue: queue}

	switch {
	case search != "":
		if len(queue) == 0 {
			return nil, errors.New("--find needs a --catalog to search")
		}
		found := track.Find(queue, search)
		if len(found) == 0 {
			return nil, fmt.Errorf("no track matches %q", search)
		}
		options.Start = track.IndexOf(queue, found[0].ID)
		options.Resume = continued

		if err := query.Remember(search, 1); err != nil {
			log.Warnf("remember query %q: %v", search, err)
		}

	case continued:
		recent, err := progress.RecentlyPlayed(1)
		if err != nil {
			return nil, err
		}
		if len(recent) == 0 {
			return nil, errors.New("nothing to continue")
		}

		record := recent[0]
		index := track.IndexOf(queue, record.TrackID)
		if index < 0 {
			options.Queue = append(options.Queue, record.Track())
			index = len(options.Queue) - 1
		}
		options.Start = index
		options.Resume = true
	}

	if len(options.Queue) == 0 {
		return nil, errors.New("nothing to play, pass --catalog or --continue")
	}

	return options, nil
}
