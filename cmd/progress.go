package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lectern-cli/lectern/color"
	"github.com/lectern-cli/lectern/icon"
	"github.com/lectern-cli/lectern/progress"
	"github.com/lectern-cli/lectern/style"
	"github.com/lectern-cli/lectern/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(progressCmd)
}

// progressCmd groups the commands that inspect and edit saved resume positions.
var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Inspect and manage saved listening progress",
}

func init() {
	progressCmd.AddCommand(progressListCmd)
	progressListCmd.Flags().IntP("limit", "n", 0, "Show at most this many entries")
	progressListCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	progressListCmd.SetOut(os.Stdout)
}

var progressListCmd = &cobra.Command{
	Use:   "list",
	Short: "List unfinished tracks, most recent first",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			limit  = lo.Must(cmd.Flags().GetInt("limit"))
			asJson = lo.Must(cmd.Flags().GetBool("json"))
		)

		records, err := progress.RecentlyPlayed(limit)
		handleErr(err)

		if asJson {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(records))
			return
		}

		if len(records) == 0 {
			cmd.Println(style.Faint("No unfinished tracks"))
			return
		}

		for _, r := range records {
			cmd.Printf(
				"%s %s\n  %s\n",
				style.Fg(color.Purple)(r.Title),
				style.Fg(color.Yellow)(fmt.Sprintf("%.0f%%", r.Percentage())),
				style.Faint(r.String()),
			)
		}
	},
}

func init() {
	progressCmd.AddCommand(progressRemoveCmd)
}

var progressRemoveCmd = &cobra.Command{
	Use:   "remove [track id]",
	Short: "Forget the saved position of one track",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if progress.Get(args[0]).IsAbsent() {
			handleErr(fmt.Errorf("no saved progress for %s", args[0]))
		}

		handleErr(progress.Remove(args[0]))
		fmt.Printf("%s removed %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Purple)(args[0]))
	},
}

func init() {
	progressCmd.AddCommand(progressClearCmd)
}

var progressClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every saved position",
	Run: func(cmd *cobra.Command, args []string) {
		all, err := progress.All()
		handleErr(err)
		handleErr(progress.Clear())

		fmt.Printf(
			"%s cleared %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			util.Quantify(len(all), "entry", "entries"),
		)
	},
}
