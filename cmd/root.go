// Package cmd implements the command-line interface for lectern.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/lectern-cli/lectern/color"
	"github.com/lectern-cli/lectern/constant"
	"github.com/lectern-cli/lectern/icon"
	"github.com/lectern-cli/lectern/key"
	"github.com/lectern-cli/lectern/log"
	"github.com/lectern-cli/lectern/playback"
	"github.com/lectern-cli/lectern/style"
	"github.com/lectern-cli/lectern/track"
	"github.com/lectern-cli/lectern/tui"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, plain)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-progress", "W", true, "Persist resume positions while listening")
	lo.Must0(viper.BindPFlag(key.ProgressSave, rootCmd.PersistentFlags().Lookup("write-progress")))

	rootCmd.PersistentFlags().Float64("speed", playback.DefaultRate, "Initial playback rate (1, 1.25, 1.5, 1.75 or 2)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("speed", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(playback.Rates, func(r float64, _ int) string {
			return fmt.Sprint(r)
		}), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.PlayerDefaultSpeed, rootCmd.PersistentFlags().Lookup("speed")))

	rootCmd.PersistentFlags().Bool("autoplay", true, "Start playback as soon as a track is ready")
	lo.Must0(viper.BindPFlag(key.PlayerAutoplay, rootCmd.PersistentFlags().Lookup("autoplay")))

	rootCmd.PersistentFlags().Bool("expanded", true, "Open the full-screen player")
	lo.Must0(viper.BindPFlag(key.TUIStartExpanded, rootCmd.PersistentFlags().Lookup("expanded")))
}

// rootCmd plays the local files or URLs it is given.
var rootCmd = &cobra.Command{
	Use:   constant.Lectern + " [locator...]",
	Short: "A terminal player for audio lessons and podcasts",
	Long: constant.Logo + "\n\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - A terminal player for audio lessons and podcasts"),
	Example: "  lectern lesson-01.mp3 lesson-02.mp3\n  lectern https://cdn.example.com/episode.mp3",
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		if len(args) == 0 {
			handleErr(cmd.Help())
			return
		}

		CheckDependencies()
		handleErr(tui.Run(&tui.Options{Queue: track.FromLocators(args)}))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
