package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lectern-cli/lectern/icon"
	"github.com/lectern-cli/lectern/key"
	"github.com/lectern-cli/lectern/playback"
	"github.com/lectern-cli/lectern/style"
	"github.com/lectern-cli/lectern/view"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wrap"
	"github.com/spf13/viper"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
	studyPanelStyle       = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(style.SecondaryColor).
				Padding(0, 1)
)

// blocks are the eighth-step glyphs a waveform cell is drawn with.
var blocks = []rune(" ▁▂▃▄▅▆▇█")

const (
	miniWaveformRows     = 1
	expandedWaveformRows = 4
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case playerState:
		if b.player.IsExpanded {
			output = b.viewExpanded()
		} else {
			output = b.viewMini()
		}
	case queueState:
		output = listExtraPaddingStyle.Render(b.queueC.View())
	case recentState:
		output = listExtraPaddingStyle.Render(b.recentC.View())
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewMini() string {
	snapshot := b.view.Snapshot()

	lines := []string{
		b.headline(snapshot),
		"",
		renderWaveform(snapshot.Bars, miniWaveformRows),
		b.controls(snapshot),
	}

	return b.renderLines(true, append(lines, b.message(snapshot)...))
}

func (b *statefulBubble) viewExpanded() string {
	snapshot := b.view.Snapshot()

	lines := []string{style.Title("Now Playing"), ""}

	if t, ok := b.player.Item.Get(); ok {
		lines = append(lines,
			b.truncate(style.Bold(t.Title)),
			b.truncate(style.Faint(t.Subtitle())),
		)
		if viper.GetBool(key.TUIShowLocator) {
			lines = append(lines, b.truncate(style.Faint(t.AudioLocator.OrEmpty())))
		}
	} else {
		lines = append(lines, style.Faint("Nothing is playing"))
	}

	lines = append(lines,
		"",
		renderWaveform(snapshot.Bars, expandedWaveformRows),
		b.progressC.ViewAs(snapshot.ProgressFraction),
		b.controls(snapshot),
	)

	if snapshot.IsStudyMode {
		lines = append(lines, "", b.studyPanel())
	}

	return b.renderLines(true, append(lines, b.message(snapshot)...))
}

// headline is the single line the mini player shows for the current track.
func (b *statefulBubble) headline(snapshot view.Snapshot) string {
	t, ok := b.player.Item.Get()
	if !ok {
		return style.Faint("Nothing is playing")
	}

	state := icon.Get(icon.Pause)
	if snapshot.IsPlaying {
		state = icon.Get(icon.Play)
	}
	if snapshot.Phase == playback.PhaseLoading {
		state = b.spinnerC.View()
	}

	line := fmt.Sprintf("%s %s", state, style.Fg(style.AccentColor)(t.Title))
	if sub := t.Subtitle(); sub != "" {
		line += " " + style.Faint(sub)
	}
	return b.truncate(line)
}

func (b *statefulBubble) controls(snapshot view.Snapshot) string {
	like := icon.Get(icon.Unlike)
	if snapshot.IsLiked {
		like = icon.Get(icon.Like)
	}
	if snapshot.IsLikeAnimating {
		like = style.Bold(style.Fg(style.Pink)(like))
	}

	parts := []string{
		fmt.Sprintf("%s / %s", snapshot.DisplayPosition, snapshot.DisplayDuration),
		fmt.Sprintf("%s %s", icon.Get(icon.Speed), snapshot.SpeedLabel),
		like,
	}
	if snapshot.IsStudyMode {
		parts = append(parts, style.Tag(style.Base, style.SecondaryColor)(icon.Get(icon.Study)+" study"))
	}
	if snapshot.Phase == playback.PhaseLoading && b.player.IsExpanded {
		parts = append(parts, b.spinnerC.View()+" loading")
	}

	return b.truncate(strings.Join(parts, "   "))
}

func (b *statefulBubble) studyPanel() string {
	var lines []string
	if t, ok := b.player.Item.Get(); ok {
		if course, ok := t.CourseTitle.Get(); ok {
			lines = append(lines, style.Bold(course))
		}
		lines = append(lines, t.Title)
	}
	lines = append(lines, style.Faint("Study mode: waveform reduced, press t to leave"))

	width := max(b.width-4, 10)
	return studyPanelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (b *statefulBubble) message(snapshot view.Snapshot) []string {
	msg, ok := snapshot.Message.Get()
	if !ok {
		return nil
	}

	text := fmt.Sprintf("%s %s", icon.Get(icon.Fail), msg.Text)
	if msg.Kind == playback.KindNetwork {
		text += " (press r to retry)"
	}

	body := lipgloss.NewStyle().Foreground(style.ErrorColor).Render(text)
	return []string{"", wrap.String(body, max(b.width, 1))}
}

func (b *statefulBubble) truncate(s string) string {
	if b.width <= 0 {
		return s
	}
	return truncate.StringWithTail(s, uint(b.width), "…")
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	l := strings.Join(lines, "\n")
	h := strings.Count(l, "\n") + 1
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}

// renderWaveform draws bars as columns rows cells tall, filled in eighths.
func renderWaveform(bars []view.Bar, rows int) string {
	if len(bars) == 0 || rows <= 0 {
		return ""
	}

	active := lipgloss.NewStyle().Foreground(style.AccentColor)
	animated := active.Bold(true)
	inactive := lipgloss.NewStyle().Foreground(style.FaintColor)

	steps := len(blocks) - 1
	grid := make([]strings.Builder, rows)

	for _, bar := range bars {
		level := int(bar.Height / 100 * float64(rows*steps))
		for row := 0; row < rows; row++ {
			fromBottom := rows - 1 - row
			fill := min(max(level-fromBottom*steps, 0), steps)
			cell := string(blocks[fill])

			switch {
			case bar.Animated:
				cell = animated.Render(cell)
			case bar.Active:
				cell = active.Render(cell)
			default:
				cell = inactive.Render(cell)
			}
			grid[row].WriteString(cell)
		}
	}

	lines := make([]string, rows)
	for i := range grid {
		lines[i] = grid[i].String()
	}
	return strings.Join(lines, "\n")
}
