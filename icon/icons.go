package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Fail Icon = iota
	Success
	Progress
	Mark
	Link
	Search
	Play
	Pause
	Like
	Unlike
	Study
	Speed
	Track
)

var icons = map[Icon]*iconDef{
	Fail: {
		emoji:   "💀",
		nerd:    "",
		plain:   "X",
		kaomoji: "(╥﹏╥)",
		squares: "🟥",
	},
	Success: {
		emoji:   "🎉",
		nerd:    "",
		plain:   "OK",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "🟩",
	},
	Progress: {
		emoji:   "👾",
		nerd:    "",
		plain:   "...",
		kaomoji: "┐(´～｀)┌",
		squares: "🟦",
	},
	Mark: {
		emoji:   "✅",
		nerd:    "",
		plain:   "*",
		kaomoji: "(*°▽°*)",
		squares: "🟨",
	},
	Link: {
		emoji:   "🔗",
		nerd:    "",
		plain:   "->",
		kaomoji: "(∗ ･‿･)ﾉ゛",
		squares: "🟪",
	},
	Search: {
		emoji:   "🔍",
		nerd:    "",
		plain:   "?",
		kaomoji: "⌐■-■",
		squares: "🟫",
	},
	Play: {
		emoji:   "▶️",
		nerd:    "",
		plain:   ">",
		kaomoji: "ヾ(⌐■_■)ノ♪",
		squares: "🟩",
	},
	Pause: {
		emoji:   "⏸️",
		nerd:    "",
		plain:   "||",
		kaomoji: "(￣ー￣)zzz",
		squares: "🟨",
	},
	Like: {
		emoji:   "❤️",
		nerd:    "",
		plain:   "<3",
		kaomoji: "(♡°▽°♡)",
		squares: "🟥",
	},
	Unlike: {
		emoji:   "🤍",
		nerd:    "",
		plain:   "</3",
		kaomoji: "(・_・)",
		squares: "⬜",
	},
	Study: {
		emoji:   "📖",
		nerd:    "",
		plain:   "[S]",
		kaomoji: "φ(．．)",
		squares: "🟦",
	},
	Speed: {
		emoji:   "⏩",
		nerd:    "",
		plain:   ">>",
		kaomoji: "ε=ε=┌( >_<)┘",
		squares: "🟧",
	},
	Track: {
		emoji:   "🎧",
		nerd:    "",
		plain:   "~",
		kaomoji: "♪(´▽｀)",
		squares: "🟪",
	},
}
