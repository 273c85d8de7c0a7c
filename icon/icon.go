// Package icon renders UI symbols in the user's preferred variant.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII
// or Unicode squares depending on user preference.
package icon

import (
	"github.com/copypastelearn/cpl/key"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	squares = "squares"
)

// AvailableVariants returns all icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, squares}
}

// Icon identifies a symbol in the registry.
type Icon int

const (
	Fail Icon = iota + 1
	Success
	Warn
	Play
	Pause
	Buffering
	Complete
	Lock
	Link
	Next
	Previous
)

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	squares string
}

func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case squares:
		return d.squares
	default:
		return ""
	}
}

var icons = map[Icon]*iconDef{
	Fail:      {emoji: "💀", nerd: "", plain: "X", squares: "🟥"},
	Success:   {emoji: "🎉", nerd: "", plain: "V", squares: "🟩"},
	Warn:      {emoji: "⚠️", nerd: "", plain: "!", squares: "🟨"},
	Play:      {emoji: "▶️", nerd: "", plain: ">", squares: "▶"},
	Pause:     {emoji: "⏸️", nerd: "", plain: "||", squares: "⏸"},
	Buffering: {emoji: "⏳", nerd: "", plain: "~", squares: "🟪"},
	Complete:  {emoji: "✅", nerd: "", plain: "*", squares: "🟩"},
	Lock:      {emoji: "🔒", nerd: "", plain: "#", squares: "⬛"},
	Link:      {emoji: "🔗", nerd: "", plain: "@", squares: "🟦"},
	Next:      {emoji: "⏭️", nerd: "", plain: ">>", squares: "⏭"},
	Previous:  {emoji: "⏮️", nerd: "", plain: "<<", squares: "⏮"},
}

// Get returns the rendered symbol for i.
func Get(i Icon) string {
	d, ok := icons[i]
	if !ok {
		return ""
	}
	return d.Get()
}
