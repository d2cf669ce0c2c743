package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for Flowsmith.
func PrintBanner() {
	p := termenv.ColorProfile()
	s1 := termenv.String(`  _____ _                              _ _   _     `).Foreground(p.Color("#38bdf8"))
	s2 := termenv.String(` |  ___| | _____      _____ _ __ ___ (_) |_| |__  `).Foreground(p.Color("#22d3ee"))
	s3 := termenv.String(` | |_  | |/ _ \ \ /\ / / __| '_ ` + "`" + ` _ \| | __| '_ \ `).Foreground(p.Color("#2dd4bf"))
	s4 := termenv.String(` |  _| | | (_) \ V  V /\__ \ | | | | | | |_| | | |`).Foreground(p.Color("#34d399"))
	s5 := termenv.String(` |_|   |_|\___/ \_/\_/ |___/_| |_| |_|_|\__|_| |_|`).Foreground(p.Color("#4ade80"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}

// Prompt returns the styled input prompt for the chat loop.
func Prompt() string {
	p := termenv.ColorProfile()
	return termenv.String("you> ").Foreground(p.Color("#38bdf8")).Bold().String()
}
