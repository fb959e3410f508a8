package quote

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	` _   _           _    _ _ _ `,
	`| | | |_ __  ___| | _(_) | |`,
	`| | | | '_ \/ __| |/ / | | |`,
	`| |_| | |_) \__ \   <| | | |`,
	` \___/| .__/|___/_|\_\_|_|_|`,
	`      |_|                   `,
}

var bannerColors = []string{"#34d399", "#2dd4bf", "#22d3ee", "#38bdf8", "#60a5fa", "#818cf8"}

// PrintBanner writes the colored upskill banner to w. Colors degrade to the
// profile of the terminal, and to plain text when w is not one.
func PrintBanner(w io.Writer, subtitle string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, out.String(line).Foreground(p.Color(bannerColors[i])))
	}
	if subtitle != "" {
		fmt.Fprintln(w, out.String(subtitle).Faint())
	}
	fmt.Fprintln(w)
}
