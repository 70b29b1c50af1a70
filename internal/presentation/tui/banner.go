package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the segue ASCII banner, colored when the terminal supports it.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  ___  ___  __ _ _   _  ___", "#818cf8"},
		{" / __|/ _ \\/ _` | | | |/ _ \\", "#a78bfa"},
		{" \\__ \\  __/ (_| | |_| |  __/", "#c084fc"},
		{" |___/\\___|\\__, |\\__,_|\\___|", "#e879f9"},
		{"            __/ |", "#f472b6"},
		{"           |___/", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  scene transitions "+version).Faint())
	fmt.Fprintln(w)
}
