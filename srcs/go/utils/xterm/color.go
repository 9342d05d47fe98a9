package xterm

import (
	"os"

	"github.com/muesli/termenv"
)

type ColorSet []Color

func (cs ColorSet) Choose(i int) Color {
	return cs[i%len(cs)]
}

var (
	BasicColors = ColorSet{
		Green,
		Blue,
		Yellow,
		LightBlue,
	}

	Warn = Red
)

type Color interface {
	B(text string) []byte
	S(text string) string
}

type color struct {
	c termenv.ANSIColor
}

// Standard XTerm Colors
var (
	Green     = color{c: termenv.ANSIGreen}
	Yellow    = color{c: termenv.ANSIYellow}
	Blue      = color{c: termenv.ANSIBlue}
	Red       = color{c: termenv.ANSIMagenta}
	LightBlue = color{c: termenv.ANSICyan}
	Grey      = color{c: termenv.ANSIWhite}
)

// profile is resolved once from stdout; Ascii disables escapes for pipes and files.
var profile = termenv.NewOutput(os.Stdout).Profile

func (c color) S(text string) string {
	return profile.String(text).Foreground(profile.Convert(c.c)).Bold().String()
}

func (c color) B(text string) []byte {
	return []byte(c.S(text))
}

var NoColor = noColor{}

type noColor struct{}

func (c noColor) B(text string) []byte {
	return []byte(text)
}

func (c noColor) S(text string) string {
	return text
}
