package terminal

// ANSI styling shared by the menu and the stroop renderer.
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
	Red    = "\033[31m"
)

// High-contrast 256-color codes for the stroop stimulus. The word, its text
// color and its background color are all different, so both maps must cover
// the full palette.
var (
	TextColor = map[string]string{
		"red":    "\033[1;38;5;196m",
		"blue":   "\033[1;38;5;21m",
		"green":  "\033[1;38;5;46m",
		"yellow": "\033[1;38;5;226m",
	}
	BackgroundColor = map[string]string{
		"red":    "\033[48;5;196m",
		"blue":   "\033[48;5;21m",
		"green":  "\033[48;5;46m",
		"yellow": "\033[48;5;226m",
	}
)

// Colorize renders a stroop word with the given ink and background, falling
// back to a plain annotation when the console is not interactive.
func Colorize(word, ink, background string, interactive bool) string {
	if !interactive {
		return word + " [ink:" + ink + " bg:" + background + "]"
	}
	return BackgroundColor[background] + TextColor[ink] + word + Reset
}
