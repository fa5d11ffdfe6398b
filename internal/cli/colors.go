package cli

import "fmt"

// ANSI escape codes used by the CLI output
const (
	Reset = "\033[0m"

	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
	White  = "\033[37m"
	Gray   = "\033[90m"

	Bold = "\033[1m"
	Dim  = "\033[2m"
)

// Styles shared by every command
var (
	HeaderStyle = Cyan + Bold

	SuccessStyle = Green + Bold
	ErrorStyle   = Red + Bold
	WarningStyle = Yellow + Bold
	InfoStyle    = Blue + Bold

	LabelStyle = Cyan
	ValueStyle = White + Bold
	DimStyle   = Dim
	CountStyle = Yellow + Bold
	MetaStyle  = Gray
)

func FormatLabel(text string) string {
	return LabelStyle + text + Reset
}

func FormatValue(text string) string {
	return ValueStyle + text + Reset
}

func FormatCount(count int) string {
	return CountStyle + fmt.Sprintf("%d", count) + Reset
}

func FormatMeta(text string) string {
	return MetaStyle + text + Reset
}

// FormatLabelValue formats a label-value pair
func FormatLabelValue(label, value string) string {
	return LabelStyle + label + Reset + " " + ValueStyle + value + Reset
}

// FormatCountLabel formats a count with its label
func FormatCountLabel(label string, count int) string {
	return LabelStyle + label + Reset + " " + CountStyle + fmt.Sprintf("%d", count) + Reset
}

func FormatError(text string) string {
	return ErrorStyle + text + Reset
}
