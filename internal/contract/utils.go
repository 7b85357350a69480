package contract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
)

// Similarity label constants.
const (
	StrongValue   = "Strong"   // Strong match
	GoodValue     = "Good"     // Good match
	FairValue     = "Fair"     // Fair match
	MarginalValue = "Marginal" // Barely above the confidence threshold
)

// Color variables for console output.
var (
	StrongColor   = color.New(color.FgGreen, color.Bold) // strongColor represents a confident match.
	GoodColor     = color.New(color.FgCyan)              // goodColor represents a solid match.
	FairColor     = color.New(color.FgYellow)            // fairColor represents standard caution.
	MarginalColor = color.New(color.FgRed)               // marginalColor represents a weak signal.
)

// GetPlainLabel returns a plain text label for a similarity score in [0,1].
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(similarity float64) string {
	switch {
	case similarity >= 0.9:
		return StrongValue
	case similarity >= 0.8:
		return GoodValue
	case similarity >= 0.75:
		return FairValue
	default:
		return MarginalValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(similarity float64) string {
	text := GetPlainLabel(similarity)

	switch text {
	case StrongValue:
		return StrongColor.Sprint(text)
	case GoodValue:
		return GoodColor.Sprint(text)
	case FairValue:
		return FairColor.Sprint(text)
	default: // "Marginal"
		return MarginalColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	file, err := os.Create(filePath)
	if err != nil {
		return os.Stdout, fmt.Errorf("failed to create output file %q: %w", filePath, err)
	}
	return file, nil
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and
// at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetStoreDBFilePath returns the path to the SQLite DB file for the pattern store.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".bugtrail_memory.db"
	}
	return filepath.Join(homeDir, ".bugtrail_memory.db")
}
