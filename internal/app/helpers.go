package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/driftline/cratectl/internal/library"
	"github.com/fatih/color"
)

// libraryPath resolves the crate the current command operates on, from
// the --library flag or the configured default.
func libraryPath() (string, error) {
	if flagLibrary != "" {
		return flagLibrary, nil
	}
	if cfg.Defaults.Library != "" {
		return cfg.Defaults.Library, nil
	}
	return "", errors.New("no library specified: pass --library or set defaults.library in config")
}

// openLibrary loads the target crate through the facade and records
// the access in the recent list.
func openLibrary() (*library.Loader, error) {
	path, err := libraryPath()
	if err != nil {
		return nil, err
	}
	l := library.New(logSink)
	if err := l.Load(path); err != nil {
		return nil, err
	}
	recentSvc.RegisterUsage(path)
	return l, nil
}

// parseTags splits a comma separated tag list, trimming whitespace and
// dropping empty items.
func parseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// humanBytes renders a byte count with a binary unit suffix.
func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// printField prints an aligned label/value pair.
func printField(label, value string) {
	if value == "" {
		value = color.HiBlackString("(none)")
	}
	fmt.Printf("  %-12s %s\n", label+":", value)
}
