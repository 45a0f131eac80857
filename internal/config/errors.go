package config

import (
	"fmt"
	"os"
	"strings"
)

// PermissionError is returned when the config file cannot be read or
// written. It matches os.ErrPermission.
type PermissionError struct {
	Path    string
	Op      string // "read" or "write"
	Fix     string // shell command that grants access
	Details string
}

func (e *PermissionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "palette: cannot %s config %s: permission denied", e.Op, e.Path)
	if e.Details != "" {
		b.WriteString("\n  " + e.Details)
	}
	if e.Fix != "" {
		b.WriteString("\n  try: " + e.Fix)
	}
	return b.String()
}

func (e *PermissionError) Is(target error) bool { return target == os.ErrPermission }

// ConfigNotFoundError is returned by LoadFrom for a missing file.
// LoadOrDefault treats it as "use defaults". It matches os.ErrNotExist.
type ConfigNotFoundError struct {
	Path string
	Hint string
}

func (e *ConfigNotFoundError) Error() string {
	msg := "palette: no config at " + e.Path
	if e.Hint != "" {
		msg += "\n  " + e.Hint
	}
	return msg
}

func (e *ConfigNotFoundError) Is(target error) bool { return target == os.ErrNotExist }

// InvalidConfigError reports a config that does not parse or fails Validate.
type InvalidConfigError struct {
	Path    string
	Message string
	Hint    string
}

func (e *InvalidConfigError) Error() string {
	var b strings.Builder
	b.WriteString("palette: invalid config")
	if e.Path != "" {
		b.WriteString(" " + e.Path)
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	if e.Hint != "" {
		b.WriteString("\n  " + e.Hint)
	}
	return b.String()
}
