package cli

import "fmt"

// ConfigError reports an unusable flag or configuration value. Field names
// the flag or config key the way the user wrote it; it may be empty when
// the problem is not tied to one field, such as an unreadable config file.
//
// Commands return a ConfigError for mistakes the user can fix by editing
// the invocation, and the process exits with a usage status for them.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewConfigError builds a ConfigError for the given field.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// CommandError wraps a runtime failure with the command that hit it.
// Unwrap keeps nested causes reachable, so errors.As can pierce through to
// a storage or export error underneath.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError wraps err as a failure of the named command.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{Command: command, Err: err}
}
