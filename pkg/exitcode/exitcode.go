// Package exitcode provides standardized exit codes for the configurator
package exitcode

// Exit codes for the CLI
const (
	Success         = 0
	GeneralError    = 1
	ConfigError     = 2
	MalformedError  = 3
	FileSystemError = 4
	ToolNotFound    = 5
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	case MalformedError:
		return "Malformed document"
	case FileSystemError:
		return "File system error"
	case ToolNotFound:
		return "Tool not found"
	default:
		return "Unknown error"
	}
}
