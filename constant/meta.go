// Package constant defines immutable application-level identifiers.
package constant

const (
	// App is the canonical application identifier used for filesystem paths, env prefixes and CLI branding.
	App = "cpl"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// UserAgent is sent with every request to the learning platform API.
	UserAgent = App + "/" + Version
	// Website is where users manage their account and create CLI tokens.
	Website = "https://copypastelearn.com"
)

// Build metadata, stamped with -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

// runtime.GOOS values with platform specific behavior.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)
