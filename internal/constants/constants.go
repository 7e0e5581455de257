package constants

const (
	Name             = "flowpipe-form"
	ShortDescription = "Flowpipe input form service"
	LongDescription  = `Flowpipe form: the web form for responding to Flowpipe input steps.

Serves the human-facing response page for a pending input step, validates the
answer and submits it back to the Flowpipe server.
`

	DefaultServerPort = 7104
	DefaultListen     = "localhost"

	// EnvLogLevel configures the slog level of the process.
	EnvLogLevel = "FLOWPIPE_FORM_LOG_LEVEL"

	// ThemeFileName is the fixed storage key the chosen theme name is
	// persisted under, inside the install dir.
	ThemeFileName = "theme"

	// SaltCacheKey is the cache key holding the process salt used to sign
	// session references.
	SaltCacheKey = "salt"
)
