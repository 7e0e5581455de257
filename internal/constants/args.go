package constants

const (
	ArgListen     = "listen"
	ArgPort       = "port"
	ArgApiBaseUrl = "api-base-url"
	ArgInstallDir = "install-dir"
)
