package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// SetDefaults sets up the global viper config with default values. Flags and
// FLOWPIPE_FORM_* environment variables override these.
func SetDefaults(installDir string) {
	viper.SetDefault("environment", "release")

	// Flowpipe server the two form contracts are served by
	viper.SetDefault("api.base_url", "http://localhost:7103")

	// Web server
	viper.SetDefault("web.http.listen", "localhost")
	viper.SetDefault("web.http.port", 7104)
	viper.SetDefault("web.request.size_limit", int64(5*1024*1024))
	viper.SetDefault("web.rate.fill", 50.0)
	viper.SetDefault("web.rate.burst", 100)
	viper.SetDefault("web.server.cooldown_secs", 5)
	viper.SetDefault("web.secure.ssl_host", "")

	// Mounted form sessions are kept in memory between the page GET and the
	// submit POST; after the TTL a POST is treated as a fresh mount.
	viper.SetDefault("session.ttl_secs", 3600)

	viper.SetDefault("install.dir", installDir)
	viper.SetDefault("theme.path", filepath.Join(installDir, "internal"))

	viper.SetEnvPrefix("FLOWPIPE_FORM")
	viper.AutomaticEnv()
}
