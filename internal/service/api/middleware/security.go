package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/unrolled/secure"
)

func SecurityMiddleware(ctx context.Context) gin.HandlerFunc {
	options := secure.Options{
		// In development, many options are turned off automatically
		IsDevelopment: viper.GetString("environment") != "release",

		SSLRedirect:          false,
		SSLTemporaryRedirect: false,
		SSLHost:              viper.GetString("web.secure.ssl_host"),

		// Set HSTS header, telling the browser to always use SSL. 1 year expiration.
		STSSeconds:           31536000,
		STSIncludeSubdomains: true,
		STSPreload:           true,

		// Only allow the site in a frame within it's own domain
		CustomFrameOptionsValue: "SAMEORIGIN",

		// Tell the browser the MIME type is accurate, no need to sniff or change it
		ContentTypeNosniff: true,

		ReferrerPolicy: "strict-origin-when-cross-origin",

		PermissionsPolicy: "geolocation 'self'",
	}

	slog.Debug("Security middleware options", "IsDevelopment", options.IsDevelopment, "SSLHost", options.SSLHost)

	secureMiddleware := secure.New(options)

	return func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		// If there was an error, do not continue.
		if err != nil {
			c.Abort()
			return
		}
		// Avoid header rewrite if response is a redirection.
		if status := c.Writer.Status(); status > 300 && status < 399 {
			c.Abort()
		}
	}
}
