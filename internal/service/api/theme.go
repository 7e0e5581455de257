package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turbot/flowpipe-form/internal/service/api/common"
	"github.com/turbot/flowpipe-form/internal/theme"
)

func (api *APIService) ThemeRegisterAPI(router *gin.Engine) {
	router.POST("/theme", api.setTheme)
}

// setTheme updates the process theme preference, last writer wins, and
// mirrors it into a cookie so the choice follows the browser. Redirects
// back to the referring form page when there is one.
func (api *APIService) setTheme(c *gin.Context) {
	name := c.PostForm("theme")
	if err := api.Theme.Set(name); err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.SetCookie(themeCookieName(), name, 365*24*3600, "/", "", false, false)

	if ref := c.Request.Referer(); ref != "" {
		c.Redirect(http.StatusSeeOther, ref)
		return
	}
	c.Status(http.StatusNoContent)
}

func themeCookieName() string {
	return theme.CookieName
}
