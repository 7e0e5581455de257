package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"

	"github.com/turbot/flowpipe-form/fperr"
	"github.com/turbot/flowpipe-form/internal/cache"
	"github.com/turbot/flowpipe-form/internal/form"
	"github.com/turbot/flowpipe-form/internal/render"
	"github.com/turbot/flowpipe-form/internal/service/api/common"
	"github.com/turbot/flowpipe-form/internal/types"
	"github.com/turbot/flowpipe-form/internal/util"
)

func (api *APIService) FormRegisterAPI(router *gin.Engine) {
	// form variant: explicit submit affordance
	router.GET("/form/:id/:hash", api.getForm)
	router.POST("/form/:id/:hash", api.postForm)

	// input variant: auto-submit presentation path
	router.GET("/input/:id/:hash", api.getInput)
	router.POST("/input/:id/:hash", api.postInput)

	// original route shape for the form variant
	router.GET("/:id/:hash", api.getForm)
	router.POST("/:id/:hash", api.postForm)
}

func (api *APIService) getForm(c *gin.Context) {
	api.mountForm(c, false)
}

func (api *APIService) getInput(c *gin.Context) {
	api.mountForm(c, true)
}

func (api *APIService) postForm(c *gin.Context) {
	api.submitForm(c, false)
}

func (api *APIService) postInput(c *gin.Context) {
	api.submitForm(c, true)
}

// mountForm handles the page GET: fetch the descriptor once, derive the
// initial values from the query string and the declared options, validate
// on mount and render. Fetch failure renders the error and stops; there is
// no retry loop.
func (api *APIService) mountForm(c *gin.Context, autoSubmit bool) {
	var uri types.InputIDHash
	if err := c.ShouldBindUri(&uri); err != nil {
		common.AbortWithError(c, err)
		return
	}

	themeName := api.requestTheme(c)

	formData, err := api.Client.GetFormData(c.Request.Context(), uri.ID, uri.Hash)
	if err != nil {
		api.renderError(c, themeName, err)
		return
	}

	var opts []form.SessionOption
	if autoSubmit {
		opts = append(opts, form.WithAutoSubmit())
	}
	sess := form.NewSession(formData, c.Request.URL.Query(), api.Client, opts...)

	ref, err := api.storeSession(sess)
	if err != nil {
		api.renderError(c, themeName, err)
		return
	}

	if autoSubmit {
		sess.MaybeAutoSubmit(c.Request.Context())
	}

	api.renderSession(c, sess, themeName, ref)
}

// submitForm handles the page POST: look up the mounted session, apply the
// posted values in order, validate and drive the submission state machine.
// An expired or unknown session reference is treated as a fresh mount.
func (api *APIService) submitForm(c *gin.Context, autoSubmit bool) {
	var uri types.InputIDHash
	if err := c.ShouldBindUri(&uri); err != nil {
		common.AbortWithError(c, err)
		return
	}

	themeName := api.requestTheme(c)

	sess := api.lookupSession(c.PostForm("session"))
	if sess == nil {
		formData, err := api.Client.GetFormData(c.Request.Context(), uri.ID, uri.Hash)
		if err != nil {
			api.renderError(c, themeName, err)
			return
		}
		var opts []form.SessionOption
		if autoSubmit {
			opts = append(opts, form.WithAutoSubmit())
		}
		sess = form.NewSession(formData, nil, api.Client, opts...)
	}

	ref, err := api.storeSession(sess)
	if err != nil {
		api.renderError(c, themeName, err)
		return
	}

	sess.SetValues(postedValues(c, sess))
	sess.Submit(c.Request.Context())

	api.renderSession(c, sess, themeName, ref)
}

// postedValues collects the value-changed events carried by the form POST.
// A multiselect with nothing chosen posts no field, which means cleared;
// button, text and select values only apply when present, so a button click
// never clears sibling inputs.
func postedValues(c *gin.Context, sess *form.Session) types.FormValues {
	values := types.FormValues{}
	for name, input := range sess.Form().Inputs {
		switch input.Type() {
		case types.InputTypeMultiSelect:
			values[name] = c.PostFormArray(name)
		case types.InputTypeButton, types.InputTypeText, types.InputTypeSelect:
			if v, ok := c.GetPostForm(name); ok {
				values[name] = []string{v}
			}
		case types.InputTypeUnsupported:
			// excluded from the submittable set
		}
	}
	return values
}

func (api *APIService) renderSession(c *gin.Context, sess *form.Session, themeName, ref string) {
	page := render.BuildPage(sess, themeName, c.Request.URL.Path, ref)

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := render.HTML(c.Writer, page); err != nil {
		slog.Error("error rendering form page", "error", err)
	}
}

func (api *APIService) renderError(c *gin.Context, themeName string, err error) {
	e := fperr.FromError(err)
	page := render.ErrorPage(themeName, e)

	c.Status(e.Status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if rerr := render.HTML(c.Writer, page); rerr != nil {
		slog.Error("error rendering error page", "error", rerr)
	}
}

func (api *APIService) requestTheme(c *gin.Context) string {
	cookie, _ := c.Cookie(themeCookieName())
	return api.Theme.Resolve(cookie)
}

// storeSession keeps the session for the follow-up POST and returns the
// signed reference round-tripped through the browser. The signature stops a
// tampered reference from ever resolving to a session.
func (api *APIService) storeSession(sess *form.Session) (string, error) {
	salt, err := util.GetGlobalSalt()
	if err != nil {
		return "", err
	}
	sig, err := util.CalculateHash(sess.ID(), salt)
	if err != nil {
		return "", fperr.InternalWithMessage("error calculating hash")
	}

	ttl := time.Duration(viper.GetInt("session.ttl_secs")) * time.Second
	cache.GetSessionCache().SetWithTTL(sess.ID(), sess, ttl)

	return sess.ID() + "." + sig, nil
}

func (api *APIService) lookupSession(ref string) *form.Session {
	parts := strings.Split(ref, ".")
	if len(parts) != 2 {
		return nil
	}
	id, sig := parts[0], parts[1]

	salt, err := util.GetGlobalSalt()
	if err != nil {
		return nil
	}
	expected, err := util.CalculateHash(id, salt)
	if err != nil || expected != sig {
		return nil
	}

	cached, ok := cache.GetSessionCache().Get(id)
	if !ok {
		return nil
	}
	sess, ok := cached.(*form.Session)
	if !ok {
		return nil
	}
	return sess
}
