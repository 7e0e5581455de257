package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/turbot/flowpipe-form/fperr"
	"github.com/turbot/flowpipe-form/internal/cache"
	"github.com/turbot/flowpipe-form/internal/constants"
	"github.com/turbot/flowpipe-form/internal/theme"
	"github.com/turbot/flowpipe-form/internal/types"
)

type fakeFormAPI struct {
	mu      sync.Mutex
	form    *types.FormData
	getErr  error
	subErr  error
	submits []types.FormSubmission
}

func (f *fakeFormAPI) GetFormData(ctx context.Context, id, hash string) (*types.FormData, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.form, nil
}

func (f *fakeFormAPI) SubmitForm(ctx context.Context, responseURL string, submission types.FormSubmission) (*types.FormData, error) {
	f.mu.Lock()
	f.submits = append(f.submits, submission)
	f.mu.Unlock()
	return nil, f.subErr
}

func (f *fakeFormAPI) submitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submits)
}

func strPtr(s string) *string { return &s }

func newTestRouter(t *testing.T, upstream *fakeFormAPI) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cache.InMemoryInitialize(nil)
	cache.GetCache().Set(constants.SaltCacheKey, "746573742d73616c74")
	viper.Set("session.ttl_secs", 3600)

	provider, err := theme.Init(t.TempDir())
	assert.Nil(t, err)

	svc, err := NewAPIService(context.Background(), upstream, provider)
	assert.Nil(t, err)

	router := gin.New()
	svc.FormRegisterAPI(router)
	svc.ThemeRegisterAPI(router)
	return router
}

func startedDescriptor(inputs map[string]types.FormInput) *types.FormData {
	return &types.FormData{
		ExecutionID:         "exec_1",
		PipelineExecutionID: "pexec_1",
		StepExecutionID:     "sexec_1",
		Status:              types.FormStatusStarted,
		ResponseURL:         "http://localhost:7103/api/v0/form/abc123de/f00d/submit",
		Inputs:              inputs,
	}
}

var sessionRefRe = regexp.MustCompile(`name="session" value="([^"]+)"`)

func sessionRef(t *testing.T, body string) string {
	t.Helper()
	m := sessionRefRe.FindStringSubmatch(body)
	if len(m) != 2 {
		t.Fatal("no session reference in rendered page")
	}
	return m[1]
}

func TestGetFormRendersPage(t *testing.T) {
	assert := assert.New(t)

	upstream := &fakeFormAPI{form: startedDescriptor(map[string]types.FormInput{
		"region": {
			InputType: strPtr("select"),
			Prompt:    strPtr("Choose a region"),
			Options: []types.FormInputOption{
				{Value: strPtr("us-east-1")},
				{Value: strPtr("us-west-2")},
			},
		},
	})}
	router := newTestRouter(t, upstream)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/form/abc123de/f00d", nil)
	router.ServeHTTP(w, req)

	assert.Equal(http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(body, "Choose a region")
	assert.Contains(body, "us-east-1")
	assert.NotEmpty(sessionRef(t, body))
	assert.Equal(0, upstream.submitCount(), "a plain page load never submits")
}

func TestGetFormNotFound(t *testing.T) {
	assert := assert.New(t)

	upstream := &fakeFormAPI{getErr: fperr.NotFoundWithMessage("input not found")}
	router := newTestRouter(t, upstream)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/form/nope/nope", nil)
	router.ServeHTTP(w, req)

	assert.Equal(http.StatusNotFound, w.Code)
	assert.Contains(w.Body.String(), "input not found")
}

func TestPostFormSubmits(t *testing.T) {
	assert := assert.New(t)

	upstream := &fakeFormAPI{form: startedDescriptor(map[string]types.FormInput{
		"answer": {InputType: strPtr("text"), Prompt: strPtr("Say something")},
	})}
	router := newTestRouter(t, upstream)

	// mount first to obtain the session reference
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form/abc123de/f00d", nil))
	ref := sessionRef(t, w.Body.String())

	form := url.Values{"session": {ref}, "answer": {"hello"}}
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/form/abc123de/f00d", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	assert.Equal(http.StatusOK, w.Code)
	assert.Contains(w.Body.String(), "Input response sent")

	assert.Equal(1, upstream.submitCount())
	assert.Equal([]string{"hello"}, upstream.submits[0].Values)
	assert.Equal("exec_1", upstream.submits[0].ExecutionID)
}

func TestPostFormInvalidValuesRerenders(t *testing.T) {
	assert := assert.New(t)

	upstream := &fakeFormAPI{form: startedDescriptor(map[string]types.FormInput{
		"answer": {InputType: strPtr("text")},
	})}
	router := newTestRouter(t, upstream)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form/abc123de/f00d", nil))
	ref := sessionRef(t, w.Body.String())

	form := url.Values{"session": {ref}, "answer": {""}}
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/form/abc123de/f00d", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	assert.Equal(http.StatusOK, w.Code)
	assert.Contains(w.Body.String(), "Enter a value.")
	assert.Equal(0, upstream.submitCount())
}

func TestPostFormStaleSessionRemounts(t *testing.T) {
	assert := assert.New(t)

	upstream := &fakeFormAPI{form: startedDescriptor(map[string]types.FormInput{
		"answer": {InputType: strPtr("text")},
	})}
	router := newTestRouter(t, upstream)

	// a tampered or expired reference is treated as a fresh mount
	form := url.Values{"session": {"fses_bogus.deadbeef"}, "answer": {"hello"}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/form/abc123de/f00d", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	assert.Equal(http.StatusOK, w.Code)
	assert.Contains(w.Body.String(), "Input response sent")
	assert.Equal(1, upstream.submitCount())
}

func TestPostFormButtonClickSubmitsOptionValue(t *testing.T) {
	assert := assert.New(t)

	upstream := &fakeFormAPI{form: startedDescriptor(map[string]types.FormInput{
		"approval": {
			InputType: strPtr("button"),
			Prompt:    strPtr("Approve?"),
			Options: []types.FormInputOption{
				{Value: strPtr("yes"), Label: strPtr("Approve")},
				{Value: strPtr("no"), Label: strPtr("Reject")},
			},
		},
	})}
	router := newTestRouter(t, upstream)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form/abc123de/f00d", nil))
	ref := sessionRef(t, w.Body.String())

	form := url.Values{"session": {ref}, "approval": {"yes"}}
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/form/abc123de/f00d", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	assert.Equal(http.StatusOK, w.Code)
	assert.Equal(1, upstream.submitCount())
	assert.Equal([]string{"yes"}, upstream.submits[0].Values)
}

func TestGetInputAutoSubmits(t *testing.T) {
	assert := assert.New(t)

	upstream := &fakeFormAPI{form: startedDescriptor(map[string]types.FormInput{
		"choice": {
			InputType: strPtr("select"),
			Options: []types.FormInputOption{
				{Value: strPtr("a"), Selected: boolPtr(true)},
			},
		},
	})}
	router := newTestRouter(t, upstream)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/input/abc123de/f00d", nil))

	assert.Equal(http.StatusOK, w.Code)
	assert.Contains(w.Body.String(), "Input response sent")
	assert.Equal(1, upstream.submitCount())
	assert.Equal([]string{"a"}, upstream.submits[0].Values)
}

func TestGetInputAutoSubmitInvalid(t *testing.T) {
	assert := assert.New(t)

	upstream := &fakeFormAPI{form: startedDescriptor(map[string]types.FormInput{
		"answer": {InputType: strPtr("text")},
	})}
	router := newTestRouter(t, upstream)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/input/abc123de/f00d", nil))

	assert.Equal(http.StatusOK, w.Code)
	assert.Contains(w.Body.String(), "Invalid form values")
	assert.Equal(0, upstream.submitCount())
}

func TestGetFormQueryOverrides(t *testing.T) {
	assert := assert.New(t)

	upstream := &fakeFormAPI{form: startedDescriptor(map[string]types.FormInput{
		"regions": {
			InputType: strPtr("multiselect"),
			Options: []types.FormInputOption{
				{Value: strPtr("a")},
				{Value: strPtr("b")},
				{Value: strPtr("c")},
			},
		},
	})}
	router := newTestRouter(t, upstream)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form/abc123de/f00d?regions=a,c", nil))

	assert.Equal(http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(body, `value="a" selected`)
	assert.Contains(body, `value="c" selected`)
	assert.NotContains(body, `value="b" selected`)
}

func TestOriginalRouteShape(t *testing.T) {
	assert := assert.New(t)

	upstream := &fakeFormAPI{form: startedDescriptor(map[string]types.FormInput{
		"answer": {InputType: strPtr("text"), Prompt: strPtr("Say something")},
	})}
	router := newTestRouter(t, upstream)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/abc123de/f00d", nil))

	assert.Equal(http.StatusOK, w.Code)
	assert.Contains(w.Body.String(), "Say something")
}

func TestPostTheme(t *testing.T) {
	assert := assert.New(t)

	upstream := &fakeFormAPI{}
	router := newTestRouter(t, upstream)

	form := url.Values{"theme": {"dark"}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/theme", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", "/form/abc123de/f00d")
	router.ServeHTTP(w, req)

	assert.Equal(http.StatusSeeOther, w.Code)
	assert.Contains(w.Header().Get("Set-Cookie"), theme.CookieName+"=dark")
}

func boolPtr(b bool) *bool { return &b }
