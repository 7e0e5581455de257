package theme

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/turbot/go-kit/helpers"

	"github.com/turbot/flowpipe-form/fperr"
	"github.com/turbot/flowpipe-form/internal/constants"
)

// The color theme is the one piece of process-wide state the form service
// keeps. It is read and written through a single Provider with
// last-writer-wins semantics and persisted under a fixed storage key so the
// preference survives restarts. It has no bearing on submission
// correctness.

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemeAuto  = "auto"

	// CookieName lets a browser override the process preference per
	// request.
	CookieName = "flowpipe_theme"
)

var validThemes = []string{ThemeLight, ThemeDark, ThemeAuto}

type Provider struct {
	mu   sync.RWMutex
	name string
	path string
}

// Init creates the provider, reading the persisted preference if one
// exists. There is no explicit teardown; the provider lives for the process.
func Init(dir string) (*Provider, error) {
	p := &Provider{
		name: ThemeAuto,
		path: filepath.Join(dir, constants.ThemeFileName),
	}

	if b, err := os.ReadFile(p.path); err == nil {
		name := strings.TrimSpace(string(b))
		if helpers.StringSliceContains(validThemes, name) {
			p.name = name
		}
	}

	return p, nil
}

func (p *Provider) Name() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.name
}

// Set updates the preference, last writer wins, and persists it.
func (p *Provider) Set(name string) error {
	if !helpers.StringSliceContains(validThemes, name) {
		return fperr.BadRequestWithMessage("unknown theme " + name)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.name = name

	return os.WriteFile(p.path, []byte(name), 0600)
}

// Resolve returns the effective theme for a request: the cookie override
// when valid, else the process preference.
func (p *Provider) Resolve(cookie string) string {
	if helpers.StringSliceContains(validThemes, cookie) {
		return cookie
	}
	return p.Name()
}
