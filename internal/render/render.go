package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"sort"

	"github.com/turbot/flowpipe-form/fperr"
	"github.com/turbot/flowpipe-form/internal/form"
	"github.com/turbot/flowpipe-form/internal/types"
)

//go:embed files/*.html
var templatesFs embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFs, "files/*.html"))

// Control kinds the dispatcher can produce. Every InputType maps to exactly
// one of these; unknown wire tags were already folded into unsupported at
// the parse boundary.
const (
	ControlButtons     = "buttons"
	ControlText        = "text"
	ControlSelect      = "select"
	ControlMultiSelect = "multiselect"
	ControlUnsupported = "unsupported"
)

type OptionView struct {
	Value    string
	Label    string
	Style    string
	Selected bool
}

type InputView struct {
	Name       string
	Prompt     string
	ShowPrompt bool
	Control    string
	Options    []OptionView
	Value      string
	Error      string
	Disabled   bool

	// UnsupportedMessage is the terminal message for inputs whose type is
	// unknown or whose descriptor is malformed.
	UnsupportedMessage string
}

type PageView struct {
	Theme      string
	Action     string
	SessionRef string
	AutoSubmit bool

	// workflow-side terminal banners
	AlreadyResponded bool
	FailedState      bool

	// local submission state
	Submitting bool
	Responded  bool
	Error      string

	Valid      bool
	Inputs     []InputView
	ShowSubmit bool
}

// BuildInput maps one declared input to its interactive control: buttons
// act per option and submit immediately, text renders a single-line field,
// select/multiselect render pickers over the declared options in
// declaration order. Unsupported types render static error text and no
// control.
func BuildInput(name string, input types.FormInput, values []string, fieldErr string, showPrompt bool, disabled bool) InputView {
	v := InputView{
		Name:       name,
		Prompt:     input.GetPrompt(),
		ShowPrompt: showPrompt,
		Error:      fieldErr,
		Disabled:   disabled,
	}

	switch input.Type() {
	case types.InputTypeButton:
		v.Control = ControlButtons
		v.Options = optionViews(input, values)
	case types.InputTypeText:
		v.Control = ControlText
		if len(values) > 0 {
			v.Value = values[0]
		}
	case types.InputTypeSelect:
		v.Control = ControlSelect
		v.Options = optionViews(input, values)
	case types.InputTypeMultiSelect:
		v.Control = ControlMultiSelect
		v.Options = optionViews(input, values)
	case types.InputTypeUnsupported:
		v.Control = ControlUnsupported
		v.UnsupportedMessage = fmt.Sprintf("Unsupported input type %s", input.TypeName())
	}

	return v
}

func optionViews(input types.FormInput, values []string) []OptionView {
	chosen := map[string]bool{}
	for _, val := range values {
		chosen[val] = true
	}

	out := make([]OptionView, 0, len(input.Options))
	for _, o := range input.Options {
		out = append(out, OptionView{
			Value:    o.GetValue(),
			Label:    o.GetLabel(),
			Style:    o.GetStyle(),
			Selected: chosen[o.GetValue()],
		})
	}
	return out
}

// BuildPage assembles the full page view for a mounted session. Controls
// are disabled while submitting, once responded, and whenever the
// descriptor itself is terminal. A workflow-side finished status forces the
// already-responded banner regardless of local state.
func BuildPage(s *form.Session, theme, action, sessionRef string) PageView {
	f := s.Form()
	status := s.Status()
	fieldErrors := s.FieldErrors()
	values := s.Values()

	disabled := status == form.StatusSubmitting ||
		status == form.StatusResponded ||
		f.Status.IsTerminal()

	page := PageView{
		Theme:            theme,
		Action:           action,
		SessionRef:       sessionRef,
		AutoSubmit:       s.AutoSubmit(),
		AlreadyResponded: f.Status == types.FormStatusFinished,
		FailedState:      f.Status == types.FormStatusError,
		Submitting:       status == form.StatusSubmitting,
		Responded:        status == form.StatusResponded,
		Valid:            len(fieldErrors) == 0,
	}
	if e := s.Err(); e != nil {
		page.Error = e.Message()
	}

	showSubmit := false
	for _, name := range sortedInputNames(f.Inputs) {
		input := f.Inputs[name]
		page.Inputs = append(page.Inputs, BuildInput(name, input, values[name], fieldErrors[name], f.Status.ShowPrompt(), disabled))

		// button inputs are their own submit affordance
		switch input.Type() {
		case types.InputTypeText, types.InputTypeSelect, types.InputTypeMultiSelect:
			showSubmit = true
		}
	}
	page.ShowSubmit = showSubmit && !disabled

	return page
}

func sortedInputNames(inputs map[string]types.FormInput) []string {
	names := make([]string, 0, len(inputs))
	for name := range inputs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ErrorPage is the terminal view for a failed descriptor fetch.
func ErrorPage(theme string, err error) PageView {
	e := fperr.FromError(err)
	return PageView{
		Theme: theme,
		Error: e.Message(),
	}
}

// HTML writes the rendered page.
func HTML(w io.Writer, page PageView) error {
	return pageTemplate.ExecuteTemplate(w, "form.html", page)
}
