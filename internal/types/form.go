package types

// The form data shapes here are the wire contract with the Flowpipe server.
// GET /api/v0/form/:id/:hash returns FormData, and the response_url it
// carries accepts a FormSubmission. Field names must round-trip unchanged.

// FormStatus is the workflow-side status of the input step the form belongs
// to. It is independent of the local submission state tracked per session.
type FormStatus string

const (
	FormStatusPending  FormStatus = "pending"
	FormStatusStarting FormStatus = "starting"
	FormStatusStarted  FormStatus = "started"
	FormStatusFinished FormStatus = "finished"
	FormStatusError    FormStatus = "error"
)

// IsTerminal reports whether the workflow no longer accepts a response for
// this input. Once terminal, the form renders a terminal view and rejects
// new submissions.
func (s FormStatus) IsTerminal() bool {
	return s == FormStatusFinished || s == FormStatusError
}

// ShowPrompt reports whether the input prompt should be displayed. The
// prompt is only meaningful while the step is waiting for a response.
func (s FormStatus) ShowPrompt() bool {
	return s == FormStatusStarting || s == FormStatusStarted
}

// InputType is the closed set of supported input controls. Untrusted wire
// values are decoded through ParseInputType; an unknown tag maps to
// InputTypeUnsupported, so every switch over InputType can be exhaustive.
type InputType int

const (
	InputTypeUnsupported InputType = iota
	InputTypeButton
	InputTypeText
	InputTypeSelect
	InputTypeMultiSelect
)

// ParseInputType decodes a wire input_type tag. combo/multicombo are
// accepted as aliases of select/multiselect.
func ParseInputType(raw string) InputType {
	switch raw {
	case "button":
		return InputTypeButton
	case "text":
		return InputTypeText
	case "select", "combo":
		return InputTypeSelect
	case "multiselect", "multicombo":
		return InputTypeMultiSelect
	default:
		return InputTypeUnsupported
	}
}

func (t InputType) String() string {
	switch t {
	case InputTypeButton:
		return "button"
	case InputTypeText:
		return "text"
	case InputTypeSelect:
		return "select"
	case InputTypeMultiSelect:
		return "multiselect"
	default:
		return "unsupported"
	}
}

// IsMulti reports whether the control accepts more than one value.
func (t InputType) IsMulti() bool {
	return t == InputTypeMultiSelect
}

// HasOptions reports whether the control is driven by a declared option
// list. For these types an empty option list is a malformed descriptor.
func (t InputType) HasOptions() bool {
	return t == InputTypeButton || t == InputTypeSelect || t == InputTypeMultiSelect
}

// FormData is the input descriptor for one pending input step, fetched once
// per mounted form session. The correlation identifiers are opaque and are
// echoed back verbatim on submission.
type FormData struct {
	ExecutionID         string               `json:"execution_id"`
	PipelineExecutionID string               `json:"pipeline_execution_id"`
	StepExecutionID     string               `json:"step_execution_id"`
	Status              FormStatus           `json:"status"`
	ResponseURL         string               `json:"response_url"`
	Inputs              map[string]FormInput `json:"inputs"`
}

type FormInput struct {
	Prompt    *string           `json:"prompt,omitempty"`
	InputType *string           `json:"input_type,omitempty"`
	Options   []FormInputOption `json:"options,omitempty"`
}

// Type decodes the wire input_type tag into the closed InputType set. A
// declared option-bearing type with no options is malformed and degrades to
// unsupported rather than aborting the whole form.
func (i FormInput) Type() InputType {
	t := ParseInputType(i.TypeName())
	if t.HasOptions() && len(i.Options) == 0 {
		return InputTypeUnsupported
	}
	return t
}

// TypeName returns the raw wire tag, used verbatim in the unsupported input
// type message.
func (i FormInput) TypeName() string {
	if i.InputType == nil {
		return ""
	}
	return *i.InputType
}

func (i FormInput) GetPrompt() string {
	if i.Prompt == nil {
		return ""
	}
	return *i.Prompt
}

// Submittable reports whether this input participates in the submitted
// value set. Unsupported inputs render a terminal message instead.
func (i FormInput) Submittable() bool {
	return i.Type() != InputTypeUnsupported
}

type FormInputOption struct {
	Label    *string `json:"label,omitempty"`
	Value    *string `json:"value,omitempty"`
	Selected *bool   `json:"selected,omitempty"`
	Style    *string `json:"style,omitempty"`
}

func (o FormInputOption) GetValue() string {
	if o.Value == nil {
		return ""
	}
	return *o.Value
}

// GetLabel falls back to the option value when no label was declared.
func (o FormInputOption) GetLabel() string {
	if o.Label == nil {
		return o.GetValue()
	}
	return *o.Label
}

func (o FormInputOption) IsSelected() bool {
	return o.Selected != nil && *o.Selected
}

func (o FormInputOption) GetStyle() string {
	if o.Style == nil {
		return "default"
	}
	return *o.Style
}

// FormValues maps input name to the chosen value sequence. Single-valued
// controls hold a singleton slice; an absent or empty slice means no value
// has been chosen yet.
type FormValues map[string][]string

// FormSubmission is the record posted to the one-shot response_url. Values
// is always a sequence, even for single-valued controls. Precondition is an
// extension point for conditional submission and is never populated today.
type FormSubmission struct {
	ExecutionID         string   `json:"execution_id"`
	PipelineExecutionID string   `json:"pipeline_execution_id"`
	StepExecutionID     string   `json:"step_execution_id"`
	Values              []string `json:"values"`
	Precondition        *string  `json:"precondition,omitempty"`
}

// InputIDHash binds the (id, hash) correlation pair from the page routes.
type InputIDHash struct {
	ID   string `uri:"id" binding:"required"`
	Hash string `uri:"hash" binding:"required"`
}
