package form

import (
	"github.com/turbot/flowpipe-form/internal/types"
)

// Validation messages are part of the form contract and must match the
// strings the Flowpipe UI has always shown.
const (
	msgEnterValue  = "Enter a value."
	msgSelectValue = "Select a value."
)

// Validate applies the type-specific rules to the current value set and
// returns one message per failing input. A form is valid iff the result is
// empty. Pure: recomputed on every value change and before every submit.
func Validate(inputs map[string]types.FormInput, values types.FormValues) map[string]string {
	errs := map[string]string{}

	for name, input := range inputs {
		switch input.Type() {
		case types.InputTypeText:
			if scalar(values[name]) == "" {
				errs[name] = msgEnterValue
			}
		case types.InputTypeSelect:
			if scalar(values[name]) == "" {
				errs[name] = msgSelectValue
			}
		case types.InputTypeMultiSelect:
			if len(values[name]) == 0 {
				errs[name] = msgSelectValue
			}
		case types.InputTypeButton:
			// choosing an option is the submission trigger, nothing to
			// validate beforehand
		case types.InputTypeUnsupported:
			// excluded from the submittable set, renders a terminal message
		}
	}

	return errs
}

func scalar(vs []string) string {
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}
