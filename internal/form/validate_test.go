package form

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turbot/flowpipe-form/internal/types"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func textInput() types.FormInput {
	return types.FormInput{InputType: strPtr("text")}
}

func selectInput(values ...string) types.FormInput {
	input := types.FormInput{InputType: strPtr("select")}
	for _, v := range values {
		v := v
		input.Options = append(input.Options, types.FormInputOption{Value: &v})
	}
	return input
}

func multiSelectInput(values ...string) types.FormInput {
	input := types.FormInput{InputType: strPtr("multiselect")}
	for _, v := range values {
		v := v
		input.Options = append(input.Options, types.FormInputOption{Value: &v})
	}
	return input
}

func buttonInput(values ...string) types.FormInput {
	input := types.FormInput{InputType: strPtr("button")}
	for _, v := range values {
		v := v
		input.Options = append(input.Options, types.FormInputOption{Value: &v})
	}
	return input
}

func TestValidateText(t *testing.T) {
	assert := assert.New(t)

	inputs := map[string]types.FormInput{"answer": textInput()}

	// valid iff the scalar value is a non-empty string
	errs := Validate(inputs, types.FormValues{})
	assert.Equal("Enter a value.", errs["answer"])

	errs = Validate(inputs, types.FormValues{"answer": {""}})
	assert.Equal("Enter a value.", errs["answer"])

	errs = Validate(inputs, types.FormValues{"answer": {"hello"}})
	assert.Empty(errs)
}

func TestValidateSelect(t *testing.T) {
	assert := assert.New(t)

	inputs := map[string]types.FormInput{"choice": selectInput("a", "b")}

	errs := Validate(inputs, types.FormValues{})
	assert.Equal("Select a value.", errs["choice"])

	errs = Validate(inputs, types.FormValues{"choice": {""}})
	assert.Equal("Select a value.", errs["choice"])

	errs = Validate(inputs, types.FormValues{"choice": {"a"}})
	assert.Empty(errs)
}

func TestValidateMultiSelect(t *testing.T) {
	assert := assert.New(t)

	inputs := map[string]types.FormInput{"regions": multiSelectInput("a", "b", "c")}

	// valid iff the value sequence has length >= 1
	errs := Validate(inputs, types.FormValues{})
	assert.Equal("Select a value.", errs["regions"])

	errs = Validate(inputs, types.FormValues{"regions": {}})
	assert.Equal("Select a value.", errs["regions"])

	errs = Validate(inputs, types.FormValues{"regions": {"a"}})
	assert.Empty(errs)

	errs = Validate(inputs, types.FormValues{"regions": {"a", "c"}})
	assert.Empty(errs)
}

func TestValidateButton(t *testing.T) {
	assert := assert.New(t)

	// selection is the submission trigger, no pre-submit validation
	inputs := map[string]types.FormInput{"approval": buttonInput("yes", "no")}
	errs := Validate(inputs, types.FormValues{})
	assert.Empty(errs)
}

func TestValidateUnsupportedExcluded(t *testing.T) {
	assert := assert.New(t)

	inputs := map[string]types.FormInput{
		"weird":  {InputType: strPtr("checkbox")},
		"answer": textInput(),
	}

	errs := Validate(inputs, types.FormValues{"answer": {"x"}})
	assert.Empty(errs, "unsupported inputs are excluded from the submittable set")
}
