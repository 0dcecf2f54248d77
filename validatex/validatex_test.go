package validatex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	Name    string `validatex:"required,min=2,max=10"`
	Website string `validatex:"url"`
	Phone   string `validatex:"e164"`
	Age     int    `validatex:"min=0,max=150"`
}

func TestValidatePassing(t *testing.T) {
	err := Validate(profile{
		Name:    "Ada",
		Website: "https://example.com",
		Phone:   "+15551234567",
		Age:     36,
	})
	assert.NoError(t, err)
}

func TestValidateOptionalFieldsSkippedWhenEmpty(t *testing.T) {
	// Website and Phone carry no required rule, so zero values pass
	err := Validate(profile{Name: "Ada"})
	assert.NoError(t, err)
}

func TestValidateRequired(t *testing.T) {
	err := Validate(profile{})
	require.Error(t, err)

	var verrs Errors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "Name", verrs[0].Field)
	assert.Equal(t, "required", verrs[0].Rule)
}

func TestValidateAggregatesFailures(t *testing.T) {
	err := Validate(profile{
		Name:    "a",
		Website: "not a url",
		Phone:   "0abc",
	})
	require.Error(t, err)

	var verrs Errors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
}

func TestValidateURLRule(t *testing.T) {
	type link struct {
		URL string `validatex:"required,url"`
	}

	assert.NoError(t, Validate(link{URL: "https://cdn.example.com/a.png"}))
	assert.Error(t, Validate(link{URL: "example.com"}))
	assert.Error(t, Validate(link{URL: "not a url"}))
	assert.Error(t, Validate(link{URL: "https://nodots"}))
}

func TestValidateE164Rule(t *testing.T) {
	type phone struct {
		Number string `validatex:"required,e164"`
	}

	assert.NoError(t, Validate(phone{Number: "+15551234567"}))
	assert.NoError(t, Validate(phone{Number: "15551234567"}))
	assert.Error(t, Validate(phone{Number: "0123"}))
	assert.Error(t, Validate(phone{Number: "+1555123x567"}))
}

func TestValidateNumericRule(t *testing.T) {
	type id struct {
		Value string `validatex:"required,numeric"`
	}

	assert.NoError(t, Validate(id{Value: "123456"}))
	assert.Error(t, Validate(id{Value: "123abc"}))
}

func TestValidateSliceBounds(t *testing.T) {
	type batch struct {
		Items []string `validatex:"required,max=3"`
	}

	assert.NoError(t, Validate(batch{Items: []string{"a", "b", "c"}}))
	assert.Error(t, Validate(batch{Items: []string{"a", "b", "c", "d"}}))
	assert.Error(t, Validate(batch{}))
}

func TestValidateNestedSliceElements(t *testing.T) {
	type item struct {
		Label string `validatex:"required"`
	}
	type batch struct {
		Items []item `validatex:"required"`
	}

	assert.NoError(t, Validate(batch{Items: []item{{Label: "ok"}}}))

	err := Validate(batch{Items: []item{{Label: "ok"}, {}}})
	require.Error(t, err)

	var verrs Errors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "Items.Label", verrs[0].Field)
}

func TestValidateUnknownRule(t *testing.T) {
	type bad struct {
		Value string `validatex:"sparkles"`
	}
	err := Validate(bad{Value: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown validation rule")
}

func TestValidatePointerToStruct(t *testing.T) {
	assert.NoError(t, Validate(&profile{Name: "Ada"}))
	assert.Error(t, Validate(&profile{}))
}

func TestRegisterValidationFunc(t *testing.T) {
	RegisterValidationFunc("even", func(value any, _ string) bool {
		n, ok := value.(int)
		return ok && n%2 == 0
	})

	type counter struct {
		N int `validatex:"required,even"`
	}

	assert.NoError(t, Validate(counter{N: 4}))
	assert.Error(t, Validate(counter{N: 3}))
}
