package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeChoicesObjectKeepsOrder(t *testing.T) {
	set := DecodeChoices([]byte(`{"C": "third", "A": "first", "B": "second"}`))

	require.True(t, set.IsMultipleChoice())
	assert.Equal(t, []Choice{
		{Key: "C", Text: "third"},
		{Key: "A", Text: "first"},
		{Key: "B", Text: "second"},
	}, set.Choices)
}

func TestDecodeChoicesList(t *testing.T) {
	set := DecodeChoices([]byte(`["print()", "echo", 42]`))

	require.True(t, set.IsMultipleChoice())
	assert.Equal(t, []Choice{
		{Key: "A", Text: "print()"},
		{Key: "B", Text: "echo"},
		{Key: "C", Text: "42"},
	}, set.Choices)
}

func TestDecodeChoicesStringEncoded(t *testing.T) {
	set := DecodeChoices([]byte(`"{\"A\": \"yes\", \"B\": \"no\"}"`))

	require.True(t, set.IsMultipleChoice())
	assert.Equal(t, map[string]string{"A": "yes", "B": "no"}, set.Map())
}

func TestDecodeChoicesFreeText(t *testing.T) {
	cases := map[string]string{
		"empty":        ``,
		"null":         `null`,
		"empty object": `{}`,
		"empty list":   `[]`,
		"plain string": `"just text"`,
		"number":       `12`,
		"broken":       `{"A":`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			set := DecodeChoices([]byte(raw))
			assert.False(t, set.IsMultipleChoice())
			assert.Empty(t, set.Choices)
		})
	}
}

func TestChoiceSetMarshalJSON(t *testing.T) {
	set := DecodeChoices([]byte(`{"B": "b", "A": "a"}`))
	out, err := json.Marshal(set)
	require.NoError(t, err)
	assert.Equal(t, `{"B":"b","A":"a"}`, string(out))

	out, err = json.Marshal(ChoiceSet{Kind: ChoiceFreeText})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))
}

func TestListKey(t *testing.T) {
	assert.Equal(t, "A", listKey(0))
	assert.Equal(t, "Z", listKey(25))
	assert.Equal(t, "AA", listKey(26))
}

func TestChoiceSetSurvivesCacheRoundTrip(t *testing.T) {
	type cached struct {
		Options ChoiceSet `json:"options"`
	}
	in := cached{Options: DecodeChoices([]byte(`["x","y"]`))}
	raw, err := json.Marshal(in)
	require.NoError(t, err)

	var out cached
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in.Options, out.Options)
}
