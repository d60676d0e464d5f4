package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type ChoiceKind int

const (
	ChoiceFreeText ChoiceKind = iota
	ChoiceMultiple
)

// Choice is one option of a multiple-choice exercise.
type Choice struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// ChoiceSet is the decoded form of an exercise options column: either an
// ordered list of key/text pairs or free text with no options.
type ChoiceSet struct {
	Kind    ChoiceKind
	Choices []Choice
}

func (c ChoiceSet) IsMultipleChoice() bool {
	return c.Kind == ChoiceMultiple
}

// Map returns the choices keyed by Key. Empty for free text.
func (c ChoiceSet) Map() map[string]string {
	out := make(map[string]string, len(c.Choices))
	for _, ch := range c.Choices {
		out[ch.Key] = ch.Text
	}
	return out
}

// MarshalJSON writes multiple choice as an object in stored key order and
// free text as an empty object.
func (c ChoiceSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ch := range c.Choices {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(ch.Key)
		if err != nil {
			return nil, err
		}
		text, err := json.Marshal(ch.Text)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(text)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads anything DecodeChoices accepts, so a marshalled
// ChoiceSet decodes back to itself.
func (c *ChoiceSet) UnmarshalJSON(raw []byte) error {
	*c = DecodeChoices(raw)
	return nil
}

// DecodeChoices accepts an object ({"A": "..."}), an array (keys become A, B,
// ...) or a JSON string containing either. Anything else, including an empty
// structure, is free text.
func DecodeChoices(raw []byte) ChoiceSet {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ChoiceSet{Kind: ChoiceFreeText}
	}

	switch raw[0] {
	case '"':
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return ChoiceSet{Kind: ChoiceFreeText}
		}
		inner = string(bytes.TrimSpace([]byte(inner)))
		if inner == "" || (inner[0] != '{' && inner[0] != '[') {
			return ChoiceSet{Kind: ChoiceFreeText}
		}
		return DecodeChoices([]byte(inner))
	case '{':
		choices, err := decodeObjectChoices(raw)
		if err != nil || len(choices) == 0 {
			return ChoiceSet{Kind: ChoiceFreeText}
		}
		return ChoiceSet{Kind: ChoiceMultiple, Choices: choices}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
			return ChoiceSet{Kind: ChoiceFreeText}
		}
		choices := make([]Choice, 0, len(items))
		for i, item := range items {
			choices = append(choices, Choice{Key: listKey(i), Text: scalarText(item)})
		}
		return ChoiceSet{Kind: ChoiceMultiple, Choices: choices}
	}

	return ChoiceSet{Kind: ChoiceFreeText}
}

// decodeObjectChoices walks the object token by token so key order survives.
func decodeObjectChoices(raw []byte) ([]Choice, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var choices []Choice
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", keyTok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		choices = append(choices, Choice{Key: key, Text: scalarText(value)})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return choices, nil
}

func scalarText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

// listKey maps 0 -> A, 25 -> Z, 26 -> AA.
func listKey(i int) string {
	key := ""
	for i >= 0 {
		key = string(rune('A'+i%26)) + key
		i = i/26 - 1
	}
	return key
}
