package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// QAPair is one generated question with its answer.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ParsedQAPair is one element of the generated array. Err is set when the
// element is not an object with non-empty string "question" and "answer".
type ParsedQAPair struct {
	QAPair
	Err error
}

// ParseQAPairs decodes model output that was asked to be a JSON array of
// {"question","answer"} objects. A surrounding markdown code fence is tolerated.
// Output that is not a non-empty JSON array yields a *ParseError; a malformed
// element only sets Err on its own entry.
func ParseQAPairs(raw string) ([]ParsedQAPair, error) {
	body := stripCodeFence(strings.TrimSpace(raw))
	if !strings.HasPrefix(body, "[") {
		return nil, &ParseError{What: "qa pairs", Raw: raw, Err: errors.New("output is not a JSON array")}
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		return nil, &ParseError{What: "qa pairs", Raw: raw, Err: err}
	}
	if len(items) == 0 {
		return nil, &ParseError{What: "qa pairs", Raw: raw, Err: errors.New("array is empty")}
	}

	pairs := make([]ParsedQAPair, len(items))
	for i, item := range items {
		pair, err := decodeQAPair(item)
		if err != nil {
			pairs[i].Err = &ParseError{What: fmt.Sprintf("qa pair %d", i), Raw: string(item), Err: err}
			continue
		}
		pairs[i].QAPair = pair
	}
	return pairs, nil
}

func decodeQAPair(item json.RawMessage) (QAPair, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
		return QAPair{}, errors.New("item is not an object")
	}
	var pair QAPair
	if err := decodeStringField(fields, "question", &pair.Question); err != nil {
		return QAPair{}, err
	}
	if err := decodeStringField(fields, "answer", &pair.Answer); err != nil {
		return QAPair{}, err
	}
	return pair, nil
}

func decodeStringField(item map[string]json.RawMessage, key string, dst *string) error {
	value, ok := item[key]
	if !ok {
		return fmt.Errorf("missing %q", key)
	}
	if err := json.Unmarshal(value, dst); err != nil {
		return fmt.Errorf("%q is not a string", key)
	}
	*dst = strings.TrimSpace(*dst)
	if *dst == "" {
		return fmt.Errorf("%q is empty", key)
	}
	return nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
