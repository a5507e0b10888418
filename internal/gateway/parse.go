package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var errEmptyResponse = errors.New("empty response from model")

// encodeDataset serializes records as compact JSON and cuts the result to at
// most maxBytes without splitting a UTF-8 sequence. maxBytes <= 0 disables
// the cap.
func encodeDataset(records []Record, maxBytes int) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if records == nil {
		records = []Record{}
	}
	if err := enc.Encode(records); err != nil {
		return "", fmt.Errorf("encoding dataset: %w", err)
	}
	data := bytes.TrimRight(buf.Bytes(), "\n")
	if maxBytes <= 0 || len(data) <= maxBytes {
		return string(data), nil
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(data[cut]) {
		cut--
	}
	return string(data[:cut]), nil
}

// truncateRunes keeps at most n characters of s.
func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// extractJSON strips markdown fences and returns the outermost {...} span.
func extractJSON(text string) (string, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return "", errEmptyResponse
	}
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("no JSON object in response")
	}
	return s[start : end+1], nil
}

// parseEnvelope decodes {"results": [...], "<noteKey>": "..."} and rejects
// missing or ill-typed fields.
func parseEnvelope(text, noteKey string) ([]any, string, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return nil, "", err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, "", fmt.Errorf("decoding response: %w", err)
	}

	rawResults, ok := fields["results"]
	if !ok {
		return nil, "", fmt.Errorf("response missing %q", "results")
	}
	var results []any
	if err := json.Unmarshal(rawResults, &results); err != nil || results == nil {
		return nil, "", fmt.Errorf("response field %q is not an array", "results")
	}

	rawNote, ok := fields[noteKey]
	if !ok {
		return nil, "", fmt.Errorf("response missing %q", noteKey)
	}
	var note string
	if err := json.Unmarshal(rawNote, &note); err != nil {
		return nil, "", fmt.Errorf("response field %q is not a string", noteKey)
	}
	return results, note, nil
}

// reconcile maps upstream results back onto dataset records, first by
// canonical JSON equality and then by id. Entries matching nothing are
// dropped; repeats of an already returned record are skipped.
func reconcile(upstream []any, dataset []Record) ([]Record, int) {
	byValue := make(map[string]int, len(dataset))
	byID := make(map[string]int, len(dataset))
	for i, rec := range dataset {
		if key, ok := canonical(rec); ok {
			if _, seen := byValue[key]; !seen {
				byValue[key] = i
			}
		}
		if id, ok := rec["id"]; ok {
			if key, ok := canonical(id); ok {
				if _, seen := byID[key]; !seen {
					byID[key] = i
				}
			}
		}
	}

	out := make([]Record, 0, len(upstream))
	used := make(map[int]bool, len(upstream))
	dropped := 0
	for _, item := range upstream {
		idx, ok := matchRecord(item, byValue, byID)
		if !ok {
			dropped++
			continue
		}
		if used[idx] {
			continue
		}
		used[idx] = true
		out = append(out, dataset[idx])
	}
	return out, dropped
}

func matchRecord(item any, byValue, byID map[string]int) (int, bool) {
	if key, ok := canonical(item); ok {
		if idx, ok := byValue[key]; ok {
			return idx, true
		}
	}
	obj, ok := item.(map[string]any)
	if !ok {
		return 0, false
	}
	id, ok := obj["id"]
	if !ok {
		return 0, false
	}
	key, ok := canonical(id)
	if !ok {
		return 0, false
	}
	idx, ok := byID[key]
	return idx, ok
}

// canonical renders v as JSON with sorted object keys, so that int and
// float64 forms of the same number compare equal.
func canonical(v any) (string, bool) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(data), true
}
