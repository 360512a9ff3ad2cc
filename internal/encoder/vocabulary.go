// Package encoder converts normalized records into a standardized feature matrix.
package encoder

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Encoding errors.
var (
	ErrUnseenCategory     = errors.New("category not present in fitted vocabulary")
	ErrCodeOutOfRange     = errors.New("code outside fitted vocabulary")
	ErrUnsortedVocabulary = errors.New("vocabulary values must be sorted and unique")
)

// Vocabulary is a fitted bijection between category values and integer codes.
// Codes are assigned in sorted order of the distinct observed values.
type Vocabulary struct {
	values []string
	index  map[string]int
}

// FitVocabulary builds a vocabulary from observed values.
func FitVocabulary(observed []string) *Vocabulary {
	seen := make(map[string]struct{}, len(observed))
	values := make([]string, 0, len(observed))

	for _, v := range observed {
		if _, ok := seen[v]; ok {
			continue
		}

		seen[v] = struct{}{}
		values = append(values, v)
	}

	sort.Strings(values)

	return newVocabulary(values)
}

func newVocabulary(values []string) *Vocabulary {
	index := make(map[string]int, len(values))
	for i, v := range values {
		index[v] = i
	}

	return &Vocabulary{values: values, index: index}
}

// Encode returns the code for value.
func (v *Vocabulary) Encode(value string) (int, error) {
	code, ok := v.index[value]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnseenCategory, value)
	}

	return code, nil
}

// Decode returns the value for code.
func (v *Vocabulary) Decode(code int) (string, error) {
	if code < 0 || code >= len(v.values) {
		return "", fmt.Errorf("%w: %d (size %d)", ErrCodeOutOfRange, code, len(v.values))
	}

	return v.values[code], nil
}

// Len returns the number of distinct values.
func (v *Vocabulary) Len() int {
	return len(v.values)
}

// Values returns a copy of the fitted values in code order.
func (v *Vocabulary) Values() []string {
	out := make([]string, len(v.values))
	copy(out, v.values)

	return out
}

// MarshalYAML writes the vocabulary as its ordered value list.
func (v *Vocabulary) MarshalYAML() (interface{}, error) {
	return v.values, nil
}

// UnmarshalYAML restores a vocabulary from its ordered value list.
func (v *Vocabulary) UnmarshalYAML(node *yaml.Node) error {
	var values []string
	if err := node.Decode(&values); err != nil {
		return err
	}

	return v.restore(values)
}

// MarshalJSON writes the vocabulary as its ordered value list.
func (v *Vocabulary) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.values)
}

// UnmarshalJSON restores a vocabulary from its ordered value list.
func (v *Vocabulary) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}

	return v.restore(values)
}

func (v *Vocabulary) restore(values []string) error {
	for i := 1; i < len(values); i++ {
		if values[i-1] >= values[i] {
			return fmt.Errorf("%w: %q before %q", ErrUnsortedVocabulary, values[i-1], values[i])
		}
	}

	if values == nil {
		values = []string{}
	}

	*v = *newVocabulary(values)

	return nil
}
