package family

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Codes is a list of reference codewords. In YAML and JSON each codeword is
// written as a hex string; decimal and 0b/0o prefixed strings are accepted
// on input.
type Codes []uint64

// ParseCode parses a codeword written in any base accepted by strconv with
// base 0 (0x, 0b, 0o prefixes or plain decimal).
func ParseCode(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid code %q: %w", s, err)
	}
	return v, nil
}

// FormatCode writes a codeword as a 0x prefixed hex string.
func FormatCode(c uint64) string {
	return "0x" + strconv.FormatUint(c, 16)
}

func (c Codes) strings() []string {
	out := make([]string, len(c))
	for i, v := range c {
		out[i] = FormatCode(v)
	}
	return out
}

func parseCodes(in []string) (Codes, error) {
	out := make(Codes, len(in))
	for i, s := range in {
		v, err := ParseCode(s)
		if err != nil {
			return nil, fmt.Errorf("code %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Codes) MarshalYAML() (interface{}, error) {
	return c.strings(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Codes) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: codes must be a list", value.Line)
	}
	raw := make([]string, 0, len(value.Content))
	for _, n := range value.Content {
		if n.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: code must be a scalar", n.Line)
		}
		raw = append(raw, n.Value)
	}
	parsed, err := parseCodes(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c Codes) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.strings())
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Codes) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := parseCodes(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
