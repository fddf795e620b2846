package rates

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// NumAgeBuckets is the length of a per-age rate array
const NumAgeBuckets = 5

// NotApplicable is the stored sentinel meaning the cover is unavailable for that bucket
var NotApplicable = decimal.NewFromInt(-1)

// RateValue is either a single rate for every age bucket or one rate per bucket.
// Rates are fractions of sum insured.
type RateValue []decimal.Decimal

// Scalar builds a value applying to every age bucket
func Scalar(rate float64) RateValue {
	return RateValue{decimal.NewFromFloat(rate)}
}

// PerAge builds a value with one rate per age bucket
func PerAge(r0, r1, r2, r3, r4 float64) RateValue {
	return RateValue{
		decimal.NewFromFloat(r0),
		decimal.NewFromFloat(r1),
		decimal.NewFromFloat(r2),
		decimal.NewFromFloat(r3),
		decimal.NewFromFloat(r4),
	}
}

// At returns the stored rate for an age bucket
func (v RateValue) At(bucket int) (decimal.Decimal, bool) {
	switch len(v) {
	case 1:
		return v[0], true
	case NumAgeBuckets:
		if bucket < 0 || bucket >= NumAgeBuckets {
			return decimal.Zero, false
		}
		return v[bucket], true
	}
	return decimal.Zero, false
}

// Validate checks the shape and that every entry is a non-negative rate or the sentinel
func (v RateValue) Validate() error {
	if len(v) != 1 && len(v) != NumAgeBuckets {
		return fmt.Errorf("rate must be a single value or %d values, got %d", NumAgeBuckets, len(v))
	}
	for i, r := range v {
		if r.IsNegative() && !r.Equal(NotApplicable) {
			return fmt.Errorf("rate at index %d is negative (%s); use -1 for not applicable", i, r.String())
		}
	}
	return nil
}

// Scale multiplies every real rate by factor, keeping sentinels intact
func (v RateValue) Scale(factor decimal.Decimal) RateValue {
	out := make(RateValue, len(v))
	for i, r := range v {
		if r.Equal(NotApplicable) {
			out[i] = r
			continue
		}
		out[i] = r.Mul(factor)
	}
	return out
}

// UnmarshalYAML accepts a scalar or a sequence
func (v *RateValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		d, err := decimal.NewFromString(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: invalid rate %q: %w", node.Line, node.Value, err)
		}
		*v = RateValue{d}
		return nil
	case yaml.SequenceNode:
		out := make(RateValue, 0, len(node.Content))
		for _, item := range node.Content {
			d, err := decimal.NewFromString(item.Value)
			if err != nil {
				return fmt.Errorf("line %d: invalid rate %q: %w", item.Line, item.Value, err)
			}
			out = append(out, d)
		}
		*v = out
		return nil
	}
	return fmt.Errorf("line %d: rate must be a number or a list of numbers", node.Line)
}

// MarshalYAML emits a bare number for scalar values, keeping full precision
func (v RateValue) MarshalYAML() (interface{}, error) {
	if len(v) == 1 {
		return rateNode(v[0]), nil
	}
	seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, r := range v {
		seq.Content = append(seq.Content, rateNode(r))
	}
	return seq, nil
}

func rateNode(r decimal.Decimal) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: r.String()}
}

// UnmarshalJSON accepts a number, a numeric string or an array of either
func (v *RateValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []decimal.Decimal
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("invalid rate array: %w", err)
		}
		*v = items
		return nil
	}
	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("invalid rate: %w", err)
	}
	*v = RateValue{d}
	return nil
}

// MarshalJSON emits a bare number for scalar values
func (v RateValue) MarshalJSON() ([]byte, error) {
	if len(v) == 1 {
		return []byte(v[0].String()), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, r := range v {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(r.String())
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
