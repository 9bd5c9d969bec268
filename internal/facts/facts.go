package facts

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ID names one of the seventeen landing-page measurements
type ID string

const (
	CTAPositionY               ID = "cta_position_y"
	CTAWidth                   ID = "cta_width"
	CTAHeight                  ID = "cta_height"
	ContrastRatio              ID = "contrast_ratio"
	WhitespaceAroundCTA        ID = "whitespace_around_cta"
	ScrollDepth                ID = "scroll_depth"
	CTAClickRate               ID = "cta_click_rate"
	NumberOfCTAs               ID = "number_of_ctas"
	CTATextLength              ID = "cta_text_length"
	TimeToCTA                  ID = "time_to_cta"
	ClickableElementsBeforeCTA ID = "clickable_elements_before_cta"
	ContentWordCount           ID = "content_word_count"
	SimilarColorElements       ID = "similar_color_elements"
	LargestOtherElementSize    ID = "largest_other_element_size"
	CTAMobileWidth             ID = "cta_mobile_width"
	CTAMobileHeight            ID = "cta_mobile_height"
	HasLoadingAnimation        ID = "has_loading_animation"
)

// IDs lists every fact in canonical order. Validation errors and
// rendered inputs follow this order.
var IDs = []ID{
	CTAPositionY,
	CTAWidth,
	CTAHeight,
	ContrastRatio,
	WhitespaceAroundCTA,
	ScrollDepth,
	CTAClickRate,
	NumberOfCTAs,
	CTATextLength,
	TimeToCTA,
	ClickableElementsBeforeCTA,
	ContentWordCount,
	SimilarColorElements,
	LargestOtherElementSize,
	CTAMobileWidth,
	CTAMobileHeight,
	HasLoadingAnimation,
}

var known = func() map[ID]int {
	m := make(map[ID]int, len(IDs))
	for i, id := range IDs {
		m[id] = i
	}
	return m
}()

// IsKnown reports whether id names one of the seventeen facts
func IsKnown(id string) bool {
	_, ok := known[ID(id)]
	return ok
}

// Base is the immutable set of measurements for one evaluation.
// The zero value holds no facts; use Build.
type Base struct {
	values [17]float64
	ok     bool
}

// ValidationError lists every field that prevented a Base from being built
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, 2)
	if len(e.Missing) > 0 {
		parts = append(parts, "missing fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "non-numeric or out-of-range fields: "+strings.Join(e.Invalid, ", "))
	}
	return "invalid facts: " + strings.Join(parts, "; ")
}

// Fields returns every offending field with the reason it was rejected
func (e *ValidationError) Fields() map[string]string {
	out := make(map[string]string, len(e.Missing)+len(e.Invalid))
	for _, f := range e.Missing {
		out[f] = "field is required"
	}
	for _, f := range e.Invalid {
		if f == string(HasLoadingAnimation) {
			out[f] = "must be 0 or 1"
			continue
		}
		out[f] = "must be a finite number"
	}
	return out
}

// Build validates raw input and returns the fact base. Validation is
// all-or-nothing: any missing or non-numeric field fails the whole build.
func Build(raw map[string]any) (Base, error) {
	var (
		b       Base
		missing []string
		invalid []string
	)

	for i, id := range IDs {
		v, present := raw[string(id)]
		if !present {
			missing = append(missing, string(id))
			continue
		}
		f, ok := toFloat(v)
		if !ok {
			invalid = append(invalid, string(id))
			continue
		}
		if id == HasLoadingAnimation && f != 0 && f != 1 {
			invalid = append(invalid, string(id))
			continue
		}
		b.values[i] = f
	}

	if len(missing) > 0 || len(invalid) > 0 {
		return Base{}, &ValidationError{Missing: missing, Invalid: invalid}
	}

	b.ok = true
	return b, nil
}

// FromValues builds a Base from typed values, with the same validation as Build
func FromValues(values map[ID]float64) (Base, error) {
	raw := make(map[string]any, len(values))
	for id, v := range values {
		raw[string(id)] = v
	}
	return Build(raw)
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Value returns the measurement for id
func (b Base) Value(id ID) (float64, bool) {
	i, ok := known[id]
	if !ok || !b.ok {
		return 0, false
	}
	return b.values[i], true
}

// Get returns the measurement for id, or 0 for an unknown id
func (b Base) Get(id ID) float64 {
	v, _ := b.Value(id)
	return v
}

// Valid reports whether b was produced by Build
func (b Base) Valid() bool {
	return b.ok
}

// Map returns a copy of the facts keyed by id
func (b Base) Map() map[string]float64 {
	out := make(map[string]float64, len(IDs))
	if !b.ok {
		return out
	}
	for i, id := range IDs {
		out[string(id)] = b.values[i]
	}
	return out
}

// Format renders a fact value the way explanations print it
func Format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
