package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/cta-expert/internal/facts"
	"github.com/ZanzyTHEbar/cta-expert/internal/knowledge"
)

// goodDesign is a CTA that follows every guideline in the catalog
func goodDesign() map[string]any {
	return map[string]any{
		"cta_position_y":                500.0,
		"cta_width":                     200.0,
		"cta_height":                    50.0,
		"contrast_ratio":                4.5,
		"whitespace_around_cta":         40.0,
		"scroll_depth":                  60.0,
		"cta_click_rate":                3.5,
		"number_of_ctas":                1.0,
		"cta_text_length":               15.0,
		"time_to_cta":                   8.0,
		"clickable_elements_before_cta": 3.0,
		"content_word_count":            300.0,
		"similar_color_elements":        0.0,
		"largest_other_element_size":    8000.0,
		"cta_mobile_width":              200.0,
		"cta_mobile_height":             48.0,
		"has_loading_animation":         1.0,
	}
}

// weakDesign is a CTA that breaks most guidelines at once
func weakDesign() map[string]any {
	return map[string]any{
		"cta_position_y":                900.0,
		"cta_width":                     150.0,
		"cta_height":                    35.0,
		"contrast_ratio":                2.1,
		"whitespace_around_cta":         15.0,
		"scroll_depth":                  40.0,
		"cta_click_rate":                1.2,
		"number_of_ctas":                3.0,
		"cta_text_length":               30.0,
		"time_to_cta":                   15.0,
		"clickable_elements_before_cta": 8.0,
		"content_word_count":            500.0,
		"similar_color_elements":        4.0,
		"largest_other_element_size":    12000.0,
		"cta_mobile_width":              150.0,
		"cta_mobile_height":             35.0,
		"has_loading_animation":         0.0,
	}
}

// referenceWeakDesign is the documented low-contrast, multi-CTA example
func referenceWeakDesign() map[string]any {
	return map[string]any{
		"cta_position_y":                900.0,
		"cta_width":                     150.0,
		"cta_height":                    40.0,
		"contrast_ratio":                2.5,
		"whitespace_around_cta":         20.0,
		"scroll_depth":                  30.0,
		"cta_click_rate":                1.5,
		"number_of_ctas":                3.0,
		"cta_text_length":               30.0,
		"time_to_cta":                   15.0,
		"clickable_elements_before_cta": 8.0,
		"content_word_count":            500.0,
		"similar_color_elements":        4.0,
		"largest_other_element_size":    15000.0,
		"cta_mobile_width":              160.0,
		"cta_mobile_height":             40.0,
		"has_loading_animation":         0.0,
	}
}

// neutralDesign sits between every threshold so that no rule fires
func neutralDesign() map[string]any {
	return map[string]any{
		"cta_position_y":                700.0,
		"cta_width":                     190.0,
		"cta_height":                    46.0,
		"contrast_ratio":                4.0,
		"whitespace_around_cta":         35.0,
		"scroll_depth":                  60.0,
		"cta_click_rate":                2.5,
		"number_of_ctas":                1.0,
		"cta_text_length":               15.0,
		"time_to_cta":                   11.0,
		"clickable_elements_before_cta": 4.0,
		"content_word_count":            300.0,
		"similar_color_elements":        1.0,
		"largest_other_element_size":    5000.0,
		"cta_mobile_width":              200.0,
		"cta_mobile_height":             48.0,
		"has_loading_animation":         1.0,
	}
}

func with(raw map[string]any, key string, value float64) map[string]any {
	raw[key] = value
	return raw
}

func testCatalog(t testing.TB) *knowledge.Catalog {
	t.Helper()
	cat, err := knowledge.Default()
	require.NoError(t, err)
	return cat
}

func buildFacts(t testing.TB, raw map[string]any) facts.Base {
	t.Helper()
	fb, err := facts.Build(raw)
	require.NoError(t, err)
	return fb
}

func ruleIDs(activated []ActivatedRule) []string {
	ids := make([]string, 0, len(activated))
	for _, a := range activated {
		ids = append(ids, a.RuleID)
	}
	return ids
}
