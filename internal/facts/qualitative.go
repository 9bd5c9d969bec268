package facts

// Qualitative labels derived from the raw measurements. They are for
// display only; rules are evaluated against raw facts.
const (
	LabelContentLength   = "content_length"
	LabelTextClarity     = "cta_text_clarity"
	LabelColorUniqueness = "cta_color_uniqueness"
	LabelVisualHierarchy = "visual_hierarchy"
	LabelMobileFriendly  = "mobile_friendly"
	LabelLoadingFeedback = "loading_feedback"
)

// Qualitative converts the quantitative facts into human-readable labels
func (b Base) Qualitative() map[string]string {
	if !b.ok {
		return map[string]string{}
	}

	q := make(map[string]string, 6)

	switch words := b.Get(ContentWordCount); {
	case words < 200:
		q[LabelContentLength] = "short"
	case words < 400:
		q[LabelContentLength] = "medium"
	default:
		q[LabelContentLength] = "long"
	}

	switch n := b.Get(CTATextLength); {
	case n > 5 && n <= 15:
		q[LabelTextClarity] = "good"
	case n <= 25:
		q[LabelTextClarity] = "medium"
	default:
		q[LabelTextClarity] = "poor"
	}

	switch similar := b.Get(SimilarColorElements); {
	case similar == 0:
		q[LabelColorUniqueness] = "unique"
	case similar <= 2:
		q[LabelColorUniqueness] = "moderate"
	default:
		q[LabelColorUniqueness] = "similar"
	}

	area := b.Get(CTAWidth) * b.Get(CTAHeight)
	largest := b.Get(LargestOtherElementSize)
	switch {
	case area > largest*1.5:
		q[LabelVisualHierarchy] = "strong"
	case area > largest*1.1:
		q[LabelVisualHierarchy] = "moderate"
	default:
		q[LabelVisualHierarchy] = "weak"
	}

	if b.Get(CTAMobileWidth) >= 180 && b.Get(CTAMobileHeight) >= 48 {
		q[LabelMobileFriendly] = "yes"
	} else {
		q[LabelMobileFriendly] = "no"
	}

	if b.Get(HasLoadingAnimation) > 0 {
		q[LabelLoadingFeedback] = "yes"
	} else {
		q[LabelLoadingFeedback] = "no"
	}

	return q
}
