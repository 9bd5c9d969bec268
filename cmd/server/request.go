package main

// FactsRequest documents the body of the evaluation endpoints. Handlers
// decode into a map so that missing fields can be reported by name.
type FactsRequest struct {
	CTAPositionY               float64 `json:"cta_position_y" example:"300"`
	CTAWidth                   float64 `json:"cta_width" example:"220"`
	CTAHeight                  float64 `json:"cta_height" example:"56"`
	ContrastRatio              float64 `json:"contrast_ratio" example:"7.5"`
	WhitespaceAroundCTA        float64 `json:"whitespace_around_cta" example:"40"`
	ScrollDepth                float64 `json:"scroll_depth" example:"80"`
	CTAClickRate               float64 `json:"cta_click_rate" example:"6.5"`
	NumberOfCTAs               float64 `json:"number_of_ctas" example:"1"`
	CTATextLength              float64 `json:"cta_text_length" example:"12"`
	TimeToCTA                  float64 `json:"time_to_cta" example:"2"`
	ClickableElementsBeforeCTA float64 `json:"clickable_elements_before_cta" example:"2"`
	ContentWordCount           float64 `json:"content_word_count" example:"250"`
	SimilarColorElements       float64 `json:"similar_color_elements" example:"0"`
	LargestOtherElementSize    float64 `json:"largest_other_element_size" example:"10000"`
	CTAMobileWidth             float64 `json:"cta_mobile_width" example:"300"`
	CTAMobileHeight            float64 `json:"cta_mobile_height" example:"50"`
	HasLoadingAnimation        int     `json:"has_loading_animation" example:"1" enums:"0,1"`
}
