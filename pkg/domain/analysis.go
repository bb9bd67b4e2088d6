package domain

// Feature is one sentiment point extracted from reviews
type Feature struct {
	Title       string `json:"title" jsonschema:"description=Short catchy title of the feature or issue"`
	Description string `json:"description" jsonschema:"description=Detailed explanation of why users like it or complain about it"`
}

// Review is one piece of evidence the analysis was based on
type Review struct {
	Author  string `json:"author" jsonschema:"description=Name of reviewer or 'Anonymous'"`
	Rating  int    `json:"rating" jsonschema:"description=Star rating (1-5)"`
	Title   string `json:"title,omitempty" jsonschema:"description=Title of the review if available"`
	Content string `json:"content" jsonschema:"description=The content of the review"`
}

// MaxRating is the number of units in a rating indicator
const MaxRating = 5

// FilledStars returns the rating clamped to [0, MaxRating]
func (r Review) FilledStars() int {
	switch {
	case r.Rating < 0:
		return 0
	case r.Rating > MaxRating:
		return MaxRating
	default:
		return r.Rating
	}
}

// AnalysisResult is the structured record returned by one analysis call.
// It is created wholesale and never partially updated.
type AnalysisResult struct {
	AppName               string    `json:"appName" jsonschema:"description=The name of the application being analyzed"`
	LikedFeatures         []Feature `json:"likedFeatures" jsonschema:"description=Top 5 features users love"`
	DislikedFeatures      []Feature `json:"dislikedFeatures" jsonschema:"description=Top 5 features users dislike or complain about"`
	Reviews               []Review  `json:"reviews" jsonschema:"description=A list of 20+ representative reviews extracted from the 150+ analyzed. These serve as the evidence for the analysis."`
	CompetitorPrdMarkdown string    `json:"competitorPrdMarkdown" jsonschema:"description=A complete PRD (Product Requirement Document) in Markdown format following the 'Output: PRD Document' structure exactly"`
	PrdRulesMarkdown      string    `json:"prdRulesMarkdown" jsonschema:"description=A separate Markdown document describing the rules or methodology used to create the PRD and the data-driven decisions behind it"`
}

// Markdown returns the markdown document shown on the given tab, ok is false for non-document tabs
func (r *AnalysisResult) Markdown(tab Tab) (doc string, ok bool) {
	switch tab {
	case TabRules:
		return r.PrdRulesMarkdown, true
	case TabBlueprint:
		return r.CompetitorPrdMarkdown, true
	default:
		return "", false
	}
}
