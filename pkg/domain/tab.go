package domain

import "fmt"

// Tab selects which facet of an AnalysisResult is displayed
type Tab string

// result tabs in display order
const (
	TabLiked     Tab = "liked"
	TabDisliked  Tab = "disliked"
	TabReviews   Tab = "reviews"
	TabRules     Tab = "rules"
	TabBlueprint Tab = "blueprint"
)

// DefaultTab is selected whenever a new result arrives
const DefaultTab = TabLiked

var tabLabels = map[Tab]string{
	TabLiked:     "Top Liked",
	TabDisliked:  "Most Disliked",
	TabReviews:   "Source Reviews",
	TabRules:     "PRD Rules",
	TabBlueprint: "Blueprint (PRD)",
}

// Tabs returns all tabs in display order
func Tabs() []Tab {
	return []Tab{TabLiked, TabDisliked, TabReviews, TabRules, TabBlueprint}
}

// ParseTab converts a string to Tab
func ParseTab(s string) (Tab, error) {
	t := Tab(s)
	if _, ok := tabLabels[t]; !ok {
		return "", fmt.Errorf("unknown tab %q", s)
	}
	return t, nil
}

// Label returns human-readable tab name
func (t Tab) Label() string {
	return tabLabels[t]
}

// IsDocument reports whether the tab shows one of the markdown documents
func (t Tab) IsDocument() bool {
	return t == TabRules || t == TabBlueprint
}
