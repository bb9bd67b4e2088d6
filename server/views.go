package server

import (
	"html/template"

	"github.com/umputun/appscope/pkg/domain"
	"github.com/umputun/appscope/pkg/markdown"
	"github.com/umputun/appscope/pkg/session"
)

// view texts
const (
	idleText         = "Waiting to analyze your next target app."
	loadingText      = "Reading reviews, identifying patterns, and formulating strategy..."
	noFeaturesText   = "No features found for this category."
	noReviewsText    = "No specific reviews extracted from analysis."
	anonymousAuthor  = "Anonymous"
	invalidURLText   = "Please enter a valid app store URL."
	copiedLabel      = "Copied"
	defaultCopyLabel = "Copy"
)

var documentTitles = map[domain.Tab]string{
	domain.TabRules:     "PRD Methodology & Rules",
	domain.TabBlueprint: "Competitor Blueprint (PRD)",
}

var copyLabels = map[domain.Tab]string{
	domain.TabRules:     "Copy Rules",
	domain.TabBlueprint: "Copy PRD",
}

// workspaceView is the data of the workspace fragment: input form plus the phase panel
type workspaceView struct {
	Phase   string
	URL     string
	Loading bool
	Message string // idle and loading text
	Error   string // failure banner
	Results *resultsView
}

// resultsView is the ready panel with its tab bar and the active facet
type resultsView struct {
	AppName  string
	Tabs     []tabView
	Active   domain.Tab
	Features *featureListView
	Reviews  *reviewListView
	Document *documentView
}

type tabView struct {
	ID     domain.Tab
	Label  string
	Active bool
}

type featureListView struct {
	Sentiment string // liked or disliked, drives card styling
	Items     []domain.Feature
	Empty     string
}

type reviewListView struct {
	Count int
	Items []reviewView
	Empty string
}

type reviewView struct {
	Author  string
	Stars   []bool // MaxRating units, true for filled
	Rating  int
	Title   string
	Content string
}

type documentView struct {
	Tab    domain.Tab
	Title  string
	Source string
	Copy   copyButtonView
}

type copyButtonView struct {
	Tab    domain.Tab
	Copied bool
	Label  string
}

// buildWorkspace maps the session state to the workspace fragment
func buildWorkspace(st session.State, copied func(domain.Tab) bool) workspaceView {
	v := workspaceView{Phase: string(st.Phase), URL: st.URL, Loading: st.Loading()}
	switch st.Phase {
	case session.PhaseIdle:
		v.Message = idleText
	case session.PhaseLoading:
		v.Message = loadingText
	case session.PhaseFailed:
		v.Error = st.Error
	case session.PhaseReady:
		v.Results = buildResults(st, copied)
	}
	return v
}

// buildResults maps a ready state to the results panel, nil when there is no result
func buildResults(st session.State, copied func(domain.Tab) bool) *resultsView {
	if st.Result == nil {
		return nil
	}
	res := st.Result
	active := st.Tab
	if _, err := domain.ParseTab(string(active)); err != nil {
		active = domain.DefaultTab
	}

	v := &resultsView{AppName: res.AppName, Active: active}
	for _, t := range domain.Tabs() {
		v.Tabs = append(v.Tabs, tabView{ID: t, Label: t.Label(), Active: t == active})
	}

	switch active {
	case domain.TabLiked:
		v.Features = buildFeatureList("liked", res.LikedFeatures)
	case domain.TabDisliked:
		v.Features = buildFeatureList("disliked", res.DislikedFeatures)
	case domain.TabReviews:
		v.Reviews = buildReviewList(res.Reviews)
	case domain.TabRules, domain.TabBlueprint:
		doc, _ := res.Markdown(active)
		v.Document = &documentView{
			Tab:    active,
			Title:  documentTitles[active],
			Source: doc,
			Copy:   buildCopyButton(active, copied != nil && copied(active)),
		}
	}
	return v
}

func buildFeatureList(sentiment string, features []domain.Feature) *featureListView {
	v := &featureListView{Sentiment: sentiment, Items: features}
	if len(features) == 0 {
		v.Empty = noFeaturesText
	}
	return v
}

func buildReviewList(reviews []domain.Review) *reviewListView {
	v := &reviewListView{Count: len(reviews)}
	if len(reviews) == 0 {
		v.Empty = noReviewsText
		return v
	}
	for _, r := range reviews {
		author := r.Author
		if author == "" {
			author = anonymousAuthor
		}
		filled := r.FilledStars()
		stars := make([]bool, domain.MaxRating)
		for i := range stars {
			stars[i] = i < filled
		}
		v.Items = append(v.Items, reviewView{Author: author, Stars: stars, Rating: filled, Title: r.Title, Content: r.Content})
	}
	return v
}

func buildCopyButton(tab domain.Tab, copied bool) copyButtonView {
	label := copyLabels[tab]
	if label == "" {
		label = defaultCopyLabel
	}
	if copied {
		label = copiedLabel
	}
	return copyButtonView{Tab: tab, Copied: copied, Label: label}
}

// renderMarkdown is the template function turning a markdown document into sanitized html
func renderMarkdown(src string) template.HTML {
	return markdown.Render(src)
}
