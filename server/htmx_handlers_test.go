package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/umputun/appscope/pkg/domain"
	"github.com/umputun/appscope/pkg/session"
	"github.com/umputun/appscope/server/mocks"
)

// parseHTML parses a page or a fragment into a node tree
func parseHTML(t *testing.T, body string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

// findAll returns all element nodes matching the predicate in document order
func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var res []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			res = append(res, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return res
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	v, _ := attr(n, "class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

func byClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool { return hasClass(n, class) }
}

func byID(id string) func(*html.Node) bool {
	return func(n *html.Node) bool { v, ok := attr(n, "id"); return ok && v == id }
}

func byTag(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.Data == tag }
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

func formRequest(method, target, body string, htmx bool) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return req
}

func TestServer_indexHandler(t *testing.T) {
	tests := []struct {
		name      string
		state     session.State
		wantClass string
		wantText  string
		disabled  bool
	}{
		{name: "idle", state: session.Initial(), wantClass: "idle", wantText: idleText},
		{name: "loading", state: session.State{Phase: session.PhaseLoading, Token: 1, URL: "https://apps.apple.com/app/id1"},
			wantClass: "loading", wantText: loadingText, disabled: true},
		{name: "failed", state: session.State{Phase: session.PhaseFailed, Token: 1, Error: "No response received from the model."},
			wantClass: "failed", wantText: "No response received from the model."},
		{name: "ready", state: readyState(), wantClass: "ready", wantText: "Sleep Tracker"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := &mocks.WorkspaceMock{
				SnapshotFunc: func() session.State { return tt.state },
				CopiedFunc:   func(tab domain.Tab) bool { return false },
			}
			srv := testServer(t, ws, nil)

			w := httptest.NewRecorder()
			srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

			doc := parseHTML(t, w.Body.String())
			require.Len(t, findAll(doc, byID("workspace")), 1)
			assert.Len(t, findAll(doc, byTag("title")), 1, "full page has a head")

			panels := findAll(doc, byClass("panel"))
			require.Len(t, panels, 1, "exactly one phase panel")
			assert.True(t, hasClass(panels[0], tt.wantClass))
			assert.Contains(t, textOf(panels[0]), tt.wantText)

			inputs := findAll(doc, func(n *html.Node) bool { v, _ := attr(n, "name"); return n.Data == "input" && v == "url" })
			require.Len(t, inputs, 1)
			_, disabled := attr(inputs[0], "disabled")
			assert.Equal(t, tt.disabled, disabled)
			buttons := findAll(doc, func(n *html.Node) bool { v, _ := attr(n, "type"); return n.Data == "button" && v == "submit" })
			require.Len(t, buttons, 1)
			_, disabled = attr(buttons[0], "disabled")
			assert.Equal(t, tt.disabled, disabled)

			// the failure banner appears only on failure, the tab bar only on ready
			assert.Equal(t, tt.name == "failed", len(findAll(doc, byClass("error-banner"))) == 1)
			assert.Equal(t, tt.name == "ready", len(findAll(doc, byClass("tabs"))) == 1)
			assert.Equal(t, tt.name == "loading", len(findAll(doc, func(n *html.Node) bool { v, _ := attr(n, "hx-get"); return v == "/result" })) == 1)
		})
	}
}

func TestServer_analyzeHandler(t *testing.T) {
	loading := session.State{Phase: session.PhaseLoading, Token: 4, URL: "https://apps.apple.com/us/app/x/id1"}

	t.Run("htmx submit returns loading workspace", func(t *testing.T) {
		ws := &mocks.WorkspaceMock{SubmitFunc: func(appURL string) session.State { return loading }}
		srv := testServer(t, ws, nil)

		form := url.Values{"url": {"  https://apps.apple.com/us/app/x/id1 "}}
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, formRequest(http.MethodPost, "/analyze", form.Encode(), true))
		require.Equal(t, http.StatusOK, w.Code)

		require.Len(t, ws.SubmitCalls(), 1)
		assert.Equal(t, "https://apps.apple.com/us/app/x/id1", ws.SubmitCalls()[0].AppURL)

		doc := parseHTML(t, w.Body.String())
		assert.Empty(t, findAll(doc, byTag("title")), "fragment only")
		require.Len(t, findAll(doc, byClass("loading")), 1)
		assert.Contains(t, w.Body.String(), loadingText)
		assert.Contains(t, w.Body.String(), `hx-get="/result"`)
	})

	t.Run("plain form post redirects", func(t *testing.T) {
		ws := &mocks.WorkspaceMock{SubmitFunc: func(appURL string) session.State { return loading }}
		srv := testServer(t, ws, nil)

		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, formRequest(http.MethodPost, "/analyze", "url=https%3A%2F%2Fapps.apple.com%2Fapp%2Fid1", false))
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		assert.Len(t, ws.SubmitCalls(), 1)
	})

	invalid := []string{"", "   ", "not a url", "ftp://apps.apple.com/app", "/relative/path", "http://", "javascript:alert(1)"}
	for _, raw := range invalid {
		t.Run("invalid "+raw, func(t *testing.T) {
			ws := &mocks.WorkspaceMock{}
			srv := testServer(t, ws, nil)

			form := url.Values{"url": {raw}}
			w := httptest.NewRecorder()
			srv.router.ServeHTTP(w, formRequest(http.MethodPost, "/analyze", form.Encode(), true))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "#form-error", w.Header().Get("HX-Retarget"))
			assert.Contains(t, w.Body.String(), invalidURLText)
			assert.Empty(t, ws.SubmitCalls(), "no analysis for invalid input")
		})
	}
}

func TestServer_resultHandler(t *testing.T) {
	t.Run("returns settled state", func(t *testing.T) {
		var deadline time.Time
		ws := &mocks.WorkspaceMock{
			WaitFunc: func(ctx context.Context) session.State {
				var ok bool
				deadline, ok = ctx.Deadline()
				require.True(t, ok, "long-poll is bounded")
				return readyState()
			},
			CopiedFunc: func(tab domain.Tab) bool { return false },
		}
		srv := testServer(t, ws, nil)

		start := time.Now()
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/result", http.NoBody))
		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, ws.WaitCalls(), 1)
		assert.WithinDuration(t, start.Add(time.Second), deadline, 500*time.Millisecond, "poll wait from config")

		doc := parseHTML(t, w.Body.String())
		assert.Equal(t, "Sleep Tracker", textOf(findAll(doc, byClass("app-name"))[0]))
		assert.Len(t, findAll(doc, byClass("tab")), 5)
		assert.Empty(t, findAll(doc, func(n *html.Node) bool { v, _ := attr(n, "hx-get"); return v == "/result" }),
			"settled panel stops polling")
	})

	t.Run("still loading re-polls", func(t *testing.T) {
		ws := &mocks.WorkspaceMock{
			WaitFunc: func(ctx context.Context) session.State {
				return session.State{Phase: session.PhaseLoading, Token: 1, URL: "https://apps.apple.com/app/id1"}
			},
		}
		srv := testServer(t, ws, nil)

		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/result", http.NoBody))
		require.Equal(t, http.StatusOK, w.Code)
		doc := parseHTML(t, w.Body.String())
		polls := findAll(doc, func(n *html.Node) bool { v, _ := attr(n, "hx-get"); return v == "/result" })
		require.Len(t, polls, 1)
		trigger, _ := attr(polls[0], "hx-trigger")
		assert.Equal(t, "load", trigger)
	})
}

func TestServer_tabHandler(t *testing.T) {
	t.Run("reviews", func(t *testing.T) {
		st := readyState()
		ws := &mocks.WorkspaceMock{
			SelectTabFunc: func(tab domain.Tab) error { st.Tab = tab; return nil },
			SnapshotFunc:  func() session.State { return st },
			CopiedFunc:    func(tab domain.Tab) bool { return false },
		}
		srv := testServer(t, ws, nil)

		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tab/reviews", http.NoBody))
		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, ws.SelectTabCalls(), 1)
		assert.Equal(t, domain.TabReviews, ws.SelectTabCalls()[0].Tab)

		doc := parseHTML(t, w.Body.String())
		require.Len(t, findAll(doc, byID("results")), 1)
		active := findAll(doc, byClass("active"))
		require.Len(t, active, 1)
		v, _ := attr(active[0], "data-tab")
		assert.Equal(t, "reviews", v)

		assert.Contains(t, w.Body.String(), "Evidence: 2 Key Reviews Analyzed")
		cards := findAll(doc, byClass("review-card"))
		require.Len(t, cards, 2)
		assert.Len(t, findAll(cards[0], byClass("filled")), 5)
		assert.Len(t, findAll(cards[1], byClass("star")), 5)
		assert.Len(t, findAll(cards[1], byClass("filled")), 5, "rating above max is clamped")
		assert.Equal(t, "kate", textOf(findAll(cards[0], byClass("author"))[0]))
		assert.Equal(t, anonymousAuthor, textOf(findAll(cards[1], byClass("author"))[0]))
		assert.Len(t, findAll(cards[0], byClass("review-title")), 1)
		assert.Empty(t, findAll(cards[1], byClass("review-title")), "no title, no heading")
	})

	t.Run("blueprint renders markdown with copy button", func(t *testing.T) {
		st := readyState()
		st.Tab = domain.TabBlueprint
		ws := &mocks.WorkspaceMock{
			SelectTabFunc: func(tab domain.Tab) error { return nil },
			SnapshotFunc:  func() session.State { return st },
			CopiedFunc:    func(tab domain.Tab) bool { return false },
		}
		srv := testServer(t, ws, nil)

		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tab/blueprint", http.NoBody))
		require.Equal(t, http.StatusOK, w.Code)

		doc := parseHTML(t, w.Body.String())
		assert.Equal(t, "Competitor Blueprint (PRD)", textOf(findAll(doc, byTag("h3"))[0]))
		assert.Equal(t, "Blueprint", textOf(findAll(doc, byClass("md-h1"))[0]))
		assert.Len(t, findAll(doc, byTag("ol")), 1)
		assert.Equal(t, "silence", textOf(findAll(doc, byClass("md-code"))[0]))

		article := findAll(doc, byTag("article"))
		require.Len(t, article, 1)
		src, ok := attr(article[0], "data-markdown")
		require.True(t, ok)
		assert.Equal(t, sampleResult().CompetitorPrdMarkdown, src)

		btn := findAll(doc, byID("copy-blueprint"))
		require.Len(t, btn, 1)
		post, _ := attr(btn[0], "hx-post")
		assert.Equal(t, "/copy/blueprint", post)
		assert.Equal(t, "Copy PRD", textOf(btn[0]))
	})

	t.Run("document source kept verbatim for the clipboard", func(t *testing.T) {
		docs := []string{
			"# Plan\n- “quoted” ✓ \\ \"x\" 'y'\n\temoji 🚀",
			"<script>alert(1)</script> & &amp; **bold** `code`",
			"\n\nleading blank lines\n\n",
			"",
		}
		for _, src := range docs {
			st := readyState()
			st.Tab = domain.TabRules
			st.Result.PrdRulesMarkdown = src
			ws := &mocks.WorkspaceMock{
				SelectTabFunc: func(tab domain.Tab) error { return nil },
				SnapshotFunc:  func() session.State { return st },
				CopiedFunc:    func(tab domain.Tab) bool { return false },
			}
			srv := testServer(t, ws, nil)

			w := httptest.NewRecorder()
			srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tab/rules", http.NoBody))
			require.Equal(t, http.StatusOK, w.Code)

			doc := parseHTML(t, w.Body.String())
			assert.Empty(t, findAll(doc, byTag("script")), "markup in the source is never live")
			article := findAll(doc, byTag("article"))
			require.Len(t, article, 1)
			got, ok := attr(article[0], "data-markdown")
			require.True(t, ok)
			assert.Equal(t, src, got)
		}
	})

	t.Run("unknown tab", func(t *testing.T) {
		ws := &mocks.WorkspaceMock{}
		srv := testServer(t, ws, nil)
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tab/settings", http.NoBody))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, ws.SelectTabCalls())
	})

	t.Run("no result", func(t *testing.T) {
		ws := &mocks.WorkspaceMock{SelectTabFunc: func(tab domain.Tab) error { return session.ErrNoResult }}
		srv := testServer(t, ws, nil)
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tab/liked", http.NoBody))
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("state moved on before render", func(t *testing.T) {
		ws := &mocks.WorkspaceMock{
			SelectTabFunc: func(tab domain.Tab) error { return nil },
			SnapshotFunc:  session.Initial,
		}
		srv := testServer(t, ws, nil)
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tab/liked", http.NoBody))
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestServer_copyHandler(t *testing.T) {
	t.Run("marks copied", func(t *testing.T) {
		ws := &mocks.WorkspaceMock{MarkCopiedFunc: func(tab domain.Tab) (string, error) { return "# Plan", nil }}
		srv := testServer(t, ws, nil)

		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/copy/blueprint", http.NoBody))
		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, ws.MarkCopiedCalls(), 1)
		assert.Equal(t, domain.TabBlueprint, ws.MarkCopiedCalls()[0].Tab)
		assert.Empty(t, w.Header().Get("HX-Trigger"), "document never travels in headers")

		node := parseHTML(t, w.Body.String())
		btn := findAll(node, byID("copy-blueprint"))
		require.Len(t, btn, 1)
		assert.True(t, hasClass(btn[0], "copied"))
		assert.Equal(t, copiedLabel, textOf(btn[0]))
		get, _ := attr(btn[0], "hx-get")
		assert.Equal(t, "/copy/blueprint", get)
		trig, _ := attr(btn[0], "hx-trigger")
		assert.Equal(t, "load delay:2s", trig)
	})

	t.Run("non document tab", func(t *testing.T) {
		ws := &mocks.WorkspaceMock{}
		srv := testServer(t, ws, nil)
		for _, tab := range []string{"liked", "reviews", "bogus"} {
			w := httptest.NewRecorder()
			srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/copy/"+tab, http.NoBody))
			assert.Equal(t, http.StatusBadRequest, w.Code, tab)
		}
		assert.Empty(t, ws.MarkCopiedCalls())
	})

	t.Run("no result", func(t *testing.T) {
		ws := &mocks.WorkspaceMock{MarkCopiedFunc: func(tab domain.Tab) (string, error) { return "", session.ErrNoResult }}
		srv := testServer(t, ws, nil)
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/copy/rules", http.NoBody))
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Empty(t, w.Header().Get("HX-Trigger"))
	})

	t.Run("other error", func(t *testing.T) {
		ws := &mocks.WorkspaceMock{MarkCopiedFunc: func(tab domain.Tab) (string, error) { return "", errors.New("nope") }}
		srv := testServer(t, ws, nil)
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/copy/rules", http.NoBody))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestServer_copyStateHandler(t *testing.T) {
	tests := []struct {
		copied    bool
		wantLabel string
		wantAttr  string
	}{
		{copied: true, wantLabel: copiedLabel, wantAttr: "hx-get"},
		{copied: false, wantLabel: "Copy Rules", wantAttr: "hx-post"},
	}
	for _, tt := range tests {
		t.Run(tt.wantLabel, func(t *testing.T) {
			ws := &mocks.WorkspaceMock{CopiedFunc: func(tab domain.Tab) bool { return tt.copied }}
			srv := testServer(t, ws, nil)

			w := httptest.NewRecorder()
			srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/copy/rules", http.NoBody))
			require.Equal(t, http.StatusOK, w.Code)

			btn := findAll(parseHTML(t, w.Body.String()), byID("copy-rules"))
			require.Len(t, btn, 1)
			assert.Equal(t, tt.wantLabel, textOf(btn[0]))
			v, ok := attr(btn[0], tt.wantAttr)
			require.True(t, ok)
			assert.Equal(t, "/copy/rules", v)
		})
	}
}

func TestServer_resetHandler(t *testing.T) {
	ws := &mocks.WorkspaceMock{ResetFunc: func() session.State { return session.State{Phase: session.PhaseIdle, Token: 5, Tab: domain.DefaultTab} }}
	srv := testServer(t, ws, nil)

	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, formRequest(http.MethodPost, "/reset", "", true))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, ws.ResetCalls(), 1)
	assert.Contains(t, w.Body.String(), idleText)

	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, formRequest(http.MethodPost, "/reset", "", false))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Len(t, ws.ResetCalls(), 2)
}

func TestValidateAppURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "https://apps.apple.com/us/app/x/id123", want: "https://apps.apple.com/us/app/x/id123"},
		{in: " https://play.google.com/store/apps/details?id=com.x ", want: "https://play.google.com/store/apps/details?id=com.x"},
		{in: "http://example.com", want: "http://example.com"},
		{in: "", wantErr: true},
		{in: "apps.apple.com/app", wantErr: true},
		{in: "mailto:a@b.c", wantErr: true},
		{in: "https://", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := validateAppURL(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
