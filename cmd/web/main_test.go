package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rusbers/iannabeauty/internal/config"
)

const testBaseURL = "https://iannabeauty.ie"

// newTestRouter builds the same router as main() against the repository templates and content.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg, err := config.Load(context.Background(),
		config.WithoutSystemEnv(),
		config.WithEnvFile(""),
		config.WithEnvMap(map[string]string{
			"IANNA_WEB_BASE_URL":      testBaseURL,
			"IANNA_WEB_TEMPLATES_DIR": "../../templates",
			"IANNA_WEB_PUBLIC_DIR":    "../../public",
			"IANNA_WEB_CONTENT_DIR":   "../../content",
		}),
	)
	require.NoError(t, err)
	a, err := newApp(cfg, zap.NewNop())
	require.NoError(t, err)
	return a.routes()
}

func get(t *testing.T, srv http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func parseHTML(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	return doc
}

func metaContent(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return v
}

func linkHref(doc *goquery.Document, rel string) string {
	v, _ := doc.Find(`link[rel="` + rel + `"]`).First().Attr("href")
	return v
}

func TestHealthzOK(t *testing.T) {
	srv := newTestRouter(t)
	rec := get(t, srv, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", strings.TrimSpace(rec.Body.String()))
}

func TestContentPageHead(t *testing.T) {
	srv := newTestRouter(t)
	rec := get(t, srv, "/about")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	doc := parseHTML(t, rec)
	image := testBaseURL + "/api/og?id=about-page&type=page"

	assert.Equal(t, "About us | Ianna Beauty", doc.Find("title").Text())
	assert.Equal(t, "Meet the team behind the studio.", metaContent(doc, `meta[name="description"]`))
	assert.Equal(t, testBaseURL+"/about", linkHref(doc, "canonical"))
	assert.Equal(t, testBaseURL+"/favicon.ico", linkHref(doc, "icon"))
	assert.Equal(t, "summary_large_image", metaContent(doc, `meta[name="twitter:card"]`))
	assert.Equal(t, image, metaContent(doc, `meta[name="twitter:image"]`))
	assert.Equal(t, image, metaContent(doc, `meta[property="og:image"]`))
	assert.Equal(t, "1200", metaContent(doc, `meta[property="og:image:width"]`))
	assert.Equal(t, "630", metaContent(doc, `meta[property="og:image:height"]`))
	assert.Equal(t, "Ireland", metaContent(doc, `meta[property="og:country-name"]`))
	assert.Equal(t, "About us", doc.Find("main h1").Text())
	assert.Equal(t, 3, doc.Find(`script[type="application/ld+json"]`).Length())

	lang, _ := doc.Find("html").Attr("lang")
	assert.Equal(t, "en-IE", lang)

	base, _ := doc.Find("base").Attr("href")
	assert.Equal(t, testBaseURL+"/", base)
}

func TestHomePageUsesSEOTitleAndBareCanonical(t *testing.T) {
	srv := newTestRouter(t)
	rec := get(t, srv, "/")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	doc := parseHTML(t, rec)
	assert.Equal(t, "Ianna Beauty Studio | Ianna Beauty", doc.Find("title").Text())
	assert.Equal(t, testBaseURL, linkHref(doc, "canonical"))
	assert.Equal(t, "Home", doc.Find("main h1").Text())
	assert.Equal(t, 4, doc.Find(`script[type="application/ld+json"]`).Length(), "home page carries the organization node")
}

func TestNestedPageRendersMarkdown(t *testing.T) {
	srv := newTestRouter(t)
	rec := get(t, srv, "/services/facials")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	doc := parseHTML(t, rec)
	assert.Equal(t, "Facials in Dublin | Ianna Beauty", doc.Find("title").Text())
	assert.Equal(t, testBaseURL+"/services/facials", linkHref(doc, "canonical"))
	assert.Equal(t, "Signature facial", doc.Find(".page-body h2").Text())
}

func TestUnknownPageRendersNotFound(t *testing.T) {
	srv := newTestRouter(t)
	rec := get(t, srv, "/does-not-exist")
	require.Equal(t, http.StatusNotFound, rec.Code)

	doc := parseHTML(t, rec)
	assert.Equal(t, "Page not found | Ianna Beauty", doc.Find("title").Text())
	assert.Equal(t, testBaseURL+"/does-not-exist", linkHref(doc, "canonical"))
}

func TestMetadataBySlug(t *testing.T) {
	srv := newTestRouter(t)
	rec := get(t, srv, "/api/metadata?slug=/about")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc struct {
		Title        string `json:"title"`
		MetadataBase string `json:"metadataBase"`
		Alternates   struct {
			Canonical string `json:"canonical"`
		} `json:"alternates"`
		OpenGraph struct {
			URL string `json:"url"`
		} `json:"openGraph"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "About us | Ianna Beauty", doc.Title)
	assert.Equal(t, testBaseURL+"/", doc.MetadataBase)
	assert.Equal(t, testBaseURL+"/about", doc.Alternates.Canonical)
	assert.Equal(t, testBaseURL+"/about", doc.OpenGraph.URL)
}

func TestMetadataBySlugNotFound(t *testing.T) {
	srv := newTestRouter(t)
	rec := get(t, srv, "/api/metadata?slug=/missing")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_found", body.Error.Code)
}

func TestMetadataFromPostedRecord(t *testing.T) {
	srv := newTestRouter(t)

	cases := []struct {
		name      string
		body      string
		status    int
		title     string
		canonical string
		image     string
	}{
		{
			name:      "wrapper slug with null current",
			body:      `{"_type":"product","_id":"42","slug":{"current":null},"title":"B","seoTitle":null}`,
			status:    http.StatusOK,
			title:     "B | Ianna Beauty",
			canonical: testBaseURL,
			image:     testBaseURL + "/api/og?id=42&type=product",
		},
		{
			name:      "string slug",
			body:      `{"slug":"/treatments","seoTitle":"A","title":"B"}`,
			status:    http.StatusOK,
			title:     "A | Ianna Beauty",
			canonical: testBaseURL + "/treatments",
			image:     testBaseURL + "/api/og?",
		},
		{
			name:      "null record",
			body:      `null`,
			status:    http.StatusOK,
			title:     " | Ianna Beauty",
			canonical: testBaseURL,
			image:     testBaseURL + "/api/og?",
		},
		{
			name:      "empty body",
			body:      ``,
			status:    http.StatusOK,
			title:     " | Ianna Beauty",
			canonical: testBaseURL,
			image:     testBaseURL + "/api/og?",
		},
		{
			name:      "trailing whitespace",
			body:      "{\"title\":\"a\"}\n\t ",
			status:    http.StatusOK,
			title:     "a | Ianna Beauty",
			canonical: testBaseURL,
			image:     testBaseURL + "/api/og?",
		},
		{
			name:   "malformed",
			body:   `{"slug": 7}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "trailing garbage",
			body:   `{"title":"a"} trailing-junk`,
			status: http.StatusBadRequest,
		},
		{
			name:   "second value",
			body:   `{"title":"a"} {"title":"b"}`,
			status: http.StatusBadRequest,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/metadata", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			if tc.status != http.StatusOK {
				var body struct {
					Error struct {
						Code string `json:"code"`
					} `json:"error"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, "invalid_record", body.Error.Code)
				return
			}

			var doc struct {
				Title   string `json:"title"`
				Twitter struct {
					Images []string `json:"images"`
				} `json:"twitter"`
				Alternates struct {
					Canonical string `json:"canonical"`
				} `json:"alternates"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
			assert.Equal(t, tc.title, doc.Title)
			assert.Equal(t, tc.canonical, doc.Alternates.Canonical)
			assert.Equal(t, []string{tc.image}, doc.Twitter.Images)
		})
	}
}

func TestAssetsCacheHeaders(t *testing.T) {
	srv := newTestRouter(t)
	rec := get(t, srv, "/assets/css/site.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "max-age=604800")
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil)
	req.Header.Set("If-None-Match", etag)
	cached := httptest.NewRecorder()
	srv.ServeHTTP(cached, req)
	assert.Equal(t, http.StatusNotModified, cached.Code)
}

func TestFaviconServedFromPublic(t *testing.T) {
	srv := newTestRouter(t)

	page := parseHTML(t, get(t, srv, "/about"))
	href := linkHref(page, "icon")
	require.True(t, strings.HasPrefix(href, testBaseURL))

	rec := get(t, srv, strings.TrimPrefix(href, testBaseURL))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "image/"), rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("ETag"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x00\x00\x01\x00"), "icon header")
}
