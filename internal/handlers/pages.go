package handlers

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/rusbers/iannabeauty/internal/cms"
	"github.com/rusbers/iannabeauty/internal/seo"
)

// PageData is the view model for content pages rendered with the shared layout.
type PageData struct {
	Lang    string
	Path    string
	Status  int
	Meta    seo.Metadata
	Tags    []seo.Tag
	JSONLD  []template.JS
	Heading string
	Body    template.HTML
}

// BuildPageData resolves metadata for rec and prepares everything the layout needs.
func BuildPageData(site seo.Site, rec *cms.Record, path string) (PageData, error) {
	site = site.WithDefaults()
	meta, err := seo.Build(site, rec)
	if err != nil {
		return PageData{}, err
	}
	var body template.HTML
	heading := ""
	if rec != nil {
		body, err = cms.RenderBody(rec.Body)
		if err != nil {
			return PageData{}, err
		}
		heading = seo.FirstPresent(rec.Title, rec.SEOTitle)
	}

	crumbs := seo.Breadcrumbs(site, path, meta.OpenGraph.Title)
	data := PageData{
		Lang:    site.Locale,
		Path:    path,
		Status:  http.StatusOK,
		Meta:    meta,
		Tags:    meta.Tags(),
		Heading: heading,
		Body:    body,
	}
	nodes := []map[string]any{seo.WebSite(site)}
	if strings.Trim(path, "/") == "" {
		nodes = append(nodes, seo.Organization(site, meta.Icons.Icon))
	}
	nodes = append(nodes, seo.WebPage(meta), seo.BreadcrumbList(crumbs))
	for _, node := range nodes {
		if js := seo.JSON(node); js != "" {
			data.JSONLD = append(data.JSONLD, template.JS(js))
		}
	}
	return data, nil
}

// NotFoundData is the view model for the 404 page.
func NotFoundData(site seo.Site, path string) PageData {
	site = site.WithDefaults()
	meta, _ := seo.Build(site, &cms.Record{
		Title:       cms.String("Page not found"),
		Description: cms.String("The page you are looking for does not exist."),
		Slug:        cms.StringSlug(path),
	})
	return PageData{
		Lang:    site.Locale,
		Path:    path,
		Status:  http.StatusNotFound,
		Meta:    meta,
		Tags:    meta.Tags(),
		Heading: "Page not found",
	}
}
