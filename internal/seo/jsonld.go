package seo

import (
	"encoding/json"
	"strings"
	"unicode"
	"unicode/utf8"
)

const schemaContext = "https://schema.org"

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Organization describes the studio behind the site.
func Organization(site Site, logoURL string) map[string]any {
	site = site.WithDefaults()
	m := map[string]any{
		"@context": schemaContext,
		"@type":    "Organization",
		"name":     site.Name,
		"url":      site.BaseURL,
	}
	if logoURL != "" {
		m["logo"] = logoURL
	}
	if site.CountryName != "" {
		m["address"] = map[string]any{
			"@type":          "PostalAddress",
			"addressCountry": site.CountryName,
		}
	}
	return m
}

// WebSite returns the WebSite node for the site root.
func WebSite(site Site) map[string]any {
	site = site.WithDefaults()
	return map[string]any{
		"@context":   schemaContext,
		"@type":      "WebSite",
		"name":       site.Name,
		"url":        site.BaseURL,
		"inLanguage": site.Locale,
	}
}

// WebPage derives a WebPage node from resolved metadata.
func WebPage(m Metadata) map[string]any {
	page := map[string]any{
		"@context": schemaContext,
		"@type":    "WebPage",
		"name":     m.OpenGraph.Title,
		"url":      m.Alternates.Canonical,
	}
	if m.Description != "" {
		page["description"] = m.Description
	}
	if len(m.OpenGraph.Images) > 0 {
		page["primaryImageOfPage"] = map[string]any{
			"@type":  "ImageObject",
			"url":    m.OpenGraph.Images[0].URL,
			"width":  m.OpenGraph.Images[0].Width,
			"height": m.OpenGraph.Images[0].Height,
		}
	}
	return page
}

// BreadcrumbItem maps name and absolute item URL.
type BreadcrumbItem struct {
	Name string
	Item string
}

// Breadcrumbs splits a page path into one crumb per segment under the site root. Segment names
// are prettified from the slug; the last crumb uses title when given.
func Breadcrumbs(site Site, path, title string) []BreadcrumbItem {
	site = site.WithDefaults()
	items := []BreadcrumbItem{{Name: site.Name, Item: site.BaseURL + "/"}}
	segments := strings.Split(strings.Trim(path, "/"), "/")
	acc := site.BaseURL
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		acc += "/" + seg
		name := prettifySegment(seg)
		if i == len(segments)-1 && title != "" {
			name = title
		}
		items = append(items, BreadcrumbItem{Name: name, Item: acc})
	}
	return items
}

// BreadcrumbList builds schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
			"item":     it.Item,
		})
	}
	return map[string]any{
		"@context":        schemaContext,
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}

func prettifySegment(seg string) string {
	parts := strings.Split(seg, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		r, n := utf8.DecodeRuneInString(part)
		parts[i] = string(unicode.ToUpper(r)) + part[n:]
	}
	return strings.Join(parts, " ")
}
