package seo

import (
	"errors"

	"github.com/rusbers/iannabeauty/internal/cms"
)

// ErrInvalidBaseURL is returned when the site base URL is not an absolute URL.
var ErrInvalidBaseURL = errors.New("seo: base url must be absolute")

// FirstPresent returns the first non-nil value, or "" when all are nil. An empty string that is
// present still wins over later values.
func FirstPresent(values ...*string) string {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return ""
}

// Build assembles the page metadata for rec. A nil rec is treated as an empty record; the only
// failure is a site base URL that cannot be parsed as an absolute URL.
func Build(site Site, rec *cms.Record) (Metadata, error) {
	if rec == nil {
		rec = &cms.Record{}
	}
	site = site.WithDefaults()

	base, err := ParseBaseURL(site.BaseURL)
	if err != nil {
		return Metadata{}, err
	}

	pageURL := site.BaseURL + rec.Slug.Resolve()
	title := FirstPresent(rec.SEOTitle, rec.Title)
	description := FirstPresent(rec.SEODescription, rec.Description)
	image := OGImageURL(site.BaseURL, OGImageOptions{
		Type: FirstPresent(rec.Type),
		ID:   FirstPresent(rec.ID),
	})

	return Metadata{
		Title:        title + " | " + site.Name,
		Description:  description,
		MetadataBase: base,
		Creator:      site.Creator,
		Authors:      []Author{{Name: site.Creator}},
		Icons:        Icons{Icon: site.BaseURL + "/favicon.ico"},
		Keywords:     []string{},
		Twitter: Twitter{
			Card:        TwitterCardLarge,
			Images:      []string{image},
			Creator:     site.TwitterCreator,
			Title:       title,
			Description: description,
		},
		Alternates: Alternates{Canonical: pageURL},
		OpenGraph: OpenGraph{
			Type:        OGTypeWebsite,
			CountryName: site.CountryName,
			Description: description,
			Title:       title,
			Images: []OGImage{{
				URL:       image,
				Width:     OGImageWidth,
				Height:    OGImageHeight,
				Alt:       title,
				SecureURL: image,
			}},
			URL: pageURL,
		},
	}, nil
}
