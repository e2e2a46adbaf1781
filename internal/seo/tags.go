package seo

import (
	"strconv"
	"strings"
)

// Tag is one <meta> or <link> element in the page head. Exactly one of Name, Property or Rel is
// set; Rel tags carry Href, the others Content.
type Tag struct {
	Name     string
	Property string
	Rel      string
	Content  string
	Href     string
}

// IsLink reports whether the tag renders as <link>.
func (t Tag) IsLink() bool { return t.Rel != "" }

// Tags flattens the metadata into head elements in a stable order. The document title is not
// included; templates render it in <title>.
func (m Metadata) Tags() []Tag {
	tags := []Tag{
		{Name: "description", Content: m.Description},
	}
	for _, a := range m.Authors {
		tags = append(tags, Tag{Name: "author", Content: a.Name})
	}
	if m.Creator != "" {
		tags = append(tags, Tag{Name: "creator", Content: m.Creator})
	}
	if len(m.Keywords) > 0 {
		tags = append(tags, Tag{Name: "keywords", Content: strings.Join(m.Keywords, ", ")})
	}

	tags = append(tags,
		Tag{Name: "twitter:card", Content: m.Twitter.Card},
		Tag{Name: "twitter:creator", Content: m.Twitter.Creator},
		Tag{Name: "twitter:title", Content: m.Twitter.Title},
		Tag{Name: "twitter:description", Content: m.Twitter.Description},
	)
	for _, img := range m.Twitter.Images {
		tags = append(tags, Tag{Name: "twitter:image", Content: img})
	}

	og := m.OpenGraph
	tags = append(tags,
		Tag{Property: "og:type", Content: og.Type},
		Tag{Property: "og:country-name", Content: og.CountryName},
		Tag{Property: "og:title", Content: og.Title},
		Tag{Property: "og:description", Content: og.Description},
		Tag{Property: "og:url", Content: og.URL},
	)
	for _, img := range og.Images {
		tags = append(tags,
			Tag{Property: "og:image", Content: img.URL},
			Tag{Property: "og:image:secure_url", Content: img.SecureURL},
			Tag{Property: "og:image:width", Content: strconv.Itoa(img.Width)},
			Tag{Property: "og:image:height", Content: strconv.Itoa(img.Height)},
			Tag{Property: "og:image:alt", Content: img.Alt},
		)
	}

	if m.Alternates.Canonical != "" {
		tags = append(tags, Tag{Rel: "canonical", Href: m.Alternates.Canonical})
	}
	if m.Icons.Icon != "" {
		tags = append(tags, Tag{Rel: "icon", Href: m.Icons.Icon})
	}
	return tags
}
