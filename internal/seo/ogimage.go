package seo

import (
	"net/url"
	"strings"
)

// OGImagePath is the image generation endpoint served alongside the site.
const OGImagePath = "/api/og"

// formEscaper adjusts url.Values output to application/x-www-form-urlencoded as browsers emit it:
// "*" stays literal and "~" is percent-encoded.
var formEscaper = strings.NewReplacer("%2A", "*", "~", "%7E")

// OGImageOptions selects the document the preview image is generated for.
type OGImageOptions struct {
	Type string
	ID   string
}

// OGImageURL points at the preview image endpoint on baseURL. Empty options are left out of the
// query; with neither set the URL still ends in "?".
func OGImageURL(baseURL string, opts OGImageOptions) string {
	params := url.Values{}
	if opts.ID != "" {
		params.Set("id", opts.ID)
	}
	if opts.Type != "" {
		params.Set("type", opts.Type)
	}
	return baseURL + OGImagePath + "?" + formEscaper.Replace(params.Encode())
}
