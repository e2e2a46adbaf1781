package seo

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Site carries the site-wide values every page's metadata is built from.
type Site struct {
	BaseURL        string
	Name           string
	Creator        string
	TwitterCreator string
	CountryName    string
	// Locale is a BCP 47 tag used for the document language.
	Locale string
}

const (
	DefaultSiteName       = "Ianna Beauty"
	DefaultCreator        = "My Studio"
	DefaultTwitterCreator = "@my-studio"
	DefaultCountryName    = "Ireland"
	DefaultLocale         = "en-IE"

	TwitterCardLarge = "summary_large_image"
	OGTypeWebsite    = "website"

	OGImageWidth  = 1200
	OGImageHeight = 630
)

// WithDefaults fills empty presentation fields with the studio defaults.
func (s Site) WithDefaults() Site {
	if s.Name == "" {
		s.Name = DefaultSiteName
	}
	if s.Creator == "" {
		s.Creator = DefaultCreator
	}
	if s.TwitterCreator == "" {
		s.TwitterCreator = DefaultTwitterCreator
	}
	if s.CountryName == "" {
		s.CountryName = DefaultCountryName
	}
	if s.Locale == "" {
		s.Locale = DefaultLocale
	}
	return s
}

// Metadata is the page head description handed to the rendering layer. JSON names are part of
// the contract with the renderer and must not change.
type Metadata struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	MetadataBase BaseURL    `json:"metadataBase"`
	Creator      string     `json:"creator"`
	Authors      []Author   `json:"authors"`
	Icons        Icons      `json:"icons"`
	Keywords     []string   `json:"keywords"`
	Twitter      Twitter    `json:"twitter"`
	Alternates   Alternates `json:"alternates"`
	OpenGraph    OpenGraph  `json:"openGraph"`
}

type Author struct {
	Name string `json:"name"`
}

type Icons struct {
	Icon string `json:"icon"`
}

type Twitter struct {
	Card        string   `json:"card"`
	Images      []string `json:"images"`
	Creator     string   `json:"creator"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
}

type Alternates struct {
	Canonical string `json:"canonical"`
}

type OpenGraph struct {
	Type        string    `json:"type"`
	CountryName string    `json:"countryName"`
	Description string    `json:"description"`
	Title       string    `json:"title"`
	Images      []OGImage `json:"images"`
	URL         string    `json:"url"`
}

type OGImage struct {
	URL       string `json:"url"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Alt       string `json:"alt"`
	SecureURL string `json:"secureUrl"`
}

// BaseURL is a parsed absolute URL. It serializes as its href, with an empty path written as "/".
type BaseURL struct {
	url.URL
}

var defaultPorts = map[string]string{"http": "80", "https": "443"}

// ParseBaseURL parses raw and requires an absolute URL with a host. The host is lowercased and a
// default port dropped, as browsers do.
func ParseBaseURL(raw string) (BaseURL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return BaseURL{}, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return BaseURL{}, ErrInvalidBaseURL
	}
	u.Host = strings.ToLower(u.Host)
	if port := u.Port(); port != "" && port == defaultPorts[u.Scheme] {
		u.Host = strings.TrimSuffix(u.Host, ":"+port)
	}
	return BaseURL{URL: *u}, nil
}

// Href returns the serialized form.
func (b BaseURL) Href() string {
	u := b.URL
	if u.Scheme == "" && u.Host == "" {
		return ""
	}
	if u.Path == "" && u.RawPath == "" {
		u.Path = "/"
	}
	return u.String()
}

func (b BaseURL) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Href())
}
