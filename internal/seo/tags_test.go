package seo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rusbers/iannabeauty/internal/cms"
)

func TestMetadataTags(t *testing.T) {
	t.Parallel()

	meta, err := Build(testSite(), &cms.Record{
		Type:        cms.String("service"),
		ID:          cms.String("facials"),
		Slug:        cms.StringSlug("/services/facials"),
		Title:       cms.String("Facials"),
		Description: cms.String("Hydrating facials"),
	})
	require.NoError(t, err)

	byKey := map[string]string{}
	for _, tag := range meta.Tags() {
		switch {
		case tag.IsLink():
			byKey["link:"+tag.Rel] = tag.Href
		case tag.Property != "":
			byKey[tag.Property] = tag.Content
		default:
			byKey[tag.Name] = tag.Content
		}
	}

	image := testBaseURL + "/api/og?id=facials&type=service"
	assert.Equal(t, "Hydrating facials", byKey["description"])
	assert.Equal(t, "My Studio", byKey["author"])
	assert.Equal(t, "summary_large_image", byKey["twitter:card"])
	assert.Equal(t, "@my-studio", byKey["twitter:creator"])
	assert.Equal(t, image, byKey["twitter:image"])
	assert.Equal(t, "website", byKey["og:type"])
	assert.Equal(t, "Facials", byKey["og:title"])
	assert.Equal(t, "Ireland", byKey["og:country-name"])
	assert.Equal(t, image, byKey["og:image"])
	assert.Equal(t, image, byKey["og:image:secure_url"])
	assert.Equal(t, "1200", byKey["og:image:width"])
	assert.Equal(t, "630", byKey["og:image:height"])
	assert.Equal(t, testBaseURL+"/services/facials", byKey["og:url"])
	assert.Equal(t, testBaseURL+"/services/facials", byKey["link:canonical"])
	assert.Equal(t, testBaseURL+"/favicon.ico", byKey["link:icon"])
	assert.NotContains(t, byKey, "keywords")
}
