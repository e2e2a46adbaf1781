package cms

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type recordFrontMatter struct {
	Type        *string              `yaml:"type"`
	ID          *string              `yaml:"id"`
	Slug        Slug                 `yaml:"slug"`
	Title       *string              `yaml:"title"`
	Description *string              `yaml:"description"`
	SEO         recordFrontMatterSEO `yaml:"seo"`
}

type recordFrontMatterSEO struct {
	Title       *string `yaml:"title"`
	Description *string `yaml:"description"`
}

// UnmarshalYAML mirrors UnmarshalJSON for markdown front matter.
func (s *Slug) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*s = NoSlug()
			return nil
		}
		*s = StringSlug(value.Value)
		return nil
	case yaml.MappingNode:
		var w struct {
			Current *string `yaml:"current"`
		}
		if err := value.Decode(&w); err != nil {
			return fmt.Errorf("cms: decode slug: %w", err)
		}
		*s = WrapperSlug(w.Current)
		return nil
	default:
		return fmt.Errorf("cms: unsupported slug node at line %d", value.Line)
	}
}

// readRecordMarkdown loads <contentDir>/<key>.md. Documents without a slug in their front matter
// are published under "/<key>", except the home document which keeps no slug.
func readRecordMarkdown(contentDir, key string) (Record, error) {
	if key == "" {
		return Record{}, ErrNotFound
	}
	file := filepath.Join(contentDir, filepath.FromSlash(key)+".md")
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	fm, body := splitFrontMatter(string(data))
	front := recordFrontMatter{}
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Record{}, fmt.Errorf("cms: parse front matter %s: %w", file, err)
		}
	}
	rec := Record{
		Type:           front.Type,
		ID:             front.ID,
		Slug:           front.Slug,
		Title:          front.Title,
		Description:    front.Description,
		SEOTitle:       front.SEO.Title,
		SEODescription: front.SEO.Description,
		Body:           body,
	}
	if rec.Slug.Kind() == SlugAbsent && key != homeSlug {
		rec.Slug = StringSlug("/" + key)
	}
	return rec, nil
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}
