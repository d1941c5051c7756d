package article

import (
	"strings"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"
)

// fingerprintMeta fixes the field order of the hashed metadata.
type fingerprintMeta struct {
	Title       string   `yaml:"title"`
	Author      string   `yaml:"author"`
	Description string   `yaml:"description"`
	Date        string   `yaml:"date"`
	Category    string   `yaml:"category"`
	Tags        []string `yaml:"tags"`
	CoverImage  string   `yaml:"coverImage,omitempty"`
	CoverVideo  string   `yaml:"coverVideo,omitempty"`
}

// Fingerprint returns a stable content hash of the document's metadata and
// body, suitable as an HTTP entity tag. Undated documents hash without their
// (clock-derived) date so the value stays stable between requests.
func Fingerprint(doc Document) string {
	meta := fingerprintMeta{
		Title:       doc.Title,
		Author:      doc.Author,
		Description: doc.Description,
		Category:    doc.Category,
		Tags:        doc.Tags,
		CoverImage:  doc.CoverImage,
		CoverVideo:  doc.CoverVideo,
	}
	if !doc.Undated {
		meta.Date = doc.Date
	}

	serialized, err := yaml.Marshal(meta)
	if err != nil {
		serialized = nil
	}
	fm := strings.TrimSuffix(string(serialized), "\n")
	return mdfp.CalculateFingerprintFromParts(fm, doc.Content)
}
