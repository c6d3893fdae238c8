package rendering

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestRenderHTML_Structure(t *testing.T) {
	out, err := RenderHTML(sampleProfile(), "")
	require.NoError(t, err)
	doc := parseHTML(t, out)

	var headers []string
	doc.Find("section > h2").Each(func(_ int, s *goquery.Selection) {
		headers = append(headers, s.Text())
	})
	assert.Equal(t, sectionOrder, headers)

	assert.Equal(t, 2, doc.Find(".entry.experience").Length())
	assert.Equal(t, 1, doc.Find(".entry.education").Length())
	assert.Equal(t, "Acme & Sons", doc.Find(".experience .company").First().Text())
	assert.Equal(t, "classic", doc.Find("body").AttrOr("class", ""))

	var skills []string
	doc.Find(".skill").Each(func(_ int, s *goquery.Selection) {
		skills = append(skills, s.Text())
	})
	assert.Equal(t, []string{"Go", "Rust", "SQL"}, skills)
	assert.Equal(t, 3, doc.Find(".soft-skill").Length())
}

func TestRenderHTML_EscapesMarkup(t *testing.T) {
	profile := sampleProfile()
	profile.Projects[0].Title = `<script>alert(1)</script>`
	profile.Projects[0].GithubURL = strPtr("javascript:alert(1)")

	out, err := RenderHTML(profile, TemplateCompact)
	require.NoError(t, err)
	doc := parseHTML(t, out)

	assert.Equal(t, 0, doc.Find("script").Length())
	assert.Equal(t, `<script>alert(1)</script>`, doc.Find(".project strong").Text())
	href, _ := doc.Find(".project a").Attr("href")
	assert.NotContains(t, href, "javascript:")
	assert.Equal(t, "compact", doc.Find("body").AttrOr("class", ""))
}

func TestRenderHTML_UnknownTemplate(t *testing.T) {
	_, err := RenderHTML(sampleProfile(), "nope")
	var templateErr *TemplateError
	assert.ErrorAs(t, err, &templateErr)
}
