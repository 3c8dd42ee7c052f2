package serp

import (
	"net/url"
	"strings"

	"contact-harvester/internal/contact/patterns"
	"contact-harvester/internal/models"

	"github.com/PuerkitoBio/goquery"
)

const (
	placeholderTitle   = "No title"
	placeholderSnippet = "No snippet"
)

// snippet containers seen across results-page layouts, most specific first
var snippetSelectors = []string{
	"span.aCOpRe",
	"div.VwiC3b",
	"div.IsZvec",
	"span.st",
	"div[data-sncf]",
	"div.BNeawe.s3v9rd",
}

// panelField locates one knowledge-panel field by its data-attrid markers.
type panelField struct {
	selectors []string
	set       func(p *models.KnowledgePanel, v string)
}

var panelFields = []panelField{
	{
		selectors: []string{`[data-attrid="title"]`, `div.kp-header h2`},
		set:       func(p *models.KnowledgePanel, v string) { p.Title = v },
	},
	{
		selectors: []string{`[data-attrid="subtitle"]`, `[data-attrid="description"]`, `div.kno-rdesc span`},
		set:       func(p *models.KnowledgePanel, v string) { p.Description = v },
	},
	{
		selectors: []string{`[data-attrid="kc:/location/location:address"]`, `[data-local-attribute="d3adr"]`},
		set:       func(p *models.KnowledgePanel, v string) { p.Address = v },
	},
	{
		selectors: []string{`[data-attrid="kc:/collection/knowledge_panels/has_phone:phone"]`, `[data-local-attribute="d3ph"]`},
		set:       func(p *models.KnowledgePanel, v string) { p.Phone = v },
	},
	{
		selectors: []string{`[data-attrid="kc:/local:price range"]`, `[data-attrid="kc:/local:price_range"]`},
		set:       func(p *models.KnowledgePanel, v string) { p.PriceTier = v },
	},
}

const (
	hoursSelector  = `[data-attrid="kc:/location/location:hours"]`
	socialSelector = `[data-attrid="kc:/common/topic:social media presence"]`
	ratingSelector = `span.Aq14fc, [data-attrid="kc:/local:lu attribute list"] span.yi40Hd`
	reviewSelector = `span.hqzQac, a[data-sort_by="qualityScore"]`
	// basic-HTML layout served to unrecognized user agents
	oneboxSelector = `div[data-attrid="kc:/local:onebox"]`
)

// ParseResultsPage extracts the knowledge panel, if any, and every organic
// result block in page order. base resolves relative links. Missing titles
// and snippets become placeholders; a missing link stays empty.
func ParseResultsPage(body string, base *url.URL) (*models.KnowledgePanel, []models.SearchResult) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, nil
	}
	return parseKnowledgePanel(doc), parseOrganicResults(doc, base)
}

func parseKnowledgePanel(doc *goquery.Document) *models.KnowledgePanel {
	panel := &models.KnowledgePanel{}

	for _, f := range panelFields {
		for _, sel := range f.selectors {
			if v := fieldValue(doc.Find(sel).First()); v != "" {
				f.set(panel, v)
				break
			}
		}
	}

	if v := cleanText(doc.Find(ratingSelector).First().Text()); v != "" {
		panel.Rating = v
	}
	if v := cleanText(doc.Find(reviewSelector).First().Text()); v != "" {
		panel.ReviewCount = strings.Trim(v, "()")
	}
	panel.Hours = parsePanelHours(doc.Find(hoursSelector).First())

	doc.Find(socialSelector).Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && href != "" {
			panel.SocialProfiles = append(panel.SocialProfiles, href)
		}
	})

	parseOnebox(doc.Find(oneboxSelector).First(), panel)

	if panel.IsZero() {
		return nil
	}
	return panel
}

// parseOnebox reads the basic-HTML local onebox: a title span and a contact
// span holding address and phone lines.
func parseOnebox(box *goquery.Selection, panel *models.KnowledgePanel) {
	if box.Length() == 0 {
		return
	}
	if panel.Title == "" {
		panel.Title = cleanText(box.Find("span.BNeawe.tAd8D.AP7Wnd").First().Text())
	}
	contact := box.Find("span.BNeawe.s3v9rd.AP7Wnd")
	contact.Each(func(_ int, s *goquery.Selection) {
		v := cleanText(s.Text())
		if v == "" {
			return
		}
		label, value := splitLabel(v)
		switch strings.ToLower(label) {
		case "endereço", "endereco", "address":
			if panel.Address == "" {
				panel.Address = value
			}
		case "telefone", "phone":
			if panel.Phone == "" {
				panel.Phone = value
			}
		case "horário", "horario", "hours":
			if panel.Hours == "" {
				panel.Hours = value
			}
		case "":
			// unlabeled contact line
			if addrs := patterns.FindAddresses(value); len(addrs) > 0 {
				if panel.Address == "" {
					panel.Address = addrs[0]
				}
			} else if phones := patterns.FindPhoneCandidates(value); len(phones) > 0 && panel.Phone == "" {
				panel.Phone = phones[0]
			}
		}
	})
}

// fieldValue reads a panel field. Google renders "Label: value" with the
// label in span.w8qArf and the value in span.LrzXr.
func fieldValue(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}
	if v := cleanText(s.Find("span.LrzXr").First().Text()); v != "" {
		return v
	}
	text := cleanText(s.Text())
	if label := cleanText(s.Find("span.w8qArf").First().Text()); label != "" {
		return strings.TrimSpace(strings.TrimPrefix(text, label))
	}
	return text
}

// parsePanelHours flattens the opening-hours table into "day time; day time".
func parsePanelHours(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}
	var rows []string
	s.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			if v := cleanText(td.Text()); v != "" {
				cells = append(cells, v)
			}
		})
		if len(cells) > 0 {
			rows = append(rows, strings.Join(cells, " "))
		}
	})
	if len(rows) > 0 {
		return strings.Join(rows, "; ")
	}
	return fieldValue(s)
}

func parseOrganicResults(doc *goquery.Document, base *url.URL) []models.SearchResult {
	blocks := doc.Find("div.g").FilterFunction(func(_ int, s *goquery.Selection) bool {
		// nested result containers: keep the innermost
		return s.Find("div.g").Length() == 0
	})
	if blocks.Length() == 0 {
		blocks = doc.Find("div.Gx5Zad")
	}

	results := make([]models.SearchResult, 0, blocks.Length())
	blocks.Each(func(_ int, g *goquery.Selection) {
		results = append(results, parseResultBlock(g, base))
	})
	return results
}

func parseResultBlock(g *goquery.Selection, base *url.URL) models.SearchResult {
	result := models.SearchResult{
		Title:   placeholderTitle,
		Snippet: placeholderSnippet,
	}

	title := cleanText(g.Find("h3").First().Text())
	if title == "" {
		title = cleanText(g.Find("div.BNeawe.vvjwJb").First().Text())
	}
	if title != "" {
		result.Title = title
	}

	if href, ok := g.Find("a[href]").First().Attr("href"); ok {
		result.Link = resolveLink(href, base)
	}

	for _, sel := range snippetSelectors {
		if v := cleanText(g.Find(sel).First().Text()); v != "" {
			result.Snippet = v
			break
		}
	}

	return result
}

// resolveLink unwraps /url?q= redirects and resolves relative links.
func resolveLink(href string, base *url.URL) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Path == "/url" {
		q := u.Query()
		for _, key := range []string{"q", "url"} {
			if target := q.Get(key); target != "" {
				if t, err := url.Parse(target); err == nil && t.IsAbs() {
					return t.String()
				}
			}
		}
	}
	return u.String()
}

func splitLabel(s string) (string, string) {
	if i := strings.Index(s, ":"); i > 0 && i < 30 && !strings.Contains(s[:i], "//") {
		label := strings.TrimSpace(s[:i])
		value := strings.TrimSpace(s[i+1:])
		if value != "" && !strings.ContainsAny(label, "0123456789") {
			return label, value
		}
	}
	return "", s
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
