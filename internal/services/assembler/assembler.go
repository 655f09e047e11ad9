// Package assembler turns the generated pieces into the final markdown
// document. Ordering is a hard contract: opening, executive summary,
// table of contents, body sections in outline order, references. The
// renderer depends on that order for page-break placement.
package assembler

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/models"
	"github.com/ternarybob/indago/internal/services/sources"
)

// citationRegex matches in-text citation markers like [3].
var citationRegex = regexp.MustCompile(`\[(\d+)\]`)

// numericPrefixRegex matches leading list numbers like "3." or "10" in
// section titles.
var numericPrefixRegex = regexp.MustCompile(`^\d+\.?\s*`)

// Assembler composes the final report document.
type Assembler struct {
	logger arbor.ILogger
}

// New creates an assembler.
func New(logger arbor.ILogger) *Assembler {
	return &Assembler{logger: logger}
}

// Anchor derives the stable HTML anchor for a section title. The leading
// list number is stripped before hyphenation so "3. Valuation (DCF)" and
// a renumbered "4. Valuation (DCF)" link to the same anchor text.
func Anchor(title string) string {
	a := strings.ToLower(strings.TrimSpace(title))
	a = numericPrefixRegex.ReplaceAllString(a, "")
	a = strings.ReplaceAll(a, ".", "")
	a = strings.ReplaceAll(a, " ", "-")
	a = strings.ReplaceAll(a, "(", "")
	a = strings.ReplaceAll(a, ")", "")
	a = strings.ReplaceAll(a, "&", "and")
	return a
}

// ExtractCitedNumbers scans body text for [n] citation markers and
// returns the distinct numbers in ascending order. Frequency and
// first-use order are irrelevant; the set defines the references list.
func ExtractCitedNumbers(text string) []int {
	seen := make(map[int]struct{})
	for _, match := range citationRegex.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		seen[n] = struct{}{}
	}

	numbers := make([]int, 0, len(seen))
	for n := range seen {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}

// Body renders the generated sections in order, each under its own
// heading with a stable anchor for the table of contents to target.
func (a *Assembler) Body(sections []models.Section) string {
	blocks := make([]string, 0, len(sections))
	for _, section := range sections {
		title := strings.TrimSpace(section.Title)
		blocks = append(blocks, fmt.Sprintf("<a id=\"%s\"></a>\n\n## %s\n\n%s", Anchor(title), section.Title, section.Content))
	}
	return strings.Join(blocks, "\n\n")
}

// TableOfContents lists the outline titles as given plus a final
// References entry, then breaks to a fresh page.
func (a *Assembler) TableOfContents(outline []string) string {
	var b strings.Builder
	b.WriteString("<a id=\"table-of-contents\"></a>\n\n## Table of Contents\n\n")
	for _, title := range outline {
		b.WriteString(strings.TrimSpace(title))
		b.WriteString("\n")
	}
	b.WriteString("- References\n\n")
	b.WriteString("<div style='page-break-after: always;'></div>\n\n")
	b.WriteString("---\n\n")
	return b.String()
}

// References renders one entry per cited number in ascending order. A
// number with no registry entry still gets a placeholder line; silently
// dropping a citation index would leave dangling markers in the text.
func (a *Assembler) References(registry *sources.Registry, citedNumbers []int) string {
	if len(citedNumbers) == 0 {
		a.logger.Debug().Msg("No cited numbers found, skipping references section")
		return ""
	}

	parts := []string{
		"\n\n---\n",
		"\n<a id=\"references\"></a>\n\n## References\n\n",
	}

	resolved := 0
	for _, num := range citedNumbers {
		ref, ok := registry.Lookup(num)
		if !ok {
			a.logger.Warn().
				Int("citation", num).
				Msg("Citation found in text but no source info available")
			parts = append(parts, fmt.Sprintf("**[%d]** Source information unavailable\n\n", num))
			continue
		}

		titlePart := ""
		if title := strings.TrimSpace(ref.Title); title != "" {
			titlePart = fmt.Sprintf(" (%s)", title)
		}
		parts = append(parts, fmt.Sprintf("**[%d]** %s [link](%s)\n\n", num, titlePart, strings.TrimSpace(ref.URL)))
		resolved++
	}

	a.logger.Debug().
		Int("resolved", resolved).
		Int("cited", len(citedNumbers)).
		Msg("References section generated")

	return strings.Join(parts, "\n")
}

// Assemble concatenates the framing blocks, table of contents, body, and
// references into the final document.
func (a *Assembler) Assemble(opening, executiveSummary string, outline []string, body string, registry *sources.Registry) string {
	toc := a.TableOfContents(outline)
	references := a.References(registry, ExtractCitedNumbers(body))
	return opening + "\n\n" + executiveSummary + "\n\n" + toc + "\n\n" + body + "\n\n" + references
}
