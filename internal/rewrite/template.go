// Package rewrite transforms title and body before publication. Both
// strategies are fail-safe: the orchestrator always gets text back,
// worst case the original pair unchanged.
package rewrite

import (
	"context"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"

	"NewsImporter/internal/ports"
)

// controversyKeywords mark titles that earn the exclusive lead-in.
var controversyKeywords = []string{
	"skandal", "arrestim", "akuzë", "korrupsion", "protestë", "krizë",
	"dënim", "hetim", "dorëheqje", "përplasje", "tensione", "konflikt",
	"sulm", "shpërthim", "tërmet", "urgjencë", "alarm", "tragjedi",
}

var amplifyingPrefixes = []string{
	"EKSKLUZIVE:", "ZBULUAR:", "KONFIRMUAR:", "DRAMATIKE:", "URGJENTE:",
}

var expansionPhrases = []string{
	"Sipas burimeve të besueshme,",
	"Në zhvillimet më të fundit,",
	"Ekspertët thonë se",
	"Sipas analistëve,",
	"Për më tepër,",
	"Në këtë kontekst,",
	"Sipas të dhënave të fundit,",
	"Duhet të përmendet se",
}

var (
	sentenceExpr = regexp.MustCompile(`[^.!?]+[.!?]+`)
	tagExpr      = regexp.MustCompile(`<[^>]*>`)
)

// TemplateRewriter is the deterministic strategy: amplified title,
// body split into thematic sections with expansion phrases, optional
// attribution footer.
type TemplateRewriter struct {
	attribution string
	rand        *rand.Rand
}

var _ ports.Rewriter = (*TemplateRewriter)(nil)

// NewTemplateRewriter builds the template strategy. An empty
// attribution omits the footer.
func NewTemplateRewriter(attribution string) *TemplateRewriter {
	return &TemplateRewriter{
		attribution: attribution,
		rand:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// Rewrite expands the body into sectioned HTML. A body with no
// recognizable sentences passes through untouched.
func (t *TemplateRewriter) Rewrite(_ context.Context, title, body string) (string, string) {
	sentences := sentenceExpr.FindAllString(normalizeText(body), -1)
	if len(sentences) == 0 {
		return t.enhanceTitle(title), body
	}
	return t.enhanceTitle(title), t.expand(sentences)
}

func (t *TemplateRewriter) enhanceTitle(title string) string {
	clean := strings.TrimSpace(title)
	if clean == "" {
		return title
	}
	for _, prefix := range amplifyingPrefixes {
		clean = strings.TrimSpace(strings.TrimPrefix(clean, prefix))
	}
	if clean == "" {
		return title
	}

	lower := strings.ToLower(clean)
	for _, keyword := range controversyKeywords {
		if strings.Contains(lower, keyword) {
			clean = "EKSKLUZIVE: " + clean
			break
		}
	}

	if !strings.ContainsAny(clean[len(clean)-1:], "!?.") {
		clean += "!"
	}
	return clean
}

func (t *TemplateRewriter) expand(sentences []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<p><strong>%s</strong></p>", strings.TrimSpace(sentences[0]))

	if len(sentences) > 1 {
		b.WriteString("<h3>Detajet Kryesore</h3>")
		writeParagraph(&b, sentences, 1, 4)
		fmt.Fprintf(&b, "<p>%s ky zhvillim ka nxitur reagime të menjëhershme.</p>", t.phrase())
	}

	if len(sentences) > 4 {
		b.WriteString("<h3>Konteksti</h3>")
		writeParagraph(&b, sentences, 4, 8)
		fmt.Fprintf(&b, "<p>%s këto ngjarje lidhen me zhvillime më të gjera.</p>", t.phrase())
	}

	if len(sentences) > 8 {
		b.WriteString("<h3>Reagimet</h3>")
		writeParagraph(&b, sentences, 8, len(sentences))
	}

	fmt.Fprintf(&b, "<h3>Përfundim</h3><p>%s situata vazhdon të zhvillohet dhe do të sjellim përditësimet më të fundit.</p>", t.phrase())

	if t.attribution != "" {
		fmt.Fprintf(&b, "<p><em>Ky artikull është publikuar nga %s.</em></p>", t.attribution)
	}

	return b.String()
}

func writeParagraph(b *strings.Builder, sentences []string, from, to int) {
	if to > len(sentences) {
		to = len(sentences)
	}
	b.WriteString("<p>")
	for i := from; i < to; i++ {
		if i > from {
			b.WriteByte(' ')
		}
		b.WriteString(strings.TrimSpace(sentences[i]))
	}
	b.WriteString("</p>")
}

func (t *TemplateRewriter) phrase() string {
	return expansionPhrases[t.rand.IntN(len(expansionPhrases))]
}

// normalizeText flattens markup remnants and whitespace before
// sentence splitting.
func normalizeText(s string) string {
	s = tagExpr.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
