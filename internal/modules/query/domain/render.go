package domain

import "strings"

type SectionKind string

const (
	SectionError    SectionKind = "error"
	SectionAnswer   SectionKind = "answer"
	SectionPassages SectionKind = "passages"
	SectionGraph    SectionKind = "graph"
)

const (
	HeadingAnswer   = "Answer:"
	HeadingPassages = "Relevant Passages:"
	HeadingGraph    = "Graph Neighbors:"
)

// Section is one independently rendered block of a Response.
type Section struct {
	Kind    SectionKind
	Heading string
	Body    string
	Items   []string
}

// Sections renders the response blocks in display order. Blocks are not
// exclusive; any combination may appear.
func (r Response) Sections() []Section {
	var out []Section
	if r.Error != "" {
		out = append(out, Section{Kind: SectionError, Body: r.Error})
	}
	if r.Answer != "" {
		out = append(out, Section{Kind: SectionAnswer, Heading: HeadingAnswer, Body: r.Answer})
	}
	if r.Passages != nil {
		items := make([]string, 0, len(r.Passages))
		for _, p := range r.Passages {
			items = append(items, p.Text)
		}
		out = append(out, Section{Kind: SectionPassages, Heading: HeadingPassages, Items: items})
	}
	if r.Graph != nil {
		items := make([]string, 0, len(r.Graph))
		for _, g := range r.Graph {
			items = append(items, g.Line())
		}
		out = append(out, Section{Kind: SectionGraph, Heading: HeadingGraph, Items: items})
	}
	return out
}

// Line formats an entry as "entity: n1, n2". No neighbors leaves "entity: ".
func (g GraphEntry) Line() string {
	return g.Entity + ": " + strings.Join(g.Neighbors, ", ")
}

// RenderPlain formats sections for non-interactive output.
func RenderPlain(sections []Section) string {
	var sb strings.Builder
	for i, s := range sections {
		if i > 0 {
			sb.WriteString("\n")
		}
		if s.Heading != "" {
			sb.WriteString(s.Heading + "\n")
		}
		if s.Body != "" {
			sb.WriteString(s.Body + "\n")
		}
		for _, item := range s.Items {
			sb.WriteString("- " + item + "\n")
		}
	}
	return sb.String()
}
