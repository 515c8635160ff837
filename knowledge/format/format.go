// Package format renders knowledge base listings and query results as the
// markdown text returned to MCP clients.
package format

import (
	"fmt"
	"strings"

	"github.com/viant/kbgateway/knowledge"
)

// QueryResults renders retrieved passages with their score and source.
func QueryResults(result *knowledge.QueryResult) string {
	if result == nil {
		result = &knowledge.QueryResult{}
	}
	var b strings.Builder
	b.WriteString("# Knowledge Base Query Results\n\n")
	fmt.Fprintf(&b, "**Query**: %s\n", result.Query)
	fmt.Fprintf(&b, "**Knowledge Base ID**: %s\n", result.KnowledgeBaseID)
	fmt.Fprintf(&b, "**Result Count**: %d\n\n", result.Count)

	if len(result.Results) == 0 {
		b.WriteString("No relevant results found.\n")
		return b.String()
	}

	for i, item := range result.Results {
		content := item.Content
		if content == "" {
			content = "No content"
		}
		fmt.Fprintf(&b, "## Result %d (Score: %.4f)\n\n", i+1, item.Score)
		fmt.Fprintf(&b, "%s\n\n", content)
		if source, ok := sourceOf(item.Location); ok {
			fmt.Fprintf(&b, "**Source**: %s\n\n", source)
		}
		b.WriteString("---\n\n")
	}
	return b.String()
}

// sourceOf reports the S3 URI (or "unknown") for S3 passages and the document
// URL or id for other connectors. SQL passages have no source.
func sourceOf(location *knowledge.Location) (string, bool) {
	if location == nil {
		return "", false
	}
	if location.S3Location != nil {
		if location.S3Location.URI == "" {
			return "unknown", true
		}
		return location.S3Location.URI, true
	}
	if location.URL != "" {
		return location.URL, true
	}
	return "", false
}

// KnowledgeBases renders the knowledge base catalogue.
func KnowledgeBases(kbs []knowledge.KnowledgeBase) string {
	var b strings.Builder
	b.WriteString("# Available Knowledge Bases\n\n")
	fmt.Fprintf(&b, "Found %d knowledge base(s)\n\n", len(kbs))

	if len(kbs) == 0 {
		b.WriteString("No knowledge bases found.\n")
		return b.String()
	}

	for i, kb := range kbs {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, orDefault(kb.Name, "Unnamed"))
		fmt.Fprintf(&b, "**ID**: %s\n", orDefault(kb.ID, "unknown"))
		fmt.Fprintf(&b, "**Description**: %s\n", orDefault(kb.Description, "No description"))
		if len(kb.DataSources) > 0 {
			fmt.Fprintf(&b, "**Data Sources** (%d):\n", len(kb.DataSources))
			for _, ds := range kb.DataSources {
				fmt.Fprintf(&b, "  - %s (Status: %s)\n", orDefault(ds.Name, "Unnamed"), orDefault(ds.Status, "unknown"))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
