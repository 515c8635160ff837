package tool

import "strings"

// Separator joins the gateway target name and the tool name.
const Separator = "___"

// Name represents a tool name as seen by the gateway, optionally qualified
// with its target, e.g. BedrockKBMCPTarget___QueryKnowledgeBases.
type Name string

// Target returns the target prefix or an empty string for bare names.
func (t Name) Target() string {
	name := string(t)
	if idx := strings.Index(name, Separator); idx != -1 {
		return name[:idx]
	}
	return ""
}

// Tool returns the unqualified tool name.
func (t Name) Tool() string {
	name := string(t)
	if idx := strings.Index(name, Separator); idx != -1 {
		return name[idx+len(Separator):]
	}
	return name
}

func (t Name) String() string {
	return string(t)
}

// NewName returns target-qualified tool name
func NewName(target, tool string) Name {
	if target == "" {
		return Name(tool)
	}
	return Name(target + Separator + tool)
}
