package decompose

import (
	"regexp"
	"strings"
)

// maxSegments caps how many subtasks one decomposition may produce.
// Longer inputs are truncated, never rejected.
const maxSegments = 10

// minFragmentLen is the shortest connective-split fragment worth keeping.
const minFragmentLen = 10

var (
	// listItemRe matches one bulleted or numbered list item per line.
	listItemRe = regexp.MustCompile(`(?m)^\s*(?:\d+[.)]|[-*•])\s+(.+)$`)
	// connectiveRe matches sequence connectives preceded by sentence
	// punctuation, the split points for prose task descriptions.
	connectiveRe = regexp.MustCompile(`(?i)[.!?;]\s+(?:then|next|after that|finally|first|second|third|lastly)\b[,:]?\s*`)
)

// segmentText splits a task description into ordered work fragments.
// It prefers explicit list items (at least two required), then sequence
// connectives, then falls back to the whole text as a single segment.
func segmentText(text string) []string {
	if items := listItems(text); len(items) >= 2 {
		return capSegments(items)
	}

	var kept []string
	for _, frag := range connectiveRe.Split(text, -1) {
		frag = strings.TrimSpace(frag)
		if len(frag) > minFragmentLen {
			kept = append(kept, frag)
		}
	}
	if len(kept) > 1 {
		return capSegments(kept)
	}

	return []string{strings.TrimSpace(text)}
}

// listItems extracts the text of each bulleted or numbered line.
func listItems(text string) []string {
	matches := listItemRe.FindAllStringSubmatch(text, -1)
	items := make([]string, 0, len(matches))
	for _, m := range matches {
		item := strings.TrimSpace(m[1])
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

func capSegments(segments []string) []string {
	if len(segments) > maxSegments {
		return segments[:maxSegments]
	}
	return segments
}
