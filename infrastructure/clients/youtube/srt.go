package youtube

import (
	"strings"

	"creator-ops/domain/model"
)

// ParseSRT flattens an SRT document into plain text and timed segments.
// Blocks without an index line, a timing line and at least one text line are ignored.
func ParseSRT(raw string) (string, []model.TranscriptSegment) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.TrimPrefix(raw, "\ufeff")

	var segments []model.TranscriptSegment
	var text []string
	for _, block := range strings.Split(raw, "\n\n") {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 3 {
			continue
		}
		timing := strings.SplitN(lines[1], " --> ", 2)
		if len(timing) != 2 {
			continue
		}
		parts := make([]string, 0, len(lines)-2)
		for _, l := range lines[2:] {
			if l = strings.TrimSpace(l); l != "" {
				parts = append(parts, l)
			}
		}
		cue := strings.Join(parts, " ")
		segments = append(segments, model.TranscriptSegment{
			Start: strings.TrimSpace(timing[0]),
			End:   strings.TrimSpace(timing[1]),
			Text:  cue,
		})
		if cue != "" {
			text = append(text, cue)
		}
	}
	return strings.Join(text, " "), segments
}
