package chat

import (
	"encoding/json"
	"strings"
)

// doneSentinel terminates the provider's chunk stream.
const doneSentinel = "[DONE]"

// chunkRecord is the provider's per-record envelope. Fields other than the
// text delta are ignored.
type chunkRecord struct {
	AnswerChunk *string `json:"answer_chunk"`
}

// DecodeChunk extracts the text fragments carried by one raw provider chunk.
// A chunk may contain several newline-delimited records; blank lines and the
// [DONE] sentinel contribute nothing, optional "data:" framing is stripped,
// and records that fail to parse or lack the text-delta field are skipped.
// It never fails: malformed input degrades to an empty result.
func DecodeChunk(raw string) []string {
	var fragments []string
	for _, line := range strings.Split(raw, "\n") {
		if fragment, ok := decodeLine(line); ok {
			fragments = append(fragments, fragment)
		}
	}
	return fragments
}

// decodeLine extracts zero or one fragment from a single record line.
func decodeLine(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || line == doneSentinel {
		return "", false
	}
	if rest, found := strings.CutPrefix(line, "data:"); found {
		line = strings.TrimSpace(rest)
		if line == "" || line == doneSentinel {
			return "", false
		}
	}

	var record chunkRecord
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		return "", false
	}
	if record.AnswerChunk == nil {
		return "", false
	}
	return *record.AnswerChunk, true
}
