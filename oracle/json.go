package oracle

import (
	"fmt"
	"strings"
)

// ExtractJSON pulls the embedded JSON object out of an oracle reply
// that may wrap it in prose, matching from the first '{' to the last '}'.
func ExtractJSON(reply string) (string, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON object in oracle reply")
	}
	return reply[start : end+1], nil
}
