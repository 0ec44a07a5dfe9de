package semanticdb

import (
	"unicode/utf16"

	"github.com/sourcegraph/lsif-flow/internal/protocol"
)

func convertRange(r *Range) (start protocol.Pos, end protocol.Pos) {
	return protocol.Pos{
			Line:      int(r.StartLine),
			Character: int(r.StartCharacter),
		}, protocol.Pos{
			Line:      int(r.EndLine),
			Character: int(r.EndCharacter),
		}
}

// sliceUTF16 returns line[start:end] where the bounds count UTF-16 code units.
func sliceUTF16(line string, start, end int) (string, bool) {
	units := utf16.Encode([]rune(line))
	if start < 0 || end > len(units) || start >= end {
		return "", false
	}

	return string(utf16.Decode(units[start:end])), true
}
