package shader

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// GL compile logs report positions as "ERROR: <column>:<line>:". The line
// counts the assembled source, preamble included.
var errorLineRe = regexp.MustCompile(`ERROR:\s*\d+:(\d+):`)

// NormalizeLog rewrites raw compiler diagnostics into the user's frame of
// reference: each reported line number is shifted back by lineOffset (the
// preamble length) and clamped to 1, and the position prefix is relabelled
// to a stage-agnostic "ERROR: line <n>:". Everything else in the log,
// including the message text, passes through untouched.
func NormalizeLog(raw string, lineOffset int) string {
	clean := strings.TrimRight(raw, "\x00 \t\n")
	return errorLineRe.ReplaceAllStringFunc(clean, func(match string) string {
		sub := errorLineRe.FindStringSubmatch(match)
		n, err := strconv.Atoi(sub[1])
		if err != nil {
			return match
		}
		n -= lineOffset
		if n < 1 {
			n = 1
		}
		return fmt.Sprintf("ERROR: line %d:", n)
	})
}
