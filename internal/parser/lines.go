package parser

import (
	"bufio"
	"io"
	"strings"
)

// maxLineBytes bounds a single report line; tool exports with long messages
// exceed bufio's 64 KiB default.
const maxLineBytes = 4 * 1024 * 1024

// ScanLines calls fn for every line of r after skipping the first skip lines.
// Line terminators, including a trailing carriage return, are removed.
func ScanLines(r io.Reader, skip int, fn func(line string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	n := 0
	for scanner.Scan() {
		n++
		if n <= skip {
			continue
		}
		fn(strings.TrimSuffix(scanner.Text(), "\r"))
	}
	return scanner.Err()
}
