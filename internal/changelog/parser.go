package changelog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// maxLineSize bounds a single JSON Lines record.
const maxLineSize = 1024 * 1024

// Load reads commit records from a JSON Lines file.
func Load(path string) ([]Commit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening commit file: %w", err)
	}
	defer f.Close()

	return ParseCommits(f)
}

// ParseCommits reads one JSON object per line. Blank lines are skipped, so
// empty input yields no commits. The first malformed line aborts the parse
// with a ParseError; no partial result is returned.
func ParseCommits(r io.Reader) ([]Commit, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var commits []Commit
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var c Commit
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		commits = append(commits, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Line: line + 1, Err: err}
	}

	return commits, nil
}

// WriteCommits writes commits as JSON Lines, the inverse of ParseCommits.
func WriteCommits(w io.Writer, commits []Commit) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, c := range commits {
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("encoding commit %q: %w", c.Subject, err)
		}
	}
	return nil
}
