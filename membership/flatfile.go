package membership

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadFlatfile parses a flatfile: one node address per line, with blank lines
// and lines starting with # ignored. Duplicate entries are returned once.
func ReadFlatfile(r io.Reader) ([]NodeID, error) {
	var (
		ids     []NodeID
		seen    = make(map[NodeID]struct{})
		scanner = bufio.NewScanner(r)
		lineNum int
	)

	for scanner.Scan() {
		lineNum++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		id, err := ParseNodeID(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read flatfile: %w", err)
	}

	return ids, nil
}

// LoadFlatfile reads the flatfile at the given path.
func LoadFlatfile(path string) ([]NodeID, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open flatfile: %w", err)
	}

	defer f.Close()

	return ReadFlatfile(f)
}
