package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// maxSaltLine bounds a single line of a salt file.
const maxSaltLine = 1 << 20

// loadSaltFile reads one salt per line. Surrounding whitespace is trimmed and
// blank lines are skipped; a file with no salts is an error.
func loadSaltFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open salt file: %w", err)
	}
	defer f.Close()

	var salts []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxSaltLine)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			salts = append(salts, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read salt file: %w", err)
	}
	if len(salts) == 0 {
		return nil, fmt.Errorf("%w: salt file %s contains no salts", errUsage, path)
	}
	return salts, nil
}
