package ignore

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadGitIgnore reads the non-empty, non-comment lines of a .gitignore file.
// A missing file yields no lines and no error.
func LoadGitIgnore(path string) ([]string, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open gitignore: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimSuffix(scanner.Text(), "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read gitignore: %w", err)
	}

	return lines, nil
}
