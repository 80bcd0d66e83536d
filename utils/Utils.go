package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

func GenerateRandomFilename(extension string) string {
	return fmt.Sprintf("%s.%s", uuid.New().String(), extension)
}

func CountFiles(dirPath string) (int, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			count++
		}
	}
	return count, nil
}

// Sanitize turns a URL or name into something usable as a file name.
func Sanitize(name string) string {
	s := strings.TrimPrefix(name, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.NewReplacer("/", "_", ":", "_").Replace(s)
	return strings.ToLower(s)
}
