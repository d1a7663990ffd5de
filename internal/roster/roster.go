// Package roster parses uploaded player lists.
package roster

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/yourusername/tennis-edge/internal/models"
)

var (
	// ErrUnsupportedFormat is returned for files other than .txt or .csv
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported roster format, use .txt or .csv", models.ErrInvalidInput)
	// ErrNoPlayers is returned when a roster yields no valid names
	ErrNoPlayers = fmt.Errorf("%w: no valid players found", models.ErrInvalidInput)
)

var (
	numericValue = regexp.MustCompile(`^\d+(\.\d+)?$`)
	headerCell   = regexp.MustCompile(`(?i)^player`)
)

// Parse reads a roster named filename and returns the distinct player names in
// file order. The format is chosen by extension.
func Parse(filename string, r io.Reader) ([]string, error) {
	var (
		names []string
		err   error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		names, err = parseText(r)
	case ".csv":
		names, err = parseCSV(r)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}

	names = dedupe(names)
	if len(names) == 0 {
		return nil, ErrNoPlayers
	}
	return names, nil
}

// parseText takes one name per line. A trailing numeric token such as a
// ranking or a rating is dropped when the line has more than one token.
func parseText(r io.Reader) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		parts := strings.Fields(strings.ToValidUTF8(scanner.Text(), ""))
		if len(parts) == 0 {
			continue
		}
		if len(parts) > 1 && isFloat(parts[len(parts)-1]) {
			parts = parts[:len(parts)-1]
		}
		if name := strings.Join(parts, " "); name != "" {
			names = append(names, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading roster: %v", models.ErrParse, err)
	}
	return names, nil
}

// parseCSV reads the first column. A leading header cell starting with
// "player" is skipped, as are purely numeric cells.
func parseCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var names []string
	first := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading roster csv: %v", models.ErrParse, err)
		}
		if len(record) == 0 {
			continue
		}

		cell := strings.TrimSpace(strings.ToValidUTF8(record[0], ""))
		if first {
			first = false
			if headerCell.MatchString(cell) {
				continue
			}
		}
		if cell == "" || numericValue.MatchString(cell) {
			continue
		}
		names = append(names, cell)
	}
	return names, nil
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
