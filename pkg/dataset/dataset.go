// Package dataset loads point sets from text files, one point per line,
// in the layout of the S-sets clustering benchmarks ("x,y" or "x y").
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sanonone/kneescan/pkg/core/vector"
)

// LoadPoints2D reads one point per line. Coordinates are separated by a
// comma and/or whitespace; blank lines and lines starting with '#' are skipped.
func LoadPoints2D(r io.Reader) ([]vector.Point2D, error) {
	var points []vector.Point2D

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == ';'
		})
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected 2 coordinates, got %d", lineNo, len(fields))
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid x: %w", lineNo, err)
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid y: %w", lineNo, err)
		}
		points = append(points, vector.Point2D{X: x, Y: y})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading points: %w", err)
	}
	return points, nil
}

// LoadPoints2DFile opens path and reads it with LoadPoints2D.
func LoadPoints2DFile(path string) ([]vector.Point2D, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open dataset '%s': %w", path, err)
	}
	defer file.Close()

	points, err := LoadPoints2D(file)
	if err != nil {
		return nil, fmt.Errorf("dataset '%s': %w", path, err)
	}
	return points, nil
}
