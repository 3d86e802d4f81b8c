package textgrid

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Interval is one labelled span inside a tier.
type Interval struct {
	XMin float64
	XMax float64
	Text string
}

// Tier is one annotation layer. The aligner emits interval tiers named
// "words" and "phones".
type Tier struct {
	Class     string
	Name      string
	XMin      float64
	XMax      float64
	Intervals []Interval
}

// TextGrid is a parsed Praat annotation file.
type TextGrid struct {
	XMin  float64
	XMax  float64
	Tiers []Tier
}

// Tier returns the named tier, or nil when absent.
func (tg *TextGrid) Tier(name string) *Tier {
	for i := range tg.Tiers {
		if tg.Tiers[i].Name == name {
			return &tg.Tiers[i]
		}
	}
	return nil
}

// NonEmptyIntervals filters out intervals whose text is blank.
func (t *Tier) NonEmptyIntervals() []Interval {
	var out []Interval
	for _, interval := range t.Intervals {
		if strings.TrimSpace(interval.Text) != "" {
			out = append(out, interval)
		}
	}
	return out
}

// ParseFile reads and parses a TextGrid file.
func ParseFile(path string) (*TextGrid, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open textgrid: %w", err)
	}
	defer file.Close()

	tg, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse textgrid %s: %w", path, err)
	}
	return tg, nil
}

// Parse reads a long-format TextGrid. Indentation is ignored and CRLF line
// endings are tolerated.
func Parse(r io.Reader) (*TextGrid, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	tg := &TextGrid{}
	var (
		tier      *Tier
		interval  *Interval
		sawHeader bool
	)

	flushInterval := func() {
		if tier != nil && interval != nil {
			tier.Intervals = append(tier.Intervals, *interval)
			interval = nil
		}
	}
	flushTier := func() {
		flushInterval()
		if tier != nil {
			tg.Tiers = append(tg.Tiers, *tier)
			tier = nil
		}
	}

	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimSuffix(scanner.Text(), "\r"))
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "File type") {
			if !strings.Contains(line, "ooTextFile") {
				return nil, fmt.Errorf("unsupported file type: %s", line)
			}
			sawHeader = true
			continue
		}
		if strings.HasPrefix(line, "Object class") {
			if !strings.Contains(line, "TextGrid") {
				return nil, fmt.Errorf("not a TextGrid object: %s", line)
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, "item []"):
			continue
		case strings.HasPrefix(line, "item ["):
			flushTier()
			tier = &Tier{}
			continue
		case strings.HasPrefix(line, "intervals ["):
			flushInterval()
			interval = &Interval{}
			continue
		case strings.HasPrefix(line, "intervals: size"):
			continue
		case strings.HasPrefix(line, "points ["), strings.HasPrefix(line, "points: size"):
			// Point tiers carry no interval data the pipeline cares about.
			continue
		}

		key, value, ok := splitAssignment(line)
		if !ok {
			continue
		}

		switch {
		case interval != nil:
			switch key {
			case "xmin":
				interval.XMin = parseFloat(value)
			case "xmax":
				interval.XMax = parseFloat(value)
			case "text":
				interval.Text = unquote(value)
			}
		case tier != nil:
			switch key {
			case "class":
				tier.Class = unquote(value)
			case "name":
				tier.Name = unquote(value)
			case "xmin":
				tier.XMin = parseFloat(value)
			case "xmax":
				tier.XMax = parseFloat(value)
			}
		default:
			switch key {
			case "xmin":
				tg.XMin = parseFloat(value)
			case "xmax":
				tg.XMax = parseFloat(value)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read textgrid: %w", err)
	}
	flushTier()

	if !sawHeader {
		return nil, fmt.Errorf("missing ooTextFile header")
	}
	return tg, nil
}

func splitAssignment(line string) (key, value string, ok bool) {
	idx := strings.Index(line, "=")
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), true
}

func parseFloat(value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

// unquote strips surrounding double quotes and collapses Praat's doubled
// quote escapes.
func unquote(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		value = value[1 : len(value)-1]
	}
	return strings.ReplaceAll(value, `""`, `"`)
}
