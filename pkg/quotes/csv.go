package quotes

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const maxDelimiterSampleRecords = 20

// ParseCSV reads text,reference rows. The delimiter is detected from a
// sample, a leading header row is skipped, and incomplete rows are counted
// as skipped.
func ParseCSV(data []byte) ([]Quote, int, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1

	var items []Quote
	skipped := 0
	checkedHeader := false
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, skipped, err
		}
		if isBlankRecord(record) {
			continue
		}
		if !checkedHeader {
			checkedHeader = true
			if isHeaderRecord(record) {
				continue
			}
		}
		if len(record) < 2 {
			skipped++
			continue
		}
		text := strings.TrimSpace(record[0])
		ref := strings.TrimSpace(record[1])
		if text == "" || ref == "" {
			skipped++
			continue
		}
		items = append(items, Quote{Text: text, Reference: ref})
	}
	return items, skipped, nil
}

// WriteCSV writes quotes in the format ParseCSV reads, with a header.
func WriteCSV(w io.Writer, items []Quote) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"text", "reference"}); err != nil {
		return err
	}
	for _, item := range items {
		if err := writer.Write([]string{item.Text, item.Reference}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func detectDelimiter(data []byte) rune {
	best := ','
	bestScore := 0
	for _, delimiter := range []rune{',', '\t', ';'} {
		score, err := scoreDelimiter(data, delimiter)
		if err != nil {
			continue
		}
		if score > bestScore {
			bestScore = score
			best = delimiter
		}
	}
	return best
}

func scoreDelimiter(data []byte, delimiter rune) (int, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	counts := make(map[int]int)
	for seen := 0; seen < maxDelimiterSampleRecords; {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}
		if isBlankRecord(record) {
			continue
		}
		seen++
		if len(record) >= 2 {
			counts[len(record)]++
		}
	}

	best := 0
	for _, score := range counts {
		if score > best {
			best = score
		}
	}
	return best, nil
}

func isBlankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func isHeaderRecord(record []string) bool {
	if len(record) < 2 {
		return false
	}
	left := strings.ToLower(strings.TrimSpace(record[0]))
	right := strings.ToLower(strings.TrimSpace(record[1]))
	return (left == "text" || left == "quote") && (right == "reference" || right == "ref")
}
