package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"vkseva-content/internal/domain"
)

// CardWriter appends cards at the end of the order.
type CardWriter interface {
	Cards() []domain.Card
	Add(ctx context.Context, c domain.Card) (domain.Card, error)
}

// CSVImporter reads card rows with the header
// title,subtitle,icon,gradient,link,image,active,badges where badges are
// separated by "|". Columns may appear in any order.
type CSVImporter struct {
	reader       *csv.Reader
	cards        CardWriter
	skipExisting bool
}

func NewCSVImporter(r io.Reader, cards CardWriter, skipExisting bool) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:       csvr,
		cards:        cards,
		skipExisting: skipExisting,
	}
}

// Result counts what a run did.
type Result struct {
	Imported int
	Skipped  int
}

// Run adds every row as a new card. With skipExisting, rows whose title
// matches an existing card (case-insensitive) are skipped.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	var res Result
	headers, err := i.reader.Read()
	if err != nil {
		return res, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["title"]; !ok {
		return res, errors.New("missing title column")
	}

	seen := map[string]bool{}
	if i.skipExisting {
		for _, c := range i.cards.Cards() {
			seen[strings.ToLower(c.Title)] = true
		}
	}

	for line := 2; ; line++ {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read row: %w", err)
		}

		card, ok, err := parseRow(record, index)
		if err != nil {
			return res, fmt.Errorf("line %d: %w", line, err)
		}
		if !ok {
			continue
		}
		key := strings.ToLower(card.Title)
		if i.skipExisting && seen[key] {
			res.Skipped++
			continue
		}
		if _, err := i.cards.Add(ctx, card); err != nil {
			return res, fmt.Errorf("line %d: add card %q: %w", line, card.Title, err)
		}
		seen[key] = true
		res.Imported++
	}
	return res, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

// parseRow returns ok=false for blank rows.
func parseRow(record []string, index map[string]int) (domain.Card, bool, error) {
	blank := true
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			blank = false
			break
		}
	}
	if blank {
		return domain.Card{}, false, nil
	}

	card := domain.Card{
		Title:    pick(record, index, "title"),
		Subtitle: pick(record, index, "subtitle"),
		Icon:     pick(record, index, "icon"),
		Gradient: pick(record, index, "gradient"),
		Link:     pick(record, index, "link"),
		Image:    pick(record, index, "image"),
		Active:   true,
	}
	if card.Title == "" {
		return domain.Card{}, false, fmt.Errorf("%w: title required", domain.ErrInvalidCard)
	}
	if v := pick(record, index, "active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return domain.Card{}, false, fmt.Errorf("invalid active value %q", v)
		}
		card.Active = active
	}
	if v := pick(record, index, "badges"); v != "" {
		card.Badges = strings.Split(v, "|")
	}
	return card, true, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
