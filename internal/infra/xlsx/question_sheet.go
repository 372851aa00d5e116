// Package xlsx reads question banks and student rosters from spreadsheets.
package xlsx

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

var requiredColumns = []string{"id", "text", "image", "hint", "a1", "a2", "a3", "a4", "a5", "correct"}

// RowError reports a rejected spreadsheet row. Row is the 1-based sheet row.
type RowError struct {
	Row     int
	Message string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

type questionRow struct {
	ID      int64     `validate:"gt=0"`
	Text    string    `validate:"required"`
	Choices [5]string `validate:"dive,required"`
	Correct int       `validate:"min=1,max=5"`
}

var validate = validator.New()

// ReadQuestions parses the first sheet. The header row names the columns
// (case-insensitive); invalid data rows are skipped and reported.
func ReadQuestions(r io.Reader) ([]domain.Question, []RowError, error) {
	rows, err := readRows(r, requiredColumns)
	if err != nil {
		return nil, nil, err
	}

	var (
		questions []domain.Question
		rejected  []RowError
	)
	for _, row := range rows {
		q, err := parseRow(row.cell)
		if err != nil {
			rejected = append(rejected, RowError{Row: row.num, Message: err.Error()})
			continue
		}
		questions = append(questions, q)
	}
	return questions, rejected, nil
}

type sheetRow struct {
	num  int
	cell func(col string) string
}

// readRows returns the non-blank data rows of the first sheet, with cells
// addressed by lower-cased header name.
func readRows(r io.Reader, required []string) ([]sheetRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "open spreadsheet")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %s", sheets[0])
	}
	if len(rows) < 2 {
		return nil, errors.New("spreadsheet needs a header row and at least one data row")
	}

	header := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range required {
		if _, ok := header[col]; !ok {
			return nil, errors.Errorf("missing column %q", col)
		}
	}

	out := make([]sheetRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		row := row
		out = append(out, sheetRow{
			num: i + 2,
			cell: func(col string) string {
				idx, ok := header[col]
				if !ok || idx >= len(row) {
					return ""
				}
				return strings.TrimSpace(row[idx])
			},
		})
	}
	return out, nil
}

func parseRow(cell func(string) string) (domain.Question, error) {
	var qr questionRow
	var err error
	if qr.ID, err = strconv.ParseInt(cell("id"), 10, 64); err != nil {
		return domain.Question{}, errors.Errorf("invalid id %q", cell("id"))
	}
	if qr.Correct, err = strconv.Atoi(cell("correct")); err != nil {
		return domain.Question{}, errors.Errorf("invalid correct choice %q", cell("correct"))
	}
	qr.Text = cell("text")
	for i := range qr.Choices {
		qr.Choices[i] = cell("a" + strconv.Itoa(i+1))
	}
	if err := validate.Struct(qr); err != nil {
		return domain.Question{}, err
	}
	return domain.Question{
		ID:            qr.ID,
		Text:          qr.Text,
		Image:         cell("image"),
		Hint:          cell("hint"),
		Choices:       qr.Choices,
		CorrectChoice: qr.Correct,
	}, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
