package xlsx

import (
	"io"
	"strconv"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
	"github.com/pkg/errors"
)

var requiredUserColumns = []string{"login", "class", "school"}

type userRow struct {
	Login  string `validate:"required"`
	Class  string `validate:"required"`
	School string `validate:"required"`
}

// ReadUsers parses a roster sheet with login, class and school columns plus
// optional q1..q10 columns holding the question id assigned to each slot.
// Invalid rows are skipped and reported.
func ReadUsers(r io.Reader) ([]domain.User, []RowError, error) {
	rows, err := readRows(r, requiredUserColumns)
	if err != nil {
		return nil, nil, err
	}

	var (
		users    []domain.User
		rejected []RowError
	)
	for _, row := range rows {
		u, err := parseUserRow(row.cell)
		if err != nil {
			rejected = append(rejected, RowError{Row: row.num, Message: err.Error()})
			continue
		}
		users = append(users, u)
	}
	return users, rejected, nil
}

func parseUserRow(cell func(string) string) (domain.User, error) {
	ur := userRow{Login: cell("login"), Class: cell("class"), School: cell("school")}
	if err := validate.Struct(ur); err != nil {
		return domain.User{}, err
	}
	u := domain.User{Login: ur.Login, Class: ur.Class, School: ur.School}
	for n := 1; n <= domain.SlotCount; n++ {
		col := "q" + strconv.Itoa(n)
		raw := cell(col)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return domain.User{}, errors.Errorf("invalid question id %q in %s", raw, col)
		}
		u.Slots[n-1].QuestionID = &id
	}
	return u, nil
}
