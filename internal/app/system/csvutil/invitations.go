// internal/app/system/csvutil/invitations.go
package csvutil

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dalemusser/incubahub/internal/app/system/inputval"
	"github.com/dalemusser/incubahub/internal/app/system/normalize"
	"github.com/dalemusser/incubahub/internal/domain/models"
)

// ErrTooManyRows is returned when the file has more data rows than allowed.
var ErrTooManyRows = errors.New("csv has too many rows")

// InvitationRow is one normalized line of an invitation import.
type InvitationRow struct {
	Line  int
	Email string
	Role  string
}

// RowError describes a rejected line. Line is the 1-based line in the file.
type RowError struct {
	Line   int
	Reason string
	Raw    []string
}

type ParseResult struct {
	Rows   []InvitationRow
	Errors []RowError
}

func (r *ParseResult) HasErrors() bool { return len(r.Errors) > 0 }

// Messages returns up to maxShow readable error lines, plus a trailing
// count of the ones left out.
func (r *ParseResult) Messages(maxShow int) []string {
	if len(r.Errors) == 0 {
		return nil
	}
	n := min(maxShow, len(r.Errors))
	out := make([]string, 0, n+1)
	for _, e := range r.Errors[:n] {
		out = append(out, fmt.Sprintf("Ligne %d : %s", e.Line, e.Reason))
	}
	if rest := len(r.Errors) - n; rest > 0 {
		out = append(out, fmt.Sprintf("… et %d autre(s) ligne(s) invalide(s).", rest))
	}
	return out
}

type ParseOptions struct {
	MaxRows int // 0 means unlimited
}

func DefaultParseOptions() ParseOptions {
	return ParseOptions{MaxRows: MaxRows}
}

// invitable are the roles an invitation may carry.
var invitable = map[string]bool{
	models.RoleAdherent: true,
	models.RoleMentor:   true,
}

// ParseInvitationCSV reads "email[,role]" lines. A leading header whose
// first cell names the email column is skipped, as is a UTF-8 BOM. Blank
// lines are ignored. It never touches the database.
func ParseInvitationCSV(r io.Reader, opts ParseOptions) (*ParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	res := &ParseResult{}
	seen := map[string]int{}
	line := 0
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		first := line == 0
		line, _ = reader.FieldPos(0)
		if first && len(rec) > 0 {
			rec[0] = strings.TrimPrefix(rec[0], "\ufeff")
			if isHeader(rec[0]) {
				continue
			}
		}
		if blank(rec) {
			continue
		}
		if opts.MaxRows > 0 && len(res.Rows)+len(res.Errors) >= opts.MaxRows {
			return nil, ErrTooManyRows
		}

		row := InvitationRow{Line: line, Email: normalize.Email(rec[0])}
		if len(rec) > 1 {
			row.Role = normalize.Role(rec[1])
		}
		if row.Role == "" {
			row.Role = models.RoleAdherent
		}

		switch {
		case row.Email == "":
			res.Errors = append(res.Errors, RowError{Line: line, Reason: "adresse e-mail manquante", Raw: rec})
		case !inputval.IsValidEmail(row.Email):
			res.Errors = append(res.Errors, RowError{Line: line, Reason: "adresse e-mail invalide", Raw: rec})
		case !invitable[row.Role]:
			res.Errors = append(res.Errors, RowError{Line: line, Reason: fmt.Sprintf("rôle %q non autorisé", row.Role), Raw: rec})
		case seen[row.Email] > 0:
			res.Errors = append(res.Errors, RowError{
				Line:   line,
				Reason: fmt.Sprintf("adresse en double (déjà ligne %d)", seen[row.Email]),
				Raw:    rec,
			})
		default:
			seen[row.Email] = line
			res.Rows = append(res.Rows, row)
		}
	}
	return res, nil
}

func isHeader(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "email", "e-mail", "courriel", "adresse e-mail":
		return true
	}
	return false
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
