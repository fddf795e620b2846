// Package csvimport maps spreadsheet exports of insured groups onto domain groups.
//
// The first row is a header. Column names are matched case-insensitively and may
// appear in any order; unknown columns are rejected so typos do not silently drop
// a benefit. Recognized columns:
//
//	id, name, head_count, average_age, birth_date, gender, male_count, female_count, basic_salary
//	a, a1, a2, a3, a4        accident: a/a3/a4 are sum-insured cells, a1/a2 are flags
//	b, c, d, e, f            sum-insured cells
//	g, g1, g2                g is the cover geography, g1 the transport sum insured, g2 a flag
//	h                        income-loss months
//	i1, i2, i3, i4           poisoning flags
//
// A sum-insured cell holding a whole number no greater than the months threshold is a
// salary multiple, anything larger is a fixed amount. Empty cells, "-1" and "N/A" mean
// the benefit does not apply.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultMonthsThreshold separates salary multiples from fixed amounts in sum-insured cells
const DefaultMonthsThreshold = 100

// ErrNoRows is returned when the input holds a header but no data
var ErrNoRows = errors.New("csv contains no data rows")

var knownColumns = map[string]bool{
	"id": true, "name": true, "head_count": true, "average_age": true, "birth_date": true,
	"gender": true, "male_count": true, "female_count": true, "basic_salary": true,
	"a": true, "a1": true, "a2": true, "a3": true, "a4": true,
	"b": true, "c": true, "d": true, "e": true, "f": true,
	"g": true, "g1": true, "g2": true, "h": true,
	"i1": true, "i2": true, "i3": true, "i4": true,
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "2/1/2006"}

// RowError locates a problem in the input. Row is 1-based and counts the header.
type RowError struct {
	Row    int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d, column %s: %v", e.Row, e.Column, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Reader converts CSV rows into insured groups
type Reader struct {
	MonthsThreshold int
	Comma           rune
}

// NewReader creates a reader with the default threshold and comma separator
func NewReader() *Reader {
	return &Reader{MonthsThreshold: DefaultMonthsThreshold, Comma: ','}
}

// ReadFile reads groups from a CSV file
func (r *Reader) ReadFile(path string) ([]domain.InsuranceGroup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return r.Read(f)
}

// Read parses every data row of in into a group. Group ids default to "row-N".
func (r *Reader) Read(in io.Reader) ([]domain.InsuranceGroup, error) {
	cr := csv.NewReader(in)
	if r.Comma != 0 {
		cr.Comma = r.Comma
	}
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if !knownColumns[name] {
			return nil, &RowError{Row: 1, Column: h, Err: errors.New("unknown column")}
		}
		if _, dup := columns[name]; dup {
			return nil, &RowError{Row: 1, Column: h, Err: errors.New("duplicate column")}
		}
		columns[name] = i
	}

	var groups []domain.InsuranceGroup
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &RowError{Row: line, Err: err}
		}
		if blankRecord(record) {
			continue
		}
		rw := row{reader: r, columns: columns, record: record, line: line}
		g, err := rw.group()
		if err != nil {
			return nil, err
		}
		if g.ID == "" {
			g.ID = fmt.Sprintf("row-%d", line-1)
		}
		groups = append(groups, g)
	}
	if len(groups) == 0 {
		return nil, ErrNoRows
	}
	return groups, nil
}

func blankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

type row struct {
	reader  *Reader
	columns map[string]int
	record  []string
	line    int
}

func (rw row) has(column string) bool {
	_, ok := rw.columns[column]
	return ok
}

func (rw row) cell(column string) string {
	i, ok := rw.columns[column]
	if !ok || i >= len(rw.record) {
		return ""
	}
	return strings.TrimSpace(rw.record[i])
}

func (rw row) fail(column string, err error) error {
	return &RowError{Row: rw.line, Column: column, Err: err}
}

func (rw row) group() (domain.InsuranceGroup, error) {
	g := domain.InsuranceGroup{
		ID:   rw.cell("id"),
		Name: rw.cell("name"),
	}

	var err error
	if g.HeadCount, err = rw.integer("head_count"); err != nil {
		return g, err
	}
	if g.AverageAge, err = rw.integer("average_age"); err != nil {
		return g, err
	}
	if g.MaleCount, err = rw.integer("male_count"); err != nil {
		return g, err
	}
	if g.FemaleCount, err = rw.integer("female_count"); err != nil {
		return g, err
	}
	if g.HeadCount == 0 {
		g.HeadCount = g.MaleCount + g.FemaleCount
	}
	if s := rw.cell("birth_date"); !notApplicable(s) {
		bd, err := parseDate(s)
		if err != nil {
			return g, rw.fail("birth_date", err)
		}
		g.BirthDate = &bd
	}
	if s := rw.cell("gender"); !notApplicable(s) {
		if g.Gender, err = parseGender(s); err != nil {
			return g, rw.fail("gender", err)
		}
	}
	if s := rw.cell("basic_salary"); !notApplicable(s) {
		if g.BasicSalary, err = parseAmount(s); err != nil {
			return g, rw.fail("basic_salary", err)
		}
	}

	if err := rw.benefits(&g.Benefits); err != nil {
		return g, err
	}
	return g, nil
}

func (rw row) benefits(b *domain.Benefits) error {
	si, ok, err := rw.sumInsured("a")
	if err != nil {
		return err
	}
	if ok {
		b.A.Selected = true
		b.A.SumInsured = si
		if rw.has("a1") || rw.has("a2") {
			b.A.DeathDisability = rw.flag("a1")
			b.A.PartialDisability = rw.flag("a2")
		} else {
			b.A.DeathDisability = true
			b.A.PartialDisability = true
		}
	}
	subCovers := []struct {
		column string
		sub    *domain.SubCover
	}{
		{"a3", &b.A.SalaryAllowance},
		{"a4", &b.A.Medical},
	}
	for _, sc := range subCovers {
		sub := sc.sub
		si, ok, err := rw.sumInsured(sc.column)
		if err != nil {
			return err
		}
		sub.Selected, sub.SumInsured = ok, si
		if ok && !b.A.Selected {
			b.A.Selected = true
		}
	}

	for _, code := range []domain.BenefitCode{domain.BenefitB, domain.BenefitC, domain.BenefitD, domain.BenefitE, domain.BenefitF} {
		column := strings.ToLower(string(code))
		si, ok, err := rw.sumInsured(column)
		if err != nil {
			return err
		}
		if ok {
			block := b.Simple(code)
			block.Selected = true
			block.SumInsured = si
		}
	}

	if s := rw.cell("g"); !notApplicable(s) {
		geo, err := domain.ParseGeography(s)
		if err != nil {
			return rw.fail("g", err)
		}
		b.G.Selected = true
		b.G.Geography = geo
		si, ok, err := rw.sumInsured("g1")
		if err != nil {
			return err
		}
		b.G.Transport = domain.SubCover{Selected: ok, SumInsured: si}
		b.G.Medical.Selected = rw.flag("g2")
	}

	if s := rw.cell("h"); !notApplicable(s) {
		months, err := strconv.Atoi(s)
		if err != nil {
			return rw.fail("h", fmt.Errorf("months must be a whole number: %w", err))
		}
		b.H.Selected = months > 0
		b.H.Months = months
	}

	b.I.DeathDisability = rw.flag("i1")
	b.I.PartialDisability = rw.flag("i2")
	b.I.SalaryAllowance = rw.flag("i3")
	b.I.Medical = rw.flag("i4")
	b.I.Selected = b.I.DeathDisability || b.I.PartialDisability || b.I.SalaryAllowance || b.I.Medical
	return nil
}

func (rw row) integer(column string) (int, error) {
	s := rw.cell(column)
	if notApplicable(s) {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, rw.fail(column, fmt.Errorf("not a whole number: %q", s))
	}
	return n, nil
}

func (rw row) flag(column string) bool {
	switch strings.ToLower(rw.cell(column)) {
	case "y", "yes", "x", "true", "1":
		return true
	}
	return false
}

// sumInsured reads a months-or-amount cell. ok is false when the benefit does not apply.
func (rw row) sumInsured(column string) (domain.SumInsured, bool, error) {
	s := rw.cell(column)
	if notApplicable(s) {
		return domain.SumInsured{}, false, nil
	}
	v, err := parseAmount(s)
	if err != nil {
		return domain.SumInsured{}, false, rw.fail(column, err)
	}
	if !v.IsPositive() {
		return domain.SumInsured{}, false, nil
	}
	threshold := rw.reader.MonthsThreshold
	if threshold <= 0 {
		threshold = DefaultMonthsThreshold
	}
	if v.IsInteger() && v.LessThanOrEqual(decimal.NewFromInt(int64(threshold))) {
		return domain.SalarySumInsured(int(v.IntPart())), true, nil
	}
	return domain.SumInsured{Method: domain.MethodFixed, Amount: v}, true, nil
}

func notApplicable(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "-1", "N/A", "NA":
		return true
	}
	return false
}

func parseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer(",", "", "_", "", " ", "").Replace(s)
	v, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (want YYYY-MM-DD or DD/MM/YYYY)", s)
}

func parseGender(s string) (domain.Gender, error) {
	switch strings.ToLower(s) {
	case "m", "male":
		return domain.GenderMale, nil
	case "f", "female":
		return domain.GenderFemale, nil
	}
	return "", fmt.Errorf("unknown gender %q", s)
}
