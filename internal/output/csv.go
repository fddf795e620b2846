package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/hiquote/internal/domain"
)

// CSVSummarizer writes one row per group plus a total row
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(result *domain.CalculationResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"GroupID", "Name", "HeadCount", "Age", "Eligible", "BaseFee", "MinFee", "DiscountedFee", "MinimumFee", "FinalFee", "FloorApplied"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, g := range result.Groups {
		row := []string{
			g.GroupID,
			g.Name,
			strconv.Itoa(g.HeadCount),
			strconv.Itoa(g.Age),
			strconv.FormatBool(g.Eligible),
			g.BaseFee.StringFixed(2),
			g.MinFee.StringFixed(2),
			g.DiscountedFee.StringFixed(2),
			g.MinimumFee.StringFixed(2),
			g.FinalFee.StringFixed(2),
			strconv.FormatBool(g.FloorApplied),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	total := []string{
		"TOTAL", "", strconv.Itoa(result.TotalHeadCount), "", "",
		result.BasePremium.StringFixed(2),
		result.MinPremium.StringFixed(2),
		result.BasePath.Final().StringFixed(2),
		result.MinPath.Final().StringFixed(2),
		result.FinalPremium.StringFixed(2),
		strconv.FormatBool(result.FloorApplied),
	}
	if err := w.Write(total); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// DetailedCSVFormatter writes one row per priced benefit line
type DetailedCSVFormatter struct{}

func (d DetailedCSVFormatter) Name() string { return "detailed-csv" }

func (d DetailedCSVFormatter) Format(result *domain.CalculationResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{
		"GroupID", "Code", "Item", "Label", "Geography", "SumInsured", "HeadCount", "RateKey",
		"BaseRate", "MinRate", "Applicable", "DiscountedFee", "MinimumFee", "FinalFee", "FloorApplied",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, g := range result.Groups {
		for _, l := range g.Lines {
			row := []string{
				g.GroupID,
				string(l.Code),
				l.Item,
				l.Label,
				string(l.Geography),
				l.SumInsured.StringFixed(0),
				strconv.Itoa(l.HeadCount),
				l.RateKey,
				l.BaseRate.String(),
				l.MinRate.String(),
				strconv.FormatBool(l.Applicable),
				l.DiscountedFee.StringFixed(2),
				l.MinimumFee.StringFixed(2),
				l.FinalFee.StringFixed(2),
				strconv.FormatBool(l.FloorApplied),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
