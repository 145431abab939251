package oracle

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// JournalLine is one encumbrance entry. Zero amounts are left empty.
type JournalLine struct {
	CostCenter  string
	Account     string
	Project     string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

// Journal is a set of entries imported together.
type Journal struct {
	BatchName   string
	JournalName string
	Description string
	GroupID     string
	Date        time.Time
	Lines       []JournalLine
}

func (j Journal) fileName() string {
	return "GlInterface.zip"
}

// CSV renders the journal in the GL interface FBDI layout.
func (j Journal) CSV(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	date := j.Date
	if date.IsZero() {
		date = time.Now()
	}
	day := date.Format("2006/01/02")

	segment := func(n int) string {
		if s, ok := cfg.DefaultSegments[n]; ok {
			return s
		}
		return "0"
	}

	for _, l := range j.Lines {
		record := []string{
			"NEW",
			cfg.LedgerID,
			day,
			cfg.JournalSource,
			cfg.JournalCategory,
			cfg.Currency,
			day,
			"E",
			l.CostCenter,
			segment(2),
			l.Account,
			segment(4),
			l.Project,
			segment(6),
			segment(7),
			segment(8),
			segment(9),
			amount(l.Debit),
			amount(l.Credit),
			j.BatchName,
			j.Description,
			j.JournalName,
			j.Description,
			l.Description,
			cfg.EncumbranceTypeID,
			j.GroupID,
		}

		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func amount(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.StringFixed(2)
}

// zip returns the base64 encoded archive with the journal CSV.
func (j Journal) zip(cfg Config) (string, error) {
	data, err := j.CSV(cfg)
	if err != nil {
		return "", fmt.Errorf("could not render journal: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("GlInterface.csv")
	if err != nil {
		return "", err
	}

	if _, err := f.Write(data); err != nil {
		return "", err
	}

	if err := zw.Close(); err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func decodeBase64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(s), ""))
	if err != nil {
		return nil, fmt.Errorf("could not decode ERP report: %w", err)
	}
	return data, nil
}
