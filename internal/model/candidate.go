package model

import "github.com/shopspring/decimal"

// Candidate is an asset row recovered from statement text. It is never persisted as is.
type Candidate struct {
	Symbol        string
	Name          string
	Quantity      decimal.Decimal
	PurchasePrice decimal.Decimal
	Template      string
}

type TextSource int

const (
	SourceManual TextSource = iota
	SourceOCR
)

func (s TextSource) Confidence() float64 {
	if s == SourceOCR {
		return 0.8
	}
	return 1.0
}

type TextExtraction struct {
	ISINs      []string
	Quantities []decimal.Decimal
	Prices     []decimal.Decimal
	Confidence float64
	Text       string
}

// Detection is the result of running statement text (typed or recognized) through the asset parser.
type Detection struct {
	Text       string
	Source     TextSource
	ImageURL   string
	Candidates []Candidate
}
