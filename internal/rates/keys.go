package rates

import (
	"fmt"

	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/shopspring/decimal"
)

// Cover is a priced line within a benefit block. Most blocks have one cover; A, G and I have several.
type Cover string

const (
	CoverAMain      Cover = "A_MAIN"   // A1 + A2 on the main sum insured
	CoverASalary    Cover = "A_SALARY" // A3
	CoverAMedical   Cover = "A_MED"    // A4, banded
	CoverB          Cover = "B"
	CoverC          Cover = "C"
	CoverD          Cover = "D"
	CoverE          Cover = "E"
	CoverF          Cover = "F"
	CoverGTransport Cover = "G_TRANSPORT"
	CoverGMedical   Cover = "G_MEDICAL"
	CoverH          Cover = "H"
	CoverIMain      Cover = "I_MAIN"   // I1 + I2
	CoverISalary    Cover = "I_SALARY" // I3
	CoverIMedical   Cover = "I_MED"    // I4
)

// Covers lists every cover in reporting order
func Covers() []Cover {
	return []Cover{
		CoverAMain, CoverASalary, CoverAMedical,
		CoverB, CoverC, CoverD, CoverE, CoverF,
		CoverGTransport, CoverGMedical,
		CoverH,
		CoverIMain, CoverISalary, CoverIMedical,
	}
}

// Layout is the shape of a rate-table key
type Layout int

const (
	// LayoutCodeBandGeo renders {CODE}[_{BAND}]_{GEO}, e.g. A_MED_60M_VN
	LayoutCodeBandGeo Layout = iota
	// LayoutLetterGeoBand renders {LETTER}_{GEO}_{BAND}, e.g. C_VN_P2
	LayoutLetterGeoBand
)

// Band is one sum-insured tier. A zero UpTo marks the open-ended top tier.
type Band struct {
	UpTo   decimal.Decimal
	Suffix string
}

// BandTable is an ascending list of tiers
type BandTable []Band

// Find returns the tier containing si; bounds are inclusive
func (bt BandTable) Find(si decimal.Decimal) Band {
	for _, b := range bt {
		if b.UpTo.IsZero() || si.LessThanOrEqual(b.UpTo) {
			return b
		}
	}
	return bt[len(bt)-1]
}

// Suffixes lists every tier suffix in order
func (bt BandTable) Suffixes() []string {
	out := make([]string, len(bt))
	for i, b := range bt {
		out[i] = b.Suffix
	}
	return out
}

func million(n int64) decimal.Decimal {
	return decimal.NewFromInt(n * 1_000_000)
}

var (
	accidentMedicalBands = BandTable{
		{UpTo: million(40), Suffix: "40M"},
		{UpTo: million(60), Suffix: "60M"},
		{UpTo: million(100), Suffix: "100M"},
		{Suffix: "OVER100M"},
	}
	inpatientBands = BandTable{
		{UpTo: million(40), Suffix: "P1"},
		{UpTo: million(60), Suffix: "P2"},
		{UpTo: million(100), Suffix: "P3"},
		{UpTo: million(200), Suffix: "P4"},
		{Suffix: "P5"},
	}
	outpatientBands = BandTable{
		{UpTo: million(5), Suffix: "P1"},
		{UpTo: million(10), Suffix: "P2"},
		{UpTo: million(20), Suffix: "P3"},
		{Suffix: "P4"},
	}
	dentalBands = BandTable{
		{UpTo: million(2), Suffix: "P1"},
		{UpTo: million(5), Suffix: "P2"},
		{UpTo: million(10), Suffix: "P3"},
		{Suffix: "P4"},
	}
)

type keyLayout struct {
	layout Layout
	prefix string
	bands  BandTable
}

// keyLayouts is the single mapping from cover to rate-table key shape.
// D is banded on the inpatient tiers because its band follows C's sum insured.
var keyLayouts = map[Cover]keyLayout{
	CoverAMain:      {layout: LayoutCodeBandGeo, prefix: "A_MAIN"},
	CoverASalary:    {layout: LayoutCodeBandGeo, prefix: "A_SALARY"},
	CoverAMedical:   {layout: LayoutCodeBandGeo, prefix: "A_MED", bands: accidentMedicalBands},
	CoverB:          {layout: LayoutCodeBandGeo, prefix: "B"},
	CoverC:          {layout: LayoutLetterGeoBand, prefix: "C", bands: inpatientBands},
	CoverD:          {layout: LayoutLetterGeoBand, prefix: "D", bands: inpatientBands},
	CoverE:          {layout: LayoutLetterGeoBand, prefix: "E", bands: outpatientBands},
	CoverF:          {layout: LayoutLetterGeoBand, prefix: "F", bands: dentalBands},
	CoverGTransport: {layout: LayoutCodeBandGeo, prefix: "G_TRANSPORT"},
	CoverGMedical:   {layout: LayoutCodeBandGeo, prefix: "G_MEDICAL"},
	CoverH:          {layout: LayoutCodeBandGeo, prefix: "H"},
	CoverIMain:      {layout: LayoutCodeBandGeo, prefix: "I_MAIN"},
	CoverISalary:    {layout: LayoutCodeBandGeo, prefix: "I_SALARY"},
	CoverIMedical:   {layout: LayoutCodeBandGeo, prefix: "I_MED"},
}

// Banded reports whether the cover's key depends on a sum-insured tier
func (c Cover) Banded() bool {
	return len(keyLayouts[c].bands) > 0
}

// Bands returns the tier table of a banded cover, nil otherwise
func (c Cover) Bands() BandTable {
	return keyLayouts[c].bands
}

// RateKey is a resolved, well-formed table key
type RateKey struct {
	Cover     Cover
	Geography domain.Geography
	Band      string
}

// String renders the key following the cover's layout
func (k RateKey) String() string {
	l := keyLayouts[k.Cover]
	geo := k.Geography.KeySuffix()
	switch l.layout {
	case LayoutLetterGeoBand:
		return l.prefix + "_" + geo + "_" + k.Band
	default:
		if k.Band != "" {
			return l.prefix + "_" + k.Band + "_" + geo
		}
		return l.prefix + "_" + geo
	}
}

// NewRateKey builds the key for a cover, geography and banding sum insured
func NewRateKey(cover Cover, geo domain.Geography, bandSumInsured decimal.Decimal) (RateKey, error) {
	l, ok := keyLayouts[cover]
	if !ok {
		return RateKey{}, fmt.Errorf("unknown cover %q", cover)
	}
	if !geo.Valid() {
		return RateKey{}, fmt.Errorf("unknown geography %q", geo)
	}
	k := RateKey{Cover: cover, Geography: geo}
	if len(l.bands) > 0 {
		k.Band = l.bands.Find(bandSumInsured).Suffix
	}
	return k, nil
}

// AllKeys enumerates every well-formed key for every cover, geography and tier
func AllKeys() []RateKey {
	var keys []RateKey
	for _, cover := range Covers() {
		for _, geo := range domain.Geographies() {
			bands := cover.Bands()
			if len(bands) == 0 {
				keys = append(keys, RateKey{Cover: cover, Geography: geo})
				continue
			}
			for _, suffix := range bands.Suffixes() {
				keys = append(keys, RateKey{Cover: cover, Geography: geo, Band: suffix})
			}
		}
	}
	return keys
}
