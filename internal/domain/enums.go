package domain

import (
	"fmt"
	"math"
	"strings"
)

// ContractType distinguishes an individual policy from a group policy
type ContractType string

const (
	ContractIndividual ContractType = "individual"
	ContractGroup      ContractType = "group"
)

// Valid reports whether the contract type is one of the known values
func (c ContractType) Valid() bool {
	return c == ContractIndividual || c == ContractGroup
}

// Geography is the territorial scope of cover
type Geography string

const (
	GeographyVietnam Geography = "vietnam"
	GeographyAsia    Geography = "asia"
	GeographyGlobal  Geography = "global"
)

// Geographies lists every supported geography in display order
func Geographies() []Geography {
	return []Geography{GeographyVietnam, GeographyAsia, GeographyGlobal}
}

// Valid reports whether g is a supported geography
func (g Geography) Valid() bool {
	switch g {
	case GeographyVietnam, GeographyAsia, GeographyGlobal:
		return true
	}
	return false
}

// KeySuffix returns the rate-table token for the geography (VN, ASIA, GLOBAL)
func (g Geography) KeySuffix() string {
	switch g {
	case GeographyVietnam:
		return "VN"
	case GeographyAsia:
		return "ASIA"
	case GeographyGlobal:
		return "GLOBAL"
	}
	return ""
}

// ParseGeography accepts the canonical names as well as the key suffixes
func ParseGeography(s string) (Geography, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vietnam", "vn":
		return GeographyVietnam, nil
	case "asia":
		return GeographyAsia, nil
	case "global", "worldwide":
		return GeographyGlobal, nil
	}
	return "", fmt.Errorf("unknown geography %q", s)
}

// Duration is the insurance period band
type Duration string

const (
	DurationUpTo3Months Duration = "upto_3_months"
	DurationUpTo6Months Duration = "upto_6_months"
	DurationUpTo9Months Duration = "upto_9_months"
	DurationOver9Months Duration = "over_9_months"
)

// Durations lists the duration bands from shortest to longest
func Durations() []Duration {
	return []Duration{DurationUpTo3Months, DurationUpTo6Months, DurationUpTo9Months, DurationOver9Months}
}

// Valid reports whether d is a known duration band
func (d Duration) Valid() bool {
	for _, v := range Durations() {
		if d == v {
			return true
		}
	}
	return false
}

// CoPay is the insured's co-payment share in percent
type CoPay int

// CoPayLevels lists the six allowed co-payment levels
func CoPayLevels() []CoPay {
	return []CoPay{0, 10, 20, 30, 40, 50}
}

// Valid reports whether c is one of the allowed co-payment levels
func (c CoPay) Valid() bool {
	return c >= 0 && c <= 50 && c%10 == 0
}

// NearestCoPay rounds a percentage to the closest allowed co-payment level
func NearestCoPay(percent float64) CoPay {
	level := int(math.Round(percent/10)) * 10
	if level < 0 {
		level = 0
	}
	if level > 50 {
		level = 50
	}
	return CoPay(level)
}

// RenewalStatus records whether the policy renews the prior year's cover without a gap
type RenewalStatus string

const (
	RenewalContinuous    RenewalStatus = "continuous"
	RenewalNonContinuous RenewalStatus = "non_continuous"
)

// Valid reports whether r is a known renewal status
func (r RenewalStatus) Valid() bool {
	return r == RenewalContinuous || r == RenewalNonContinuous
}

// Gender of an individually insured person
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// SumInsuredMethod selects how a benefit's sum insured is derived
type SumInsuredMethod string

const (
	MethodFixed  SumInsuredMethod = "fixed"
	MethodSalary SumInsuredMethod = "salary"
)

// BenefitCode identifies one of the nine benefit blocks
type BenefitCode string

const (
	BenefitA BenefitCode = "A"
	BenefitB BenefitCode = "B"
	BenefitC BenefitCode = "C"
	BenefitD BenefitCode = "D"
	BenefitE BenefitCode = "E"
	BenefitF BenefitCode = "F"
	BenefitG BenefitCode = "G"
	BenefitH BenefitCode = "H"
	BenefitI BenefitCode = "I"
)

// BenefitCodes returns the benefit codes in declared order
func BenefitCodes() []BenefitCode {
	return []BenefitCode{BenefitA, BenefitB, BenefitC, BenefitD, BenefitE, BenefitF, BenefitG, BenefitH, BenefitI}
}

// MainBenefits are the blocks of which at least one must be selected for a quote to be exportable
func MainBenefits() []BenefitCode {
	return []BenefitCode{BenefitA, BenefitB, BenefitC}
}

// ParseBenefitCode parses a single letter benefit code, case-insensitively
func ParseBenefitCode(s string) (BenefitCode, error) {
	code := BenefitCode(strings.ToUpper(strings.TrimSpace(s)))
	for _, c := range BenefitCodes() {
		if c == code {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown benefit code %q", s)
}

// Label returns the English display name of the benefit block
func (b BenefitCode) Label() string {
	switch b {
	case BenefitA:
		return "Personal accident"
	case BenefitB:
		return "Death or total disability by illness"
	case BenefitC:
		return "Inpatient treatment"
	case BenefitD:
		return "Maternity"
	case BenefitE:
		return "Outpatient treatment"
	case BenefitF:
		return "Dental care"
	case BenefitG:
		return "Emergency assistance and evacuation"
	case BenefitH:
		return "Income loss during treatment"
	case BenefitI:
		return "Poisoning"
	}
	return string(b)
}

// Prerequisite returns the block that must be selected for b to apply, or "" for independent blocks
func (b BenefitCode) Prerequisite() BenefitCode {
	switch b {
	case BenefitD, BenefitE, BenefitF, BenefitG, BenefitH:
		return BenefitC
	case BenefitI:
		return BenefitA
	}
	return ""
}
