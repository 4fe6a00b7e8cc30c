package domain

import (
	"encoding/json"
	"errors"
)

// LanguageTag is a closed tagged variant: Fr, En, Auto, or Other(code).
// Other must carry a non-empty code; the zero value is Auto.
type LanguageTag struct {
	kind  languageKind
	other string
}

type languageKind int

const (
	languageAuto languageKind = iota
	languageFr
	languageEn
	languageOther
)

// Fr, En and Auto are the three fixed LanguageTag variants.
var (
	Fr   = LanguageTag{kind: languageFr}
	En   = LanguageTag{kind: languageEn}
	Auto = LanguageTag{kind: languageAuto}
)

// ErrEmptyOtherLanguage is returned by OtherLanguage when code is empty.
var ErrEmptyOtherLanguage = errors.New("language tag: other code must not be empty")

// OtherLanguage builds the Other(code) variant. code must be non-empty.
func OtherLanguage(code string) (LanguageTag, error) {
	if code == "" {
		return LanguageTag{}, ErrEmptyOtherLanguage
	}
	return LanguageTag{kind: languageOther, other: code}, nil
}

// IsFr, IsEn, IsAuto report the tag's variant.
func (t LanguageTag) IsFr() bool   { return t.kind == languageFr }
func (t LanguageTag) IsEn() bool   { return t.kind == languageEn }
func (t LanguageTag) IsAuto() bool { return t.kind == languageAuto }

// Other returns the code and true if t is the Other variant.
func (t LanguageTag) Other() (string, bool) {
	if t.kind == languageOther {
		return t.other, true
	}
	return "", false
}

func (t LanguageTag) String() string {
	switch t.kind {
	case languageFr:
		return "Fr"
	case languageEn:
		return "En"
	case languageOther:
		return t.other
	default:
		return "Auto"
	}
}

// MarshalJSON renders Fr/En/Auto as bare strings and Other as {"Other":"xx"}.
func (t LanguageTag) MarshalJSON() ([]byte, error) {
	switch t.kind {
	case languageFr:
		return json.Marshal("Fr")
	case languageEn:
		return json.Marshal("En")
	case languageOther:
		return json.Marshal(struct {
			Other string `json:"Other"`
		}{Other: t.other})
	default:
		return json.Marshal("Auto")
	}
}

// UnmarshalJSON accepts "Fr", "En", "Auto" or {"Other":"xx"}.
func (t *LanguageTag) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		switch asString {
		case "Fr":
			*t = Fr
		case "En":
			*t = En
		case "Auto":
			*t = Auto
		default:
			return errors.New("language tag: unknown variant " + asString)
		}
		return nil
	}

	var asOther struct {
		Other string `json:"Other"`
	}
	if err := json.Unmarshal(data, &asOther); err != nil {
		return err
	}
	other, err := OtherLanguage(asOther.Other)
	if err != nil {
		return err
	}
	*t = other
	return nil
}
