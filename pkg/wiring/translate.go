package wiring

import (
	"fmt"

	"github.com/matzehuels/qmkwire/pkg/errors"
)

// Translator maps a raw microcontroller pin identifier to a board label.
type Translator interface {
	Translate(raw string) (string, error)
}

// PinLabel pairs a raw pin identifier with its board label.
type PinLabel struct {
	Pin   string
	Label string
}

// proMicroPins is the Pro Micro (ATmega32U4) pinout.
// Source: https://golem.hu/article/pro-micro-pinout/
var proMicroPins = [...]PinLabel{
	{"D3", "TX0"},
	{"D2", "RX1"},
	{"D1", "2"},
	{"D0", "3"},
	{"D4", "4"},
	{"C6", "5"},
	{"D7", "6"},
	{"E6", "7"},
	{"B4", "8"},
	{"B5", "9"},
	{"B6", "10"},
	{"B3", "14"},
	{"B1", "15"},
	{"B2", "16"},
	{"F7", "A0"},
	{"F6", "A1"},
	{"F5", "A2"},
	{"F4", "A3"},
	{"B0", "LED pin (left of crystal)"},
	{"D5", "LED pin (right of crystal)"},
}

// proMicroIndex is built once from proMicroPins and never written afterwards.
var proMicroIndex = func() map[string]string {
	m := make(map[string]string, len(proMicroPins))
	for _, p := range proMicroPins {
		m[p.Pin] = p.Label
	}
	return m
}()

// Translate returns the Pro Micro board label for raw.
// Unknown pins fail with LOOKUP_FAILED.
func Translate(raw string) (string, error) {
	label, ok := proMicroIndex[raw]
	if !ok {
		return "", errors.New(errors.ErrCodeLookup, "no board label for pin %q", raw)
	}
	return label, nil
}

// ProMicroPins returns the Pro Micro translation table in pinout order.
func ProMicroPins() []PinLabel {
	return append([]PinLabel(nil), proMicroPins[:]...)
}

type proMicroTranslator struct{}

func (proMicroTranslator) Translate(raw string) (string, error) { return Translate(raw) }

type rawTranslator struct{}

func (rawTranslator) Translate(pin string) (string, error) { return pin, nil }

// Translators available by name.
var (
	// ProMicro labels pins with the Pro Micro silkscreen.
	ProMicro Translator = proMicroTranslator{}

	// Raw leaves pin identifiers untouched.
	Raw Translator = rawTranslator{}
)

// Translator names accepted by [TranslatorByName].
const (
	TranslatorProMicro = "promicro"
	TranslatorRaw      = "raw"
)

// TranslatorByName returns the translator registered under name.
// An empty name selects [ProMicro].
func TranslatorByName(name string) (Translator, error) {
	switch name {
	case "", TranslatorProMicro:
		return ProMicro, nil
	case TranslatorRaw:
		return Raw, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown pin translator %q (want %s or %s)", name, TranslatorProMicro, TranslatorRaw)
	}
}

// TranslateAll translates pins in order, stopping at the first failure.
func TranslateAll(t Translator, pins []string) ([]string, error) {
	out := make([]string, len(pins))
	for i, p := range pins {
		label, err := t.Translate(p)
		if err != nil {
			return nil, fmt.Errorf("pin %d: %w", i, err)
		}
		out[i] = label
	}
	return out, nil
}
