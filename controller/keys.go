package controller

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrUnknownKey is returned when a key name is not on the keypad.
var ErrUnknownKey = errors.New("unknown key")

// Key is one keypad button.
type Key string

const (
	Key0 Key = "0"
	Key1 Key = "1"
	Key2 Key = "2"
	Key3 Key = "3"
	Key4 Key = "4"
	Key5 Key = "5"
	Key6 Key = "6"
	Key7 Key = "7"
	Key8 Key = "8"
	Key9 Key = "9"

	KeyDot   Key = "."
	KeyAdd   Key = "+"
	KeySub   Key = "-"
	KeyMul   Key = "*"
	KeyDiv   Key = "/"
	KeyOpen  Key = "("
	KeyClose Key = ")"
	KeyMod   Key = "MOD"

	KeyPower Key = "x^y"
	KeySci   Key = "*10^y"
	KeySqrt  Key = "√x"
	KeyLog   Key = "log"
	KeySin   Key = "sin"
	KeyPi    Key = "π"
	KeyE     Key = "e"

	KeyAns    Key = "ANS"
	KeyDel    Key = "DEL"
	KeyAC     Key = "AC"
	KeyShift  Key = "shift"
	KeyEquals Key = "="

	// Reached through shift.
	KeyCbrt     Key = "∛x"
	KeyExpPower Key = "e^y"
	KeyLn       Key = "ln"
	KeyAsin     Key = "asin"
)

// Keypad is the button layout, row by row.
var Keypad = [][]Key{
	{KeyShift, KeyPower, KeySqrt, KeyLog, KeySin},
	{KeyPi, KeyE, KeyOpen, KeyClose, KeyMod},
	{Key7, Key8, Key9, KeyDel, KeyAC},
	{Key4, Key5, Key6, KeyMul, KeyDiv},
	{Key1, Key2, Key3, KeyAdd, KeySub},
	{Key0, KeyDot, KeySci, KeyAns, KeyEquals},
}

var shifted = map[Key]Key{
	KeySqrt:  KeyCbrt,
	KeyPower: KeyExpPower,
	KeyLog:   KeyLn,
	KeySin:   KeyAsin,
}

// Shifted returns the key produced while shift is active.
func (k Key) Shifted() Key {
	if s, ok := shifted[k]; ok {
		return s
	}
	return k
}

// Label returns the button caption for the given shift state.
func (k Key) Label(shift bool) string {
	if shift {
		k = k.Shifted()
	}
	switch k {
	case KeyPower:
		return "xʸ"
	case KeyExpPower:
		return "eʸ"
	case KeySci:
		return "*10ʸ"
	case KeyAsin:
		return "sin⁻¹"
	default:
		return string(k)
	}
}

// binaryOperator reports keys that continue from the previous answer when
// pressed on an empty buffer.
func (k Key) binaryOperator() bool {
	switch k {
	case KeyAdd, KeySub, KeyMul, KeyDiv, KeyMod, KeySci:
		return true
	default:
		return false
	}
}

// aliases maps lower-cased names to keys. Every key's own name and label is added in init.
var aliases = map[string]Key{
	"×":         KeyMul,
	"÷":         KeyDiv,
	"−":         KeySub,
	"%":         KeyMod,
	"^":         KeyPower,
	"**":        KeyPower,
	"pow":       KeyPower,
	"√":         KeySqrt,
	"sqrt":      KeySqrt,
	"∛":         KeyCbrt,
	"cbrt":      KeyCbrt,
	"exp":       KeyExpPower,
	"sin⁻¹":     KeyAsin,
	"pi":        KeyPi,
	"backspace": KeyDel,
	"clear":     KeyAC,
	"enter":     KeyEquals,
}

// aliasNames holds every alias, longest first, for greedy matching.
var aliasNames []string

func init() {
	add := func(k Key) {
		aliases[strings.ToLower(string(k))] = k
		aliases[strings.ToLower(k.Label(false))] = k
	}
	for _, row := range Keypad {
		for _, k := range row {
			add(k)
			add(k.Shifted())
		}
	}
	for name := range aliases {
		aliasNames = append(aliasNames, name)
	}
	sort.Slice(aliasNames, func(i, j int) bool {
		if n, m := utf8.RuneCountInString(aliasNames[i]), utf8.RuneCountInString(aliasNames[j]); n != m {
			return n > m
		}
		return aliasNames[i] < aliasNames[j]
	})
}

// ParseKey resolves a key name, label or alias, ignoring case.
func ParseKey(name string) (Key, error) {
	if k, ok := aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, name)
}

// SplitKeys turns a typed line into key presses. Each whitespace-separated
// field is tried as a key name first; otherwise it is consumed by the longest
// matching key name at each position, so "sin30)" is sin, 3, 0, ).
func SplitKeys(line string) ([]Key, error) {
	var keys []Key
	for _, field := range strings.FieldsFunc(line, unicode.IsSpace) {
		if k, err := ParseKey(field); err == nil {
			keys = append(keys, k)
			continue
		}

		rest := strings.ToLower(field)
		for rest != "" {
			name, ok := longestAlias(rest)
			if !ok {
				r, _ := utf8.DecodeRuneInString(rest)
				return nil, fmt.Errorf("%w: %q in %q", ErrUnknownKey, r, field)
			}
			keys = append(keys, aliases[name])
			rest = rest[len(name):]
		}
	}
	return keys, nil
}

func longestAlias(s string) (string, bool) {
	for _, name := range aliasNames {
		if strings.HasPrefix(s, name) {
			return name, true
		}
	}
	return "", false
}
