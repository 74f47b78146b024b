package controller

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	t.Parallel()

	tests := map[string]Key{
		"7":         Key7,
		"sqrt":      KeySqrt,
		"√x":        KeySqrt,
		"mod":       KeyMod,
		"%":         KeyMod,
		"ans":       KeyAns,
		"×":         KeyMul,
		"÷":         KeyDiv,
		"E":         KeyE,
		"pi":        KeyPi,
		"π":         KeyPi,
		"xʸ":        KeyPower,
		"^":         KeyPower,
		"*10ʸ":      KeySci,
		"*10^y":     KeySci,
		"sin⁻¹":     KeyAsin,
		"asin":      KeyAsin,
		"eʸ":        KeyExpPower,
		"∛x":        KeyCbrt,
		"ln":        KeyLn,
		" del ":     KeyDel,
		"AC":        KeyAC,
		"Shift":     KeyShift,
		"=":         KeyEquals,
		"enter":     KeyEquals,
		"(":         KeyOpen,
		"backspace": KeyDel,
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseKey(name)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	_, err := ParseKey("foo")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownKey))
}

func TestSplitKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected []Key
	}{
		{"12+3=", []Key{Key1, Key2, KeyAdd, Key3, KeyEquals}},
		{"sin30)", []Key{KeySin, Key3, Key0, KeyClose}},
		{"shift √x 27 ) =", []Key{KeyShift, KeySqrt, Key2, Key7, KeyClose, KeyEquals}},
		{"2*10^y3)", []Key{Key2, KeySci, Key3, KeyClose}},
		{"7 mod 3", []Key{Key7, KeyMod, Key3}},
		{"ans*2", []Key{KeyAns, KeyMul, Key2}},
		{"  ", nil},
		{"DEL AC", []Key{KeyDel, KeyAC}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := SplitKeys(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := SplitKeys("1$")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownKey))
}

func TestKeypad(t *testing.T) {
	t.Parallel()

	require.Len(t, Keypad, 6)
	for _, row := range Keypad {
		require.Len(t, row, 5)
		for _, k := range row {
			got, err := ParseKey(k.Label(false))
			require.NoError(t, err)
			assert.Equal(t, k, got)

			got, err = ParseKey(k.Label(true))
			require.NoError(t, err)
			assert.Equal(t, k.Shifted(), got)
		}
	}
}

func TestKey_Shifted(t *testing.T) {
	t.Parallel()

	assert.Equal(t, KeyCbrt, KeySqrt.Shifted())
	assert.Equal(t, KeyExpPower, KeyPower.Shifted())
	assert.Equal(t, KeyLn, KeyLog.Shifted())
	assert.Equal(t, KeyAsin, KeySin.Shifted())
	assert.Equal(t, Key5, Key5.Shifted())
	assert.Equal(t, "sin⁻¹", KeySin.Label(true))
	assert.Equal(t, "sin", KeySin.Label(false))
}
