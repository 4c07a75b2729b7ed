package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRow_GetCaseInsensitive(t *testing.T) {
	row := Row{"RDB$RELATION_NAME": "USERS"}

	v, ok := row.Get("rdb$relation_name")
	assert.True(t, ok)
	assert.Equal(t, "USERS", v)

	_, ok = row.Get("MISSING")
	assert.False(t, ok)
}

func TestRow_GetSynonyms(t *testing.T) {
	row := Row{"NAME": "ORDERS"}

	v, ok := row.Get("RDB$RELATION_NAME", "NAME")
	assert.True(t, ok)
	assert.Equal(t, "ORDERS", v)
}

func TestRow_StrTrimsCharPadding(t *testing.T) {
	// Firebird CHAR catalog columns arrive space-padded.
	row := Row{"FIELD_NAME": "ID                              "}
	assert.Equal(t, "ID", row.Str("FIELD_NAME"))
}

func TestRow_StrHandlesNilAndBytes(t *testing.T) {
	row := Row{"A": nil, "B": []byte("source ")}
	assert.Equal(t, "", row.Str("A"))
	assert.Equal(t, "", row.Str("MISSING"))
	assert.Equal(t, "source", row.Str("B"))
}

func TestRow_Int(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want int64
	}{
		{name: "int64", val: int64(37), want: 37},
		{name: "int32", val: int32(-2), want: -2},
		{name: "int", val: 7, want: 7},
		{name: "float64", val: float64(16), want: 16},
		{name: "numeric string", val: "261", want: 261},
		{name: "nil", val: nil, want: 0},
		{name: "garbage string", val: "abc", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := Row{"V": tt.val}
			assert.Equal(t, tt.want, row.Int("V"))
		})
	}
}

func TestRow_IntOK(t *testing.T) {
	row := Row{"PRECISION": int64(0)}

	v, ok := row.IntOK("PRECISION")
	assert.True(t, ok, "present zero is distinguishable from absent")
	assert.Equal(t, int64(0), v)

	_, ok = row.IntOK("MISSING")
	assert.False(t, ok)
}

func TestRow_Bool(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want bool
	}{
		{name: "native true", val: true, want: true},
		{name: "one", val: int64(1), want: true},
		{name: "zero", val: int64(0), want: false},
		{name: "yes string", val: "YES", want: true},
		{name: "no string", val: "NO", want: false},
		{name: "nil null flag", val: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := Row{"FLAG": tt.val}
			assert.Equal(t, tt.want, row.Bool("FLAG"))
		})
	}
}
