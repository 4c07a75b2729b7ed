package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dbcove/dbcove/internal/errs"
)

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"USERS"`, QuoteIdent("USERS"))
	assert.Equal(t, `"mixed Case"`, QuoteIdent("mixed Case"))
	assert.Equal(t, `"she said ""hi"""`, QuoteIdent(`she said "hi"`))
}

func TestValidIdent(t *testing.T) {
	valid := []string{"USERS", "users", "_tmp", "A1", "RDB_X", "acct$bal"}
	for _, name := range valid {
		assert.True(t, ValidIdent(name), name)
	}

	invalid := []string{
		"",
		"1ABC",      // digit first
		"$X",        // dollar first
		"A B",       // space
		"A-B",       // dash
		"A;B",       // statement separator
		`A"B`,       // quote
		"naïve",     // non-ASCII
		strings.Repeat("A", 64), // too long
	}
	for _, name := range invalid {
		assert.False(t, ValidIdent(name), name)
	}

	assert.True(t, ValidIdent(strings.Repeat("A", 63)))
}

func TestCheckIdent(t *testing.T) {
	assert.NoError(t, CheckIdent("table", "USERS"))

	err := CheckIdent("table", "bad name")
	assert.Error(t, err)
	assert.True(t, errs.IsInvalidConfig(err))
	assert.Contains(t, err.Error(), "table")
	assert.Contains(t, err.Error(), "bad name")
}
