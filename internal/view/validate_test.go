package view

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@b.co", "user.name+tag@example.com"}
	for _, email := range valid {
		assert.NoError(t, ValidateEmail(email), email)
	}

	invalid := []string{"", "a@b", "not-an-email", "@example.com", "a b@example.com"}
	for _, email := range invalid {
		assert.Error(t, ValidateEmail(email), email)
	}
}

func TestValidateFolderName(t *testing.T) {
	valid := []string{"Photos 2024", "notes", "archive.old", "a"}
	for _, name := range valid {
		assert.NoError(t, ValidateFolderName(name), name)
	}

	invalid := []string{
		"",
		"   ",
		"a/b",
		`a\b`,
		"what?",
		"CON",
		"con",
		"CON.backup",
		"LPT3",
		".",
		"..",
		strings.Repeat("x", 101),
	}
	for _, name := range invalid {
		assert.Error(t, ValidateFolderName(name), name)
	}
}
