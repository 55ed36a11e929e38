package view

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateEmail checks a share recipient's address syntactically.
func ValidateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("invalid email address: %q", email)
	}
	return nil
}

const folderNameMaxLen = 100

const folderNameForbidden = `\/:*?"<>|`

// Names Windows refuses regardless of extension.
var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {},
	"COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {},
	"LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// ValidateFolderName checks a folder name before it is submitted to the
// server: 1-100 characters, no path or device-unsafe characters, no
// reserved device names.
func ValidateFolderName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("folder name is required")
	}
	if len(name) > folderNameMaxLen {
		return fmt.Errorf("folder name must be at most %d characters", folderNameMaxLen)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("invalid folder name: %q", name)
	}
	if i := strings.IndexAny(name, folderNameForbidden); i >= 0 {
		return fmt.Errorf("folder name must not contain %q", name[i:i+1])
	}

	base := name
	if dot := strings.IndexByte(base, '.'); dot > 0 {
		base = base[:dot]
	}
	if _, ok := reservedNames[strings.ToUpper(base)]; ok {
		return fmt.Errorf("%q is a reserved name", name)
	}
	return nil
}
