package db

import (
	"fmt"
	"strings"

	"github.com/dtnitsch/deepfield/pkg/links"
)

// NameIDFromArg accepts either a name id or a page URL and returns the name
// id.
func NameIDFromArg(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("name id or URL required")
	}
	if strings.Contains(arg, "/") {
		nameID := links.NameID(arg)
		if nameID == "" {
			return "", fmt.Errorf("no name id in %q", arg)
		}
		return nameID, nil
	}
	return arg, nil
}

func nullable[T fmt.Stringer](v *T) string {
	if v == nil {
		return "(none)"
	}
	return (*v).String()
}
