package steps

import (
	"fmt"
	"strings"
)

func expectTrue(ok bool, format string, args ...any) error {
	if ok {
		return nil
	}
	return fmt.Errorf(format, args...)
}

func expectContains(what, actual, want string) error {
	if strings.Contains(actual, want) {
		return nil
	}
	return fmt.Errorf("expected %s to contain %q, got %q", what, want, actual)
}

func expectNotEmpty(what, actual string) error {
	if strings.TrimSpace(actual) != "" {
		return nil
	}
	return fmt.Errorf("expected %s to be present, got nothing", what)
}
