//go:build tools

package tools

// go-rod is imported only by internal/web/browser_e2e_test.go, which is built
// with -tags browser. This blank import keeps it in go.mod under go mod tidy.

import (
	_ "github.com/go-rod/rod"
)
