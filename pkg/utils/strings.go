package utils

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Camel2Case converts OrderItem to order_item.
func Camel2Case(name string) string {
	buffer := new(bytes.Buffer)
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i != 0 {
				buffer.WriteByte('_')
			}
			buffer.WriteRune(unicode.ToLower(r))
		} else {
			buffer.WriteRune(r)
		}
	}
	return buffer.String()
}

// Case2Camel converts order_item (or order-item) to OrderItem.
func Case2Camel(name string) string {
	buffer := new(bytes.Buffer)
	upper := true
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			upper = true
		case upper:
			buffer.WriteRune(unicode.ToUpper(r))
			upper = false
		default:
			buffer.WriteRune(r)
		}
	}
	return buffer.String()
}

// LowerFirst converts OrderItem to orderItem.
func LowerFirst(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToLower(r)) + name[size:]
}

// PackagePath turns a dotted package name into a relative directory.
func PackagePath(pkg string) string {
	if pkg == "" {
		return ""
	}
	return filepath.Join(strings.Split(pkg, ".")...)
}
