package snbt

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

var ErrConvertFailed = errors.New("snbt: conversion failed")

// ConvertError carries the failing byte offset into the rewritten text plus
// a window of surrounding context for diagnostics.
type ConvertError struct {
	Offset  int64
	Context string
	cause   error
}

func (e *ConvertError) Error() string {
	return fmt.Sprintf("%v at offset %d near %q: %v", ErrConvertFailed, e.Offset, e.Context, e.cause)
}

func (e *ConvertError) Unwrap() error { return ErrConvertFailed }

var (
	// Typed-array prefixes ([I; [B; [L;) collapse to a plain bracket.
	reTypedArray = regexp.MustCompile(`\[[IBL];`)

	// Bare identifier-like keys preceding a colon.
	reBareKey = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_.+-]*)\s*:`)

	// Numeric-type suffix on a literal immediately followed by a structural
	// delimiter or end of input.
	reNumSuffix = regexp.MustCompile(`(-?\d+\.?\d*)[bsdflBSDFL]([,\]}\s]|$)`)

	// Bare scalar value following a colon, up to a structural delimiter.
	reBareValue = regexp.MustCompile(`(:\s*)([A-Za-z_][A-Za-z0-9_.+-]*)(\s*[,\]}])`)

	// Bare scalar value directly inside an array.
	reBareItem = regexp.MustCompile(`([\[,]\s*)([A-Za-z_][A-Za-z0-9_.+-]*)(\s*[,\]])`)
)

// Convert rewrites the textual dialect into strict JSON and parses it.
// Malformed input is a recoverable outcome: the result is nil and the error
// wraps ErrConvertFailed; Convert never panics. Integral numeric literals
// decode to int64 with full 64-bit precision, all other numerics to float64.
func Convert(text string) (any, error) {
	rewritten := rewrite(text)

	dec := json.NewDecoder(strings.NewReader(rewritten))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, convertError(rewritten, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, convertError(rewritten, fmt.Errorf("trailing data after value"))
	}
	return normalize(v), nil
}

// rewrite applies the staged textual transforms. Stage order matters: keys
// must be quoted before bare-value quoting so a quoted key is never
// re-matched as a bare array item.
func rewrite(text string) string {
	s := rewriteQuotes(text)
	s = reTypedArray.ReplaceAllString(s, "[")
	s = reBareKey.ReplaceAllString(s, `${1}"${2}":`)
	s = reNumSuffix.ReplaceAllString(s, "${1}${2}")
	s = quoteBareWords(reBareValue, s)
	// Adjacent array items share their comma delimiter, so one pass can
	// only rewrite every other item; repeat until stable.
	for {
		next := quoteBareWords(reBareItem, s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

// rewriteQuotes converts single-quoted string literals to double-quoted,
// unescaping embedded single quotes and escaping embedded double quotes.
// Double-quoted literals pass through untouched.
func rewriteQuotes(text string) string {
	var out strings.Builder
	out.Grow(len(text))
	inDouble := false
	inSingle := false
	escaped := false
	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case escaped:
			if inSingle {
				if ch == '\'' {
					out.WriteByte('\'')
				} else {
					out.WriteByte('\\')
					out.WriteByte(ch)
				}
			} else {
				out.WriteByte('\\')
				out.WriteByte(ch)
			}
			escaped = false
		case ch == '\\' && (inSingle || inDouble):
			escaped = true
		case inSingle:
			if ch == '\'' {
				out.WriteByte('"')
				inSingle = false
			} else if ch == '"' {
				out.WriteString(`\"`)
			} else {
				out.WriteByte(ch)
			}
		case inDouble:
			out.WriteByte(ch)
			if ch == '"' {
				inDouble = false
			}
		case ch == '\'':
			out.WriteByte('"')
			inSingle = true
		default:
			out.WriteByte(ch)
			if ch == '"' {
				inDouble = true
			}
		}
	}
	if escaped {
		out.WriteByte('\\')
	}
	return out.String()
}

// quoteBareWords wraps the bare word captured by re in double quotes unless
// it is already a JSON keyword. re must capture (prefix, word, suffix).
func quoteBareWords(re *regexp.Regexp, s string) string {
	return re.ReplaceAllStringFunc(s, func(m string) string {
		sub := re.FindStringSubmatch(m)
		word := sub[2]
		switch word {
		case "true", "false", "null":
			return m
		}
		return sub[1] + `"` + word + `"` + sub[3]
	})
}

func convertError(rewritten string, err error) error {
	var offset int64
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		offset = syn.Offset
	}
	cerr := &ConvertError{
		Offset:  offset,
		Context: contextWindow(rewritten, offset),
		cause:   err,
	}
	log.Debug().
		Int64("offset", cerr.Offset).
		Str("context", cerr.Context).
		Err(err).
		Msg("snbt convert failed")
	return cerr
}

func contextWindow(s string, offset int64) string {
	const radius = 20
	lo := int(offset) - radius
	if lo < 0 {
		lo = 0
	}
	hi := int(offset) + radius
	if hi > len(s) {
		hi = len(s)
	}
	if lo > len(s) {
		lo = len(s)
	}
	return s[lo:hi]
}

// normalize collapses json.Number into int64 (integral literals) or float64
// so 64-bit integers keep full precision end to end.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = normalize(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = normalize(item)
		}
		return t
	case json.Number:
		raw := t.String()
		if !strings.ContainsAny(raw, ".eE") {
			if n, err := t.Int64(); err == nil {
				return n
			}
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return raw
	default:
		return v
	}
}
