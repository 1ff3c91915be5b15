package models

import (
	"math"
	"strconv"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxPageNumber keeps (Number-1)*Size within int for every valid Size.
	MaxPageNumber = math.MaxInt / MaxPageSize
)

// Page selects a window of a list view. Number is 1-based.
type Page struct {
	Number int
	Size   int
}

// ParsePage reads page and limit query values. Missing, malformed, zero or
// negative inputs fall back to page 1 and the default size. Both the page
// number and the size are capped, so Offset never goes negative.
func ParsePage(page, limit string) Page {
	return Page{Number: atoiOr(page, 1), Size: atoiOr(limit, DefaultPageSize)}.Normalize()
}

// Normalize clamps the page into the supported range.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Number > MaxPageNumber {
		p.Number = MaxPageNumber
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset is the number of rows skipped before the page starts.
func (p Page) Offset() int {
	p = p.Normalize()
	return (p.Number - 1) * p.Size
}

// Limit is the maximum number of rows in the page.
func (p Page) Limit() int {
	return p.Normalize().Size
}

func atoiOr(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
