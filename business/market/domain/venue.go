// Package domain contains the core domain types for the market context.
package domain

import "fmt"

// Venue identifies a DEX venue the bot watches.
type Venue string

const (
	VenuePumpSwap Venue = "PumpSwap"
	VenueDammV2   Venue = "DammV2"
	VenueDLMM     Venue = "DLMM"
)

// AllVenues lists every supported venue in display order.
var AllVenues = []Venue{VenuePumpSwap, VenueDammV2, VenueDLMM}

// String returns the venue's display name.
func (v Venue) String() string {
	return string(v)
}

// Valid reports whether v is a known venue.
func (v Venue) Valid() bool {
	switch v {
	case VenuePumpSwap, VenueDammV2, VenueDLMM:
		return true
	}
	return false
}

// ParseVenue converts a string into a Venue.
func ParseVenue(s string) (Venue, error) {
	v := Venue(s)
	if !v.Valid() {
		return "", fmt.Errorf("unknown venue: %q", s)
	}
	return v, nil
}
