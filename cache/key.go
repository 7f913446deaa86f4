package cache

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeKey turns a city query into a cache key: NFC-normalized, case-folded,
// with runs of whitespace collapsed. "  SÃO  paulo" and "são Paulo" share a key.
func NormalizeKey(query string) string {
	s := strings.Join(strings.Fields(query), " ")
	// Casers are stateful, so each call gets its own.
	return cases.Fold().String(norm.NFC.String(s))
}

// coordinateKey buckets coordinates to about 1 km so nearby lookups share an entry
func coordinateKey(lat, lon float64) string {
	return fmt.Sprintf("%.2f,%.2f", lat, lon)
}
