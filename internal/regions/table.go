// Package regions holds the static island/remote-region data used by the
// shipment classifier: a postal-code table loaded from a JSON asset, an
// address keyword fallback, and the carrier Saturday-closure phrases.
package regions

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Carrier notices that mean "no Saturday delivery" for this shipment.
// Matched as plain substrings of the free-text notify message.
var saturdayClosedPhrases = []string{
	"토요일 배송 불가",
	"토요일 휴무",
}

// Address fallback for island detection when postal-code coverage fails.
// This must stay an allow-list of specific named places (single islands plus
// the two whole-island administrative regions). Broad city or province names
// would start matching inland addresses.
var islandKeywords = []string{
	// whole-island administrative regions
	"제주특별자치도",
	"울릉군",
	// Jeju attached islands
	"우도", "추자도", "가파도", "마라도", "비양도",
	// West Sea (Incheon Ongjin)
	"백령도", "대청도", "소청도", "연평도", "덕적도", "자월도", "승봉도",
	// Sinan archipelago
	"흑산도", "홍도", "비금도", "도초도", "암태도", "안좌도", "팔금도", "자은도", "임자도",
	// South coast
	"거문도", "금오도", "욕지도", "사량도", "한산도", "매물도", "청산도",
	"보길도", "노화도", "소안도", "생일도", "금일도", "관매도", "가사도",
	// West coast
	"위도", "어청도", "외연도", "삽시도", "녹도",
}

// HasSaturdayClosedPhrase reports whether a carrier notice contains one of
// the fixed "no Saturday delivery" phrases.
func HasSaturdayClosedPhrase(msg string) bool {
	for _, p := range saturdayClosedPhrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// ContainsIslandKeyword reports whether the given address text names one of
// the allow-listed island places.
func ContainsIslandKeyword(text string) bool {
	for _, kw := range islandKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// One row of the postal-code asset.
type Entry struct {
	Zipcode string `json:"zipcode"`
	Region  string `json:"region"`
}

// Table maps island/remote postal codes to their region name.
// Built once at startup and immutable afterwards, so lookups are safe from
// concurrent classifier calls.
type Table struct {
	zips map[string]string
}

// NewTable builds a lookup table from validated entries.
func NewTable(entries []Entry) (*Table, error) {
	zips := make(map[string]string, len(entries))
	for i, e := range entries {
		zip := NormalizeZip(e.Zipcode)
		if zip == "" {
			return nil, fmt.Errorf("region table: empty zipcode at index %d", i+1)
		}

		region := strings.TrimSpace(e.Region)
		if region == "" {
			return nil, fmt.Errorf("region table: empty region for zipcode %q", e.Zipcode)
		}
		zips[zip] = region
	}
	return &Table{zips: zips}, nil
}

// Load reads the postal-code asset from a JSON file.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load region table: read %q: %w", path, err)
	}

	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("load region table: parse json: %w", err)
	}

	tbl, err := NewTable(entries)
	if err != nil {
		return nil, fmt.Errorf("load region table: %w", err)
	}
	return tbl, nil
}

// IsIslandZip reports whether the postal code resolves to an island region.
// Unresolvable or empty codes are simply not islands.
func (t *Table) IsIslandZip(zip string) bool {
	if t == nil {
		return false
	}
	_, ok := t.zips[NormalizeZip(zip)]
	return ok
}

// RegionOf returns the region name for an island postal code.
func (t *Table) RegionOf(zip string) (string, bool) {
	if t == nil {
		return "", false
	}
	r, ok := t.zips[NormalizeZip(zip)]
	return r, ok
}

// Len returns the number of postal codes in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.zips)
}

// NormalizeZip strips everything but digits so "63000", " 63000 " and
// "630-00" compare equal. Rows come from an external store and carry both
// old and new formats.
func NormalizeZip(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
