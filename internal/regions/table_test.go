package regions

import (
	"os"
	"path/filepath"
	"testing"
)

func writeAsset(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "island_zipcodes.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write asset: %v", err)
	}
	return path
}

func TestLoadTable(t *testing.T) {
	path := writeAsset(t, `[
		{"zipcode": "63104", "region": "제주"},
		{"zipcode": " 40205 ", "region": "울릉"},
		{"zipcode": "230-10", "region": "인천 옹진"}
	]`)

	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tbl.Len() != 3 {
		t.Fatalf("Len = %d, want 3", tbl.Len())
	}
	if !tbl.IsIslandZip("63104") {
		t.Fatal("63104 should be island")
	}
	// Normalization applies on both sides of the lookup.
	if !tbl.IsIslandZip(" 40205") {
		t.Fatal("' 40205' should normalize and match")
	}
	if !tbl.IsIslandZip("23010") {
		t.Fatal("'230-10' entry should match digits-only lookup")
	}
	if tbl.IsIslandZip("06035") {
		t.Fatal("mainland zipcode must not match")
	}
	if tbl.IsIslandZip("") {
		t.Fatal("empty zipcode must not match")
	}

	region, ok := tbl.RegionOf("63104")
	if !ok || region != "제주" {
		t.Fatalf("RegionOf(63104) = %q/%v, want 제주/true", region, ok)
	}
}

func TestLoadTableRejectsBadEntries(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"empty zipcode", `[{"zipcode": "", "region": "제주"}]`},
		{"non-digit zipcode", `[{"zipcode": "--", "region": "제주"}]`},
		{"empty region", `[{"zipcode": "63104", "region": " "}]`},
		{"not json", `zipcode,region`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeAsset(t, tc.content)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadTableMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error")
	}
}

func TestNilTableLookups(t *testing.T) {
	var tbl *Table
	if tbl.IsIslandZip("63104") {
		t.Fatal("nil table must not match")
	}
	if tbl.Len() != 0 {
		t.Fatal("nil table Len should be 0")
	}
}

func TestContainsIslandKeyword(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"제주특별자치도 제주시 연동 312-1", true},
		{"경상북도 울릉군 울릉읍 도동리 104", true},
		{"인천광역시 옹진군 백령면 백령도 진촌리 552", true},
		{"서울특별시 강남구 가로수길 43", false},
		// Broad region names alone must not match; only the allow-listed
		// whole-island regions do.
		{"전라남도 신안군청", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := ContainsIslandKeyword(tc.text); got != tc.want {
			t.Fatalf("ContainsIslandKeyword(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestHasSaturdayClosedPhrase(t *testing.T) {
	cases := []struct {
		msg  string
		want bool
	}{
		{"도서 지역 토요일 배송 불가 안내드립니다", true},
		{"해당 지점 토요일 휴무", true},
		{"일요일 휴무", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := HasSaturdayClosedPhrase(tc.msg); got != tc.want {
			t.Fatalf("HasSaturdayClosedPhrase(%q) = %v, want %v", tc.msg, got, tc.want)
		}
	}
}
