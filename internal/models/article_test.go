package models

import "testing"

func TestDeriveUniqueIDPrefersArticleID(t *testing.T) {
	got := DeriveUniqueID("YTN", "12345", "https://ytn.co.kr/articles/12345")
	want := "YTN_12345"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDeriveUniqueIDFallsBackToURLHash(t *testing.T) {
	url := "https://mbc.co.kr/news/breaking-story"
	got := DeriveUniqueID("MBC", "", url)

	if got == "MBC_" {
		t.Fatal("expected a hash suffix, not an empty article id")
	}
	// Same platform+url must always derive the same id.
	again := DeriveUniqueID("MBC", "", url)
	if got != again {
		t.Fatalf("DeriveUniqueID is not deterministic: %q != %q", got, again)
	}
}

func TestDeriveUniqueIDDiffersAcrossURLs(t *testing.T) {
	a := DeriveUniqueID("JTBC", "", "https://jtbc.co.kr/a")
	b := DeriveUniqueID("JTBC", "", "https://jtbc.co.kr/b")
	if a == b {
		t.Fatalf("expected distinct unique_ids for distinct urls, got %q for both", a)
	}
}
