package filetype

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"report.pdf", CategoryPDF},
		{"photo.JPG", CategoryImage},
		{"clip.webm", CategoryVideo},
		{"song.flac", CategoryAudio},
		{"notes.md", CategoryMarkdown},
		{"data.csv", CategoryCSV},
		{"config.json", CategoryJSON},
		{"letter.docx", CategoryWord},
		{"sheet.xlsx", CategoryExcel},
		{"deck.pptx", CategoryPowerPoint},
		{"main.go", CategoryCode},
		{"backup.tar", CategoryArchive},
		{"readme.txt", CategoryText},
		{"server.log", CategoryText},
		{"mystery.xyz", CategoryOther},
	}
	for _, tc := range cases {
		if got := Classify(tc.name); got != tc.want {
			t.Fatalf("Classify(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestClassifyConventionalNames(t *testing.T) {
	for _, name := range []string{"README", "LICENSE", "Makefile", "Dockerfile", "Procfile"} {
		if got := Classify(name); got != CategoryText {
			t.Fatalf("Classify(%q) = %q, want %q", name, got, CategoryText)
		}
	}
}

func TestClassifyIsTotal(t *testing.T) {
	for _, name := range []string{"", ".", "..", "no-extension", "trailing.", "   "} {
		got := Classify(name)
		if got == "" {
			t.Fatalf("Classify(%q) returned empty category", name)
		}
	}
}

func TestClassifyPrecedence(t *testing.T) {
	// .tar.gz matches both archive rules; the first match in rule order wins.
	if got := Classify("bundle.tar.gz"); got != CategoryArchive {
		t.Fatalf("Classify(bundle.tar.gz) = %q, want %q", got, CategoryArchive)
	}
}

func TestContentType(t *testing.T) {
	if got := ContentType("Dockerfile"); got != "text/plain" {
		t.Fatalf("ContentType(Dockerfile) = %q", got)
	}
	if got := ContentType(".env"); got != "text/plain" {
		t.Fatalf("ContentType(.env) = %q", got)
	}
	if got := ContentType("blob.bin"); got != "application/octet-stream" {
		t.Fatalf("ContentType(blob.bin) = %q", got)
	}
}
