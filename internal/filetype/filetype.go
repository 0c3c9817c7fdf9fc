// Package filetype assigns a coarse content category to a filename. The
// category drives previews and the most-common-type statistic.
package filetype

import (
	"mime"
	"path/filepath"
	"strings"
)

// Categories, in classification precedence order.
const (
	CategoryPDF        = "pdf"
	CategoryImage      = "image"
	CategoryVideo      = "video"
	CategoryAudio      = "audio"
	CategoryMarkdown   = "markdown"
	CategoryCSV        = "csv"
	CategoryJSON       = "json"
	CategoryWord       = "word"
	CategoryExcel      = "excel"
	CategoryPowerPoint = "powerpoint"
	CategoryCode       = "code"
	CategoryArchive    = "archive"
	CategoryText       = "text"
	CategoryOther      = "other"
)

// conventionalNames are extensionless files that are always plain text.
var conventionalNames = map[string]struct{}{
	"readme":     {},
	"license":    {},
	"makefile":   {},
	"dockerfile": {},
	"procfile":   {},
}

type rule struct {
	category   string
	extensions []string
}

// Order matters: a name matching several rules resolves to the first one.
var rules = []rule{
	{CategoryPDF, []string{".pdf"}},
	{CategoryImage, []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".bmp", ".ico"}},
	{CategoryVideo, []string{".mp4", ".mov", ".avi", ".webm", ".mkv", ".flv", ".wmv"}},
	{CategoryAudio, []string{".mp3", ".wav", ".ogg", ".m4a", ".flac", ".aac"}},
	{CategoryMarkdown, []string{".md"}},
	{CategoryCSV, []string{".csv"}},
	{CategoryJSON, []string{".json"}},
	{CategoryWord, []string{".doc", ".docx", ".rtf", ".odt"}},
	{CategoryExcel, []string{".xls", ".xlsx", ".ods"}},
	{CategoryPowerPoint, []string{".ppt", ".pptx", ".odp"}},
	{CategoryCode, []string{
		".html", ".css", ".js", ".jsx", ".ts", ".tsx", ".py", ".java", ".c", ".cpp",
		".php", ".rb", ".go", ".rs", ".sql", ".sh", ".bat", ".ps1", ".xml", ".yaml",
		".yml", ".ini", ".conf",
	}},
	{CategoryArchive, []string{".zip", ".rar", ".7z", ".tar", ".gz", ".bz2"}},
	{CategoryText, []string{".txt", ".log"}},
}

// Classify maps a filename to its category. It is total: any input,
// including the empty string, yields exactly one category.
func Classify(name string) string {
	if name == "" {
		return CategoryOther
	}

	lower := strings.ToLower(name)
	if _, ok := conventionalNames[lower]; ok {
		return CategoryText
	}

	for _, r := range rules {
		for _, ext := range r.extensions {
			if strings.HasSuffix(lower, ext) {
				return r.category
			}
		}
	}
	return CategoryOther
}

// ContentType guesses the MIME type for serving a download. Conventional
// extensionless files and dotfiles are forced to text/plain because the
// platform MIME table ignores them.
func ContentType(name string) string {
	if mt := mime.TypeByExtension(filepath.Ext(name)); mt != "" {
		return mt
	}

	lower := strings.ToLower(name)
	if strings.HasPrefix(name, ".") {
		return "text/plain"
	}
	if _, ok := conventionalNames[lower]; ok {
		return "text/plain"
	}
	return "application/octet-stream"
}
