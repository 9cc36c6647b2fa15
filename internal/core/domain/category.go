package domain

import "strings"

// Category is a coarse file grouping used for automatic folder sorting.
type Category string

// Category folder names. CategoryOther collects unmatched extensions and is
// never auto-moved, to avoid churn on unknown types.
const (
	CategoryDocuments Category = "Documents"
	CategoryImages    Category = "Images"
	CategoryVideos    Category = "Videos"
	CategoryAudio     Category = "Audio"
	CategoryArchives  Category = "Archives"
	CategoryPrograms  Category = "Programs"
	CategoryOther     Category = "Other"
)

// categoryExtensions maps each category to its file extensions.
var categoryExtensions = map[Category][]string{
	CategoryDocuments: {"pdf", "doc", "docx", "xls", "xlsx", "odt", "pptx", "ppt", "txt", "rtf", "ods", "odp"},
	CategoryImages:    {"jpg", "jpeg", "png", "gif", "bmp", "svg", "webp", "tiff", "ico"},
	CategoryVideos:    {"mp4", "avi", "mov", "mkv", "wmv", "flv", "webm", "mpg", "mpeg", "m4v"},
	CategoryAudio:     {"mp3", "wav", "aac", "flac", "ogg", "m4a", "opus", "aiff", "wma"},
	CategoryArchives:  {"zip", "rar", "7z", "tar", "gz", "bz2", "iso", "dmg"},
	CategoryPrograms:  {"exe", "msi", "app", "deb", "rpm", "apk", "pkg", "jar"},
}

// extensionCategory is the inverted lookup, built once at init.
var extensionCategory = func() map[string]Category {
	m := make(map[string]Category)
	for cat, exts := range categoryExtensions {
		for _, ext := range exts {
			m[ext] = cat
		}
	}
	return m
}()

// Categorize determines the category folder for a file name from its
// extension. Unrecognised extensions fall into CategoryOther.
func Categorize(fileName string) Category {
	if fileName == "" {
		return CategoryOther
	}
	if cat, ok := extensionCategory[ExtensionOf(fileName)]; ok {
		return cat
	}
	return CategoryOther
}

// Categories returns all category folder names, including "Other".
func Categories() []Category {
	return []Category{
		CategoryDocuments, CategoryImages, CategoryVideos,
		CategoryAudio, CategoryArchives, CategoryPrograms, CategoryOther,
	}
}

// IsCategoryFolder reports whether a folder name is one of the category
// folders. Traversal skips these to avoid re-sorting already sorted files.
func IsCategoryFolder(name string) bool {
	for _, cat := range Categories() {
		if strings.EqualFold(name, string(cat)) {
			return true
		}
	}
	return false
}

// String returns the folder name for the category.
func (c Category) String() string {
	return string(c)
}
