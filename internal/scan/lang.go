package scan

import (
	"path/filepath"
	"strings"
)

var extLang = map[string]string{
	".py":    "Python",
	".js":    "JavaScript",
	".jsx":   "JavaScript",
	".ts":    "TypeScript",
	".tsx":   "TypeScript",
	".java":  "Java",
	".go":    "Go",
	".rs":    "Rust",
	".cpp":   "C++",
	".hpp":   "C++",
	".c":     "C",
	".h":     "C",
	".cs":    "C#",
	".rb":    "Ruby",
	".php":   "PHP",
	".swift": "Swift",
	".kt":    "Kotlin",
	".scala": "Scala",
	".sh":    "Shell",
}

// LanguageFor returns the display language for an extension, or "".
func LanguageFor(ext string) string { return extLang[ext] }

// IsSourceExt reports whether the extension maps to a known language.
func IsSourceExt(ext string) bool {
	_, ok := extLang[ext]
	return ok
}

// IsBinaryExt flags extensions that never carry text worth reading.
func IsBinaryExt(ext string) bool {
	switch ext {
	// images
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".ico", ".bmp", ".tiff", ".svg":
		return true
	// video
	case ".mp4", ".m4v", ".mov", ".mkv", ".webm", ".avi":
		return true
	// audio
	case ".mp3", ".wav", ".ogg", ".flac", ".m4a":
		return true
	// archives / compiled output
	case ".pdf", ".zip", ".jar", ".gz", ".tgz", ".bz2", ".7z", ".exe", ".dll",
		".dylib", ".so", ".woff", ".woff2", ".bin", ".o", ".a", ".class", ".pyc":
		return true
	}
	return false
}

// IsEntryPoint flags files that typically anchor a tour of the codebase:
// anything near the root with a known language, or the usual entry names
// at any depth.
func IsEntryPoint(fm FileMeta) bool {
	if !IsSourceExt(fm.Ext) {
		return false
	}
	base := strings.TrimSuffix(filepath.Base(fm.Path), fm.Ext)
	switch strings.ToLower(base) {
	case "main", "index", "app", "cli", "server", "__main__":
		return true
	}
	return fm.Depth <= 1
}
