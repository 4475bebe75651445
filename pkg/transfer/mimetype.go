package transfer

import (
	"mime"
	"net/http"
	"path"
	"strings"
)

const (
	fallbackContentType = "application/octet-stream"
	fallbackExtension   = ".bin"
)

// extensionContentTypes maps known extensions (without the dot) to
// their MIME types. Lookup order elsewhere prefers this table over the
// platform mime registry so results stay deterministic across hosts.
var extensionContentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"svg":  "image/svg+xml",
	"webp": "image/webp",
	"pdf":  "application/pdf",
	"txt":  "text/plain",
	"json": "application/json",
	"xml":  "application/xml",
	"html": "text/html",
	"css":  "text/css",
	"js":   "application/javascript",
	"zip":  "application/zip",
	"rar":  "application/x-rar-compressed",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"mp3":  "audio/mpeg",
	"mp4":  "video/mp4",
	"avi":  "video/x-msvideo",
	"mov":  "video/quicktime",
	"wmv":  "video/x-ms-wmv",
	"flv":  "video/x-flv",
	"mkv":  "video/x-matroska",
}

var contentTypeExtensions = invertContentTypes()

func invertContentTypes() map[string]string {
	m := make(map[string]string, len(extensionContentTypes))
	for ext, ct := range extensionContentTypes {
		// First registration wins for aliased types (jpg vs jpeg).
		if _, ok := m[ct]; !ok {
			m[ct] = "." + ext
		}
	}
	m["image/jpeg"] = ".jpg"
	m["text/plain"] = ".txt"
	return m
}

// typeStrategy attempts one inference heuristic. ok reports whether the
// strategy produced an answer.
type typeStrategy func(declared string, body []byte, sourceName string) (contentType, ext string, ok bool)

// Strategies are tried in priority order: the declared type, then
// signature sniffing, then the source-name extension. Unknown content
// degrades to application/octet-stream without error.
var typeStrategies = []typeStrategy{
	declaredTypeStrategy,
	signatureStrategy,
	extensionStrategy,
}

// InferType resolves the content type and file extension for a payload.
// It never fails: content that defeats every strategy yields the
// generic fallback, which is a normal outcome.
func InferType(declared string, body []byte, sourceName string) (contentType, ext string) {
	for _, strategy := range typeStrategies {
		if ct, e, ok := strategy(declared, body, sourceName); ok {
			return ct, e
		}
	}
	return fallbackContentType, fallbackExtension
}

func declaredTypeStrategy(declared string, _ []byte, _ string) (string, string, bool) {
	ct := normalizeMediaType(declared)
	if ct == "" || ct == fallbackContentType {
		return "", "", false
	}
	return ct, extensionFor(ct), true
}

func signatureStrategy(_ string, body []byte, _ string) (string, string, bool) {
	if len(body) == 0 {
		return "", "", false
	}
	ct := normalizeMediaType(http.DetectContentType(body))
	if ct == "" || ct == fallbackContentType {
		return "", "", false
	}
	return ct, extensionFor(ct), true
}

func extensionStrategy(_ string, _ []byte, sourceName string) (string, string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(sourceName), "."))
	if ext == "" {
		return "", "", false
	}
	if ct, ok := extensionContentTypes[ext]; ok {
		return ct, "." + ext, true
	}
	if ct := normalizeMediaType(mime.TypeByExtension("." + ext)); ct != "" {
		return ct, "." + ext, true
	}
	// Extension present but unrecognized: keep it, generic type.
	return fallbackContentType, "." + ext, true
}

// ContentTypeForExtension corrects a server-reported MIME type using
// the filename extension, mirroring how fetched objects are labeled.
// The reported type is kept when the extension is unknown.
func ContentTypeForExtension(reported, filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ct, ok := extensionContentTypes[ext]; ok {
		return ct
	}
	if ct := normalizeMediaType(reported); ct != "" {
		return ct
	}
	return fallbackContentType
}

func extensionFor(contentType string) string {
	if ext, ok := contentTypeExtensions[contentType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return fallbackExtension
}

// normalizeMediaType strips parameters such as charset and lowercases
// the media type. Invalid input yields the empty string.
func normalizeMediaType(v string) string {
	if v == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(v)
	if err != nil {
		return ""
	}
	return mt
}
