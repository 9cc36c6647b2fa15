package drive

// ResolveWebURL picks the web URL for a Drive file. The API-provided
// webViewLink wins when present; otherwise the canonical viewer URL is
// derived from the file id.
func ResolveWebURL(id, webViewLink string) string {
	if webViewLink != "" {
		return webViewLink
	}
	if id != "" {
		return "https://drive.google.com/file/d/" + id + "/view"
	}
	return ""
}
