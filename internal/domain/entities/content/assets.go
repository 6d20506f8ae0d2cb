package content

import "strings"

// ResolveAssetURL turns a stored image path into something a browser can load.
// Absolute URLs (remote storage) pass through; relative legacy paths are
// served by the API host, so they get the API origin prepended.
func ResolveAssetURL(apiOrigin, path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimSuffix(apiOrigin, "/") + path
}

// APIOrigin derives the asset origin from the API base URL by dropping a trailing "/api"
func APIOrigin(baseURL string) string {
	origin := strings.TrimSuffix(baseURL, "/")
	return strings.TrimSuffix(origin, "/api")
}
