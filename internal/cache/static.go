package cache

// Static assets do not change while the process runs, so their ETags are
// computed once at startup and looked up by URL path.
var staticETags = NewCache[string, string]()

// SetStaticETag records the content hash of the asset served at urlPath.
func SetStaticETag(urlPath, contentHash string) {
	staticETags.Set(urlPath, `"`+contentHash+`"`)
}

// StaticETag returns the quoted ETag of the asset served at urlPath.
func StaticETag(urlPath string) (string, bool) {
	return staticETags.Get(urlPath)
}

func StaticAssets() int {
	return staticETags.Len()
}
