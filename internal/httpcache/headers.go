package httpcache

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	HeaderCacheControl              = "Cache-Control"
	HeaderCDNCacheControl           = "CDN-Cache-Control"
	HeaderCloudflareCDNCacheControl = "Cloudflare-CDN-Cache-Control"

	staleWhileRevalidate = 60
)

type HeaderPolicy struct {
	EnableCDNHeader        bool
	EnableForceCacheHeader bool
}

// Apply sets cache headers for a response with the given status. Only 200
// responses are touched, and an existing Cache-Control header always wins;
// the CDN headers are set regardless.
func (p HeaderPolicy) Apply(status int, header http.Header, ttl int) {
	if status != http.StatusOK {
		return
	}
	maxAge := strconv.Itoa(ttl)
	swr := "stale-while-revalidate=" + strconv.Itoa(staleWhileRevalidate)

	if p.EnableCDNHeader {
		value := "max-age=" + maxAge + ", " + swr
		header.Set(HeaderCDNCacheControl, value)
		header.Set(HeaderCloudflareCDNCacheControl, value)
	}

	if header.Get(HeaderCacheControl) != "" {
		return
	}

	var parts []string
	if p.EnableForceCacheHeader {
		parts = append(parts, "max-age="+maxAge)
	}
	if p.EnableCDNHeader {
		parts = append(parts, "s-maxage="+maxAge, swr)
	}
	if len(parts) > 0 {
		header.Set(HeaderCacheControl, strings.Join(parts, ", "))
	}
}
