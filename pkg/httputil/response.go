package httputil

import (
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContentDisposition builds an attachment header. Non-ASCII names (Polish
// surnames) are sent RFC 2231 encoded next to an ASCII fallback.
func ContentDisposition(filename string) string {
	fallback := asciiFallback(filename)
	plain := mime.FormatMediaType("attachment", map[string]string{"filename": fallback})
	if isASCII(filename) {
		return plain
	}
	v := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	if v == "" {
		return plain
	}
	return v + `; filename="` + fallback + `"`
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7e {
			return false
		}
	}
	return true
}

func asciiFallback(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('_')
		case r < 0x20 || r > 0x7e:
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Attachment sends data as a file download.
func Attachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", ContentDisposition(filename))
	c.Data(http.StatusOK, contentType, data)
}
