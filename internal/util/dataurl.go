package util

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/almonsour13/mango-lens/pkg/apierror"
)

// DecodeDataURL converts a "data:image/png;base64,..." string into its raw
// bytes and MIME type. A bare base64 payload without the data: prefix is
// accepted too; its MIME type is sniffed from the decoded bytes.
func DecodeDataURL(raw string) ([]byte, string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, "", apierror.BadRequest("image payload is empty", "")
	}

	declaredMIME := ""
	payload := trimmed
	if strings.HasPrefix(trimmed, "data:") {
		comma := strings.Index(trimmed, ",")
		if comma < 0 {
			return nil, "", apierror.BadRequest("malformed data URI", "missing comma separator")
		}

		meta := trimmed[len("data:"):comma]
		payload = trimmed[comma+1:]

		if !strings.Contains(meta, ";base64") {
			return nil, "", apierror.BadRequest("malformed data URI", "only base64 encoding is supported")
		}

		declaredMIME = strings.TrimSpace(strings.SplitN(meta, ";", 2)[0])
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", apierror.BadRequest("image payload is not valid base64", err.Error())
	}

	if len(decoded) == 0 {
		return nil, "", apierror.BadRequest("image payload is empty", "")
	}

	mimeType := http.DetectContentType(decoded)
	if declaredMIME != "" && !strings.EqualFold(declaredMIME, mimeType) {
		// Trust the sniffed type over the declared one.
		declaredMIME = mimeType
	}
	if declaredMIME == "" {
		declaredMIME = mimeType
	}

	if !strings.HasPrefix(declaredMIME, "image/") {
		return nil, "", apierror.New("UNSUPPORTED_TYPE", "payload is not an image", declaredMIME, http.StatusUnsupportedMediaType)
	}

	return decoded, declaredMIME, nil
}

// EncodeDataURL renders raw image bytes back into a data-URI string.
func EncodeDataURL(data []byte, mimeType string) string {
	if strings.TrimSpace(mimeType) == "" {
		mimeType = http.DetectContentType(data)
	}

	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
