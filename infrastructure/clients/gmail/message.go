package gmail

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"strings"

	"github.com/jaytaylor/html2text"
	"golang.org/x/net/html/charset"
	"google.golang.org/api/gmail/v1"
)

// ExtractBody returns the message text as UTF-8. A text/plain part anywhere in the tree wins;
// otherwise an HTML part is converted to text; otherwise any decodable body is used.
func ExtractBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}
	if text, ok := findPart(payload, "text/plain"); ok {
		return text
	}
	if markup, ok := findPart(payload, "text/html"); ok {
		if text, err := html2text.FromString(markup, html2text.Options{}); err == nil {
			return text
		}
		return markup
	}
	if text, ok := partText(payload); ok {
		return text
	}
	return ""
}

func findPart(part *gmail.MessagePart, mimeType string) (string, bool) {
	if strings.EqualFold(part.MimeType, mimeType) {
		if text, ok := partText(part); ok {
			return text, true
		}
	}
	for _, child := range part.Parts {
		if text, ok := findPart(child, mimeType); ok {
			return text, true
		}
	}
	return "", false
}

// partText decodes a part's body and transcodes it from the charset its
// Content-Type declares. Bytes that still are not UTF-8 become U+FFFD.
func partText(part *gmail.MessagePart) (string, bool) {
	if part.Body == nil {
		return "", false
	}
	raw, ok := decodeData(part.Body.Data)
	if !ok {
		return "", false
	}
	if label := partCharset(part); label != "" {
		if r, err := charset.NewReaderLabel(label, bytes.NewReader(raw)); err == nil {
			if converted, err := io.ReadAll(r); err == nil {
				raw = converted
			}
		}
	}
	return strings.ToValidUTF8(string(raw), "�"), true
}

func partCharset(part *gmail.MessagePart) string {
	for _, h := range part.Headers {
		if h == nil || !strings.EqualFold(h.Name, "Content-Type") {
			continue
		}
		if _, params, err := mime.ParseMediaType(h.Value); err == nil {
			return params["charset"]
		}
	}
	return ""
}

// decodeData decodes Gmail's base64url body data, padded or not.
func decodeData(data string) ([]byte, bool) {
	if data == "" {
		return nil, false
	}
	if b, err := base64.URLEncoding.DecodeString(data); err == nil {
		return b, true
	}
	if b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "=")); err == nil {
		return b, true
	}
	return nil, false
}
