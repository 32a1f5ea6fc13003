package gmail

import (
	"encoding/base64"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/gmail/v1"
)

func enc(s string) string { return base64.URLEncoding.EncodeToString([]byte(s)) }

func TestExtractBody_PrefersNestedPlainText(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmail.MessagePart{
			{
				MimeType: "multipart/alternative",
				Parts: []*gmail.MessagePart{
					{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: enc("<p>html</p>")}},
					{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: enc("plain body")}},
				},
			},
			{MimeType: "application/pdf", Body: &gmail.MessagePartBody{AttachmentId: "att"}},
		},
	}
	assert.Equal(t, "plain body", ExtractBody(payload))
}

func TestExtractBody_ConvertsHTMLOnly(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmail.MessagePart{
			{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: enc("<div>Hi there,<br>we would love a <b>sponsorship</b></div>")}},
		},
	}
	body := ExtractBody(payload)
	assert.Contains(t, body, "Hi there,")
	assert.Contains(t, body, "sponsorship")
	assert.NotContains(t, body, "<b>")
}

func TestExtractBody_SinglePartAndUnpadded(t *testing.T) {
	raw := base64.RawURLEncoding.EncodeToString([]byte("ab?"))
	payload := &gmail.MessagePart{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: raw}}
	assert.Equal(t, "ab?", ExtractBody(payload))
}

func TestExtractBody_Empty(t *testing.T) {
	assert.Equal(t, "", ExtractBody(nil))
	assert.Equal(t, "", ExtractBody(&gmail.MessagePart{MimeType: "multipart/mixed"}))
	assert.Equal(t, "", ExtractBody(&gmail.MessagePart{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: "%%%"}}))
}

func contentType(v string) []*gmail.MessagePartHeader {
	return []*gmail.MessagePartHeader{{Name: "Content-Type", Value: v}}
}

func TestExtractBody_TranscodesDeclaredCharset(t *testing.T) {
	latin1 := &gmail.MessagePart{
		MimeType: "text/plain",
		Headers:  contentType(`text/plain; charset="ISO-8859-1"`),
		Body:     &gmail.MessagePartBody{Data: enc("Sch\xf6ne Gr\xfc\xdfe")},
	}
	assert.Equal(t, "Schöne Grüße", ExtractBody(latin1))

	nested := &gmail.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmail.MessagePart{{
			MimeType: "text/html",
			Headers:  contentType("text/html; charset=windows-1252"),
			Body:     &gmail.MessagePartBody{Data: enc("<p>Budget: 500 \x80</p>")},
		}},
	}
	assert.Contains(t, ExtractBody(nested), "Budget: 500 €")
}

func TestExtractBody_ReplacesInvalidBytes(t *testing.T) {
	undeclared := &gmail.MessagePart{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: enc("caf\xe9")}}
	body := ExtractBody(undeclared)
	assert.True(t, utf8.ValidString(body))
	assert.Equal(t, "caf\uFFFD", body)

	unknown := &gmail.MessagePart{
		MimeType: "text/plain",
		Headers:  contentType("text/plain; charset=x-made-up"),
		Body:     &gmail.MessagePartBody{Data: enc("ok \xff")},
	}
	assert.True(t, utf8.ValidString(ExtractBody(unknown)))

	utf8Part := &gmail.MessagePart{
		MimeType: "text/plain",
		Headers:  contentType("text/plain; charset=UTF-8"),
		Body:     &gmail.MessagePartBody{Data: enc("Grüße")},
	}
	assert.Equal(t, "Grüße", ExtractBody(utf8Part))
}
