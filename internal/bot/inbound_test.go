package bot

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MankweAI/goat-edtech/internal/models"
)

func TestDecodeInboundIdentityAndText(t *testing.T) {
	in, err := DecodeInbound([]byte(`{"psid":"abc123","message":"hi"}`), "Mozilla/5.0")
	require.NoError(t, err)

	assert.Equal(t, "abc123", in.SubscriberID)
	assert.Equal(t, "hi", in.Text)
	assert.Equal(t, "Mozilla/5.0", in.UserAgent)
	assert.False(t, in.HasImage())
}

func TestDecodeInboundAlternateFieldNames(t *testing.T) {
	in, err := DecodeInbound([]byte(`{"subscriber_id":"u2","user_input":"2","current_menu":"homework"}`), "")
	require.NoError(t, err)

	assert.Equal(t, "u2", in.SubscriberID)
	assert.Equal(t, "2", in.Text)
	assert.Equal(t, "homework", in.MenuHint)
}

func TestDecodeInboundDefaultsSubscriberID(t *testing.T) {
	in, err := DecodeInbound([]byte(`{"message":"hello"}`), "")
	require.NoError(t, err)

	assert.Equal(t, DefaultSubscriberID, in.SubscriberID)
}

func TestDecodeInboundPrefersLastMenu(t *testing.T) {
	in, err := DecodeInbound([]byte(`{"psid":"u","last_menu":"topic_practice","current_menu":"homework"}`), "")
	require.NoError(t, err)

	assert.Equal(t, "topic_practice", in.MenuHint)
}

func TestDecodeInboundRejectsMalformedJSON(t *testing.T) {
	_, err := DecodeInbound([]byte(`{"psid":`), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding webhook payload")
}

func TestDecodeInboundInlineBase64(t *testing.T) {
	payload := bytes.Repeat([]byte{0x89, 0x50, 0x4e}, 120)
	encoded := base64.StdEncoding.EncodeToString(payload)

	in, err := DecodeInbound([]byte(fmt.Sprintf(`{"psid":"u","image_base64":%q}`, encoded)), "")
	require.NoError(t, err)

	require.True(t, in.HasImage())
	assert.Equal(t, payload, in.Image.Data)
	assert.Empty(t, in.Image.URL)
}

func TestDecodeInboundDataURI(t *testing.T) {
	payload := bytes.Repeat([]byte{0x42}, 150)
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	in, err := DecodeInbound([]byte(fmt.Sprintf(`{"psid":"u","image":%q}`, uri)), "")
	require.NoError(t, err)

	assert.Equal(t, payload, in.Image.Data)
}

func TestDecodeInboundImageFieldHoldingURL(t *testing.T) {
	in, err := DecodeInbound([]byte(`{"psid":"u","image":"https://cdn.example.com/scan.jpg"}`), "")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/scan.jpg", in.Image.URL)
	assert.Empty(t, in.Image.Data)
}

func TestDecodeInboundExplicitURLFields(t *testing.T) {
	for _, field := range []string{"image_url", "imageUrl", "attachment_url", "last_received_attachment_url"} {
		t.Run(field, func(t *testing.T) {
			body := fmt.Sprintf(`{"psid":"u",%q:"https://cdn.example.com/page.png"}`, field)
			in, err := DecodeInbound([]byte(body), "")
			require.NoError(t, err)
			assert.Equal(t, "https://cdn.example.com/page.png", in.Image.URL)
		})
	}
}

func TestDecodeInboundNestedAttachment(t *testing.T) {
	body := `{"psid":"u","message":{"attachments":[{"type":"image","payload":{"url":"https://lookaside.example.com/p/1"}}]}}`
	in, err := DecodeInbound([]byte(body), "")
	require.NoError(t, err)

	assert.Equal(t, "https://lookaside.example.com/p/1", in.Image.URL)
	assert.Empty(t, in.Text, "a structured message object is not text")
}

func TestDecodeInboundMessageImageLink(t *testing.T) {
	body := `{"psid":"u","message":{"type":"image","image":{"link":"https://mmg.example.com/v/t62"}}}`
	in, err := DecodeInbound([]byte(body), "")
	require.NoError(t, err)

	assert.Equal(t, "https://mmg.example.com/v/t62", in.Image.URL)
}

func TestDecodeInboundDeepSearchFindsBuriedURL(t *testing.T) {
	body := `{"psid":"u","event":{"payload":{"media":[{"href":"https://pics.example.com/hw.png"}]}}}`
	in, err := DecodeInbound([]byte(body), "")
	require.NoError(t, err)

	assert.Equal(t, "https://pics.example.com/hw.png", in.Image.URL)
}

func TestDecodeInboundDeepSearchDepthBound(t *testing.T) {
	body := `"https://pics.example.com/too-deep.png"`
	for i := 0; i < 8; i++ {
		body = fmt.Sprintf(`{"wrap":%s}`, body)
	}

	in, err := DecodeInbound([]byte(body), "")
	require.NoError(t, err)
	assert.False(t, in.HasImage())
}

func TestDecodeInboundURLInsideSentenceIsNotAnImage(t *testing.T) {
	in, err := DecodeInbound([]byte(`{"psid":"u","message":"see https://example.com/a.png for the diagram"}`), "")
	require.NoError(t, err)

	assert.False(t, in.HasImage())
	assert.Equal(t, "see https://example.com/a.png for the diagram", in.Text)
}

func TestDeviceFromUserAgent(t *testing.T) {
	cases := []struct {
		name string
		ua   string
		want models.DeviceClass
	}{
		{"empty stays unknown", "", models.DeviceUnknown},
		{"android chrome", "Mozilla/5.0 (Linux; Android 13; SM-A045F) AppleWebKit/537.36 Chrome/119.0 Mobile Safari/537.36", models.DeviceSmartphone},
		{"iphone", "Mozilla/5.0 (iPhone; CPU iPhone OS 16_6 like Mac OS X) Version/16.6 Mobile Safari", models.DeviceSmartphone},
		{"kaios", "Mozilla/5.0 (Mobile; Nokia_2720_Flip; rv:48.0) Gecko/48.0 Firefox/48.0 KAIOS/2.5.2", models.DeviceFeaturePhone},
		{"opera mini", "Opera/9.80 (J2ME/MIDP; Opera Mini/4.4.33576/191.308; U; en) Presto/2.12.423", models.DeviceFeaturePhone},
		{"nokia s40", "Nokia6300/2.0 (07.21) Profile/MIDP-2.1 Configuration/CLDC-1.1", models.DeviceFeaturePhone},
		{"ucbrowser", "UCWEB/2.0 (Java; U; MIDP-2.0; en-US; nokia201) U2/1.0.0 UCBrowser/9.5.0.449", models.DeviceFeaturePhone},
		{"desktop", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0", models.DeviceSmartphone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeviceFromUserAgent(tc.ua))
		})
	}
}
