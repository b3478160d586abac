package bot

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/MankweAI/goat-edtech/internal/flows"
	"github.com/MankweAI/goat-edtech/internal/models"
	"github.com/MankweAI/goat-edtech/internal/ocr"
)

// DefaultSubscriberID stands in when the webhook carries no identifier.
const DefaultSubscriberID = "default_user"

// Inbound is one decoded webhook event.
type Inbound struct {
	SubscriberID string
	Text         string
	Image        flows.InboundImage
	MenuHint     string
	UserAgent    string
}

// HasImage reports whether the event carries a photo, by bytes or by link.
func (in Inbound) HasImage() bool {
	return len(in.Image.Data) > 0 || in.Image.URL != ""
}

var imageURLPattern = regexp.MustCompile(`(?i)^https?://\S+\.(?:png|jpe?g|gif|bmp|webp)(?:\?\S*)?$`)

const deepSearchMaxDepth = 6

// DecodeInbound reads the loosely-specified webhook JSON. Channel vendors
// disagree on field names, so every known spelling is tried and the
// subscriber id falls back to DefaultSubscriberID.
func DecodeInbound(body []byte, userAgent string) (Inbound, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return Inbound{}, fmt.Errorf("error decoding webhook payload: %w", err)
	}

	in := Inbound{
		SubscriberID: firstString(raw, "psid", "subscriber_id"),
		Text:         firstString(raw, "message", "user_input"),
		MenuHint:     firstString(raw, "last_menu", "current_menu"),
		UserAgent:    userAgent,
	}
	if in.SubscriberID == "" {
		in.SubscriberID = DefaultSubscriberID
	}
	in.Image = decodeImage(raw)
	return in, nil
}

// decodeImage hunts for a photo in the payload: inline base64 first, then
// the known URL fields, then nested message shapes, then a bounded deep
// search across the whole document.
func decodeImage(raw map[string]interface{}) flows.InboundImage {
	for _, key := range []string{"imageData", "image_base64", "image", "data"} {
		s, ok := raw[key].(string)
		if !ok || s == "" {
			continue
		}
		if imageURLPattern.MatchString(s) {
			return flows.InboundImage{URL: s}
		}
		if data, err := ocr.DecodeBase64Image(s); err == nil {
			return flows.InboundImage{Data: data}
		}
	}

	if url := firstString(raw, "image_url", "imageUrl", "attachment_url", "last_received_attachment_url"); url != "" {
		return flows.InboundImage{URL: url}
	}
	for _, key := range []string{"media", "payload"} {
		if nested, ok := raw[key].(map[string]interface{}); ok {
			if url, ok := nested["url"].(string); ok && url != "" {
				return flows.InboundImage{URL: url}
			}
		}
	}

	if msg, ok := raw["message"].(map[string]interface{}); ok {
		if url := messageImageURL(msg); url != "" {
			return flows.InboundImage{URL: url}
		}
	}

	if url := deepImageURL(raw, 0); url != "" {
		return flows.InboundImage{URL: url}
	}
	return flows.InboundImage{}
}

func messageImageURL(msg map[string]interface{}) string {
	if atts, ok := msg["attachments"].([]interface{}); ok {
		for _, a := range atts {
			att, ok := a.(map[string]interface{})
			if !ok {
				continue
			}
			if url, ok := att["url"].(string); ok && url != "" {
				return url
			}
			if payload, ok := att["payload"].(map[string]interface{}); ok {
				if url, ok := payload["url"].(string); ok && url != "" {
					return url
				}
			}
		}
	}
	if msg["type"] == "image" {
		if img, ok := msg["image"].(map[string]interface{}); ok {
			if link, ok := img["link"].(string); ok {
				return link
			}
		}
	}
	return ""
}

func deepImageURL(v interface{}, depth int) string {
	if depth > deepSearchMaxDepth {
		return ""
	}
	switch t := v.(type) {
	case string:
		if imageURLPattern.MatchString(t) {
			return t
		}
	case map[string]interface{}:
		for _, child := range t {
			if url := deepImageURL(child, depth+1); url != "" {
				return url
			}
		}
	case []interface{}:
		for _, child := range t {
			if url := deepImageURL(child, depth+1); url != "" {
				return url
			}
		}
	}
	return ""
}

func firstString(raw map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s, ok := raw[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// featurePhoneMarkers are User-Agent fragments of KaiOS and legacy browsers
// that cannot display image payloads well.
var featurePhoneMarkers = []string{
	"kaios", "nokia", "series40", "series60", "opera mini", "ucbrowser", "netfront", "midp",
}

// DeviceFromUserAgent buckets the channel's User-Agent into a device class.
// An empty header stays unknown so a later, better hint can still win.
func DeviceFromUserAgent(ua string) models.DeviceClass {
	trimmed := strings.ToLower(strings.TrimSpace(ua))
	if trimmed == "" {
		return models.DeviceUnknown
	}
	if lo.SomeBy(featurePhoneMarkers, func(marker string) bool {
		return strings.Contains(trimmed, marker)
	}) {
		return models.DeviceFeaturePhone
	}
	return models.DeviceSmartphone
}
