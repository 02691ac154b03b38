package funnel

import (
	"net/url"
	"strings"
)

// trackingKeys are copied across every internal navigation, in this order.
var trackingKeys = [...]string{
	"utm_source",
	"utm_medium",
	"utm_campaign",
	"utm_term",
	"utm_content",
	"utm_id",
	"subid",
	"subid1",
	"subid2",
	"subid3",
	"subid4",
	"subid5",
}

// TrackingKeys returns the allow-list of attribution parameters.
func TrackingKeys() []string {
	return append([]string(nil), trackingKeys[:]...)
}

// TrackingParams extracts the allow-listed, non-empty parameters of rawQuery.
// A leading "?" is accepted. Malformed pairs are skipped.
func TrackingParams(rawQuery string) url.Values {
	// ParseQuery keeps every pair it could decode even when it reports an error.
	values, _ := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))

	out := url.Values{}
	for _, key := range trackingKeys {
		if v := values.Get(key); v != "" {
			out.Set(key, v)
		}
	}
	return out
}

// PreserveParams appends the tracking parameters found in rawQuery to target.
// Keys keep allow-list order; target is returned unchanged when none are present.
func PreserveParams(target, rawQuery string) string {
	encoded := encodeOrdered(TrackingParams(rawQuery))
	if encoded == "" {
		return target
	}

	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	return target + sep + encoded
}

// encodeOrdered mirrors url.Values.Encode without sorting the keys.
func encodeOrdered(values url.Values) string {
	var b strings.Builder
	for _, key := range trackingKeys {
		v := values.Get(key)
		if v == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(v))
	}
	return b.String()
}
