package render

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// ProviderTimeLayout is the layout of forecast timestamps sent by the provider.
const ProviderTimeLayout = "2006-01-02 15:04:05"

var supportedLocales = []language.Tag{
	language.AmericanEnglish, // first entry is the fallback
	language.BritishEnglish,
	language.German,
	language.French,
	language.Spanish,
	language.Japanese,
}

var localeLayouts = []string{
	"1/2/2006, 3:04:05 PM",
	"02/01/2006, 15:04:05",
	"2.1.2006, 15:04:05",
	"02/01/2006 15:04:05",
	"2/1/2006, 15:04:05",
	"2006/1/2 15:04:05",
}

var matcher = language.NewMatcher(supportedLocales)

// MatchLocale picks the best supported locale for an Accept-Language header.
func MatchLocale(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return supportedLocales[0]
	}
	_, idx, _ := matcher.Match(tags...)
	return supportedLocales[idx]
}

// FormatTimestamp renders a provider timestamp for the given locale. Text
// that does not parse is returned unchanged.
func FormatTimestamp(raw string, tag language.Tag) string {
	ts, err := time.Parse(ProviderTimeLayout, strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	_, idx, _ := matcher.Match(tag)
	return ts.Format(localeLayouts[idx])
}

// FormatTemperature prints the value as the provider sent it, without
// padding or rounding (12.0 -> "12", 18.5 -> "18.5").
func FormatTemperature(t float64) string {
	return strconv.FormatFloat(t, 'f', -1, 64)
}
