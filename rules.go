package mdclip

// Rule is one entry of a noise catalog: a CSS selector and the reason
// matching elements are removed.
type Rule struct {
	Selector string
	Reason   string
}

// RuleSet is a versioned catalog of removal rules. Bump Version whenever
// the rules change so diagnostics can tell which catalog produced a clip.
type RuleSet struct {
	Name    string
	Version int
	Rules   []Rule
}

// Removal reasons.
const (
	ReasonAd         = "advertisement"
	ReasonSocial     = "social"
	ReasonRelated    = "related content"
	ReasonComments   = "comments"
	ReasonSidebar    = "sidebar"
	ReasonOverlay    = "overlay"
	ReasonTrending   = "trending"
	ReasonNavigation = "navigation"
	ReasonEmbed      = "embedded code"
	ReasonAside      = "complementary"
)

// CleanupRules is consulted by the cleanup filter before extraction.
// Short tokens like "ad" are matched as whole class tokens or
// dash-delimited affixes so "header" or "download" are not caught.
var CleanupRules = RuleSet{
	Name:    "cleanup",
	Version: 1,
	Rules: []Rule{
		{Selector: `[class~="ad"], [class~="ads"], [id="ad"], [id="ads"]`, Reason: ReasonAd},
		{Selector: `[class^="ad-"], [class*=" ad-"], [class*="-ad-"], [class$="-ad"], [class$="-ads"]`, Reason: ReasonAd},
		{Selector: `[id^="ad-"], [id*="-ad-"], [id$="-ad"], [id$="-ads"]`, Reason: ReasonAd},
		{Selector: `[class*="advert"], [id*="advert"]`, Reason: ReasonAd},
		{Selector: `.adsbygoogle, [id^="google_ads"], [id^="div-gpt-ad"], [class*="taboola"], [id*="taboola"], [class*="outbrain"], [id*="outbrain"], [data-ad-slot]`, Reason: ReasonAd},
		{Selector: `[class*="social"], [id*="social"]`, Reason: ReasonSocial},
		{Selector: `[class*="share"], [id*="share"]`, Reason: ReasonSocial},
		{Selector: `[class*="related"], [id*="related"], [class*="recommended"], [id*="recommended"]`, Reason: ReasonRelated},
		{Selector: `[class*="comments"], [id*="comments"]`, Reason: ReasonComments},
		{Selector: `[class*="sidebar"], [id*="sidebar"]`, Reason: ReasonSidebar},
		{Selector: `[class*="popup"], [id*="popup"], [class*="modal"], [id*="modal"]`, Reason: ReasonOverlay},
		{Selector: `[class*="newsletter"], [id*="newsletter"], [class*="subscribe"], [id*="subscribe"]`, Reason: ReasonOverlay},
		{Selector: `[class*="popular"], [id*="popular"], [class*="trending"], [id*="trending"]`, Reason: ReasonTrending},
		{Selector: `nav, footer, aside, [role="navigation"]`, Reason: ReasonNavigation},
	},
}

// SanitizeRules is consulted by the sanitizer after extraction to catch
// what the extractor let through.
var SanitizeRules = RuleSet{
	Name:    "sanitize",
	Version: 1,
	Rules: []Rule{
		{Selector: `script, style, iframe`, Reason: ReasonEmbed},
		{Selector: `[class*="advertisement"]`, Reason: ReasonAd},
		{Selector: `[class*="social-share"]`, Reason: ReasonSocial},
		{Selector: `[class*="related-articles"]`, Reason: ReasonRelated},
		{Selector: `[class*="newsletter"]`, Reason: ReasonOverlay},
		{Selector: `[role="complementary"]`, Reason: ReasonAside},
	},
}
