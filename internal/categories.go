package internal

import (
	"fmt"
	"regexp"
	"strings"
)

// CategoryOther is used when nothing better is known.
const CategoryOther = "Other"

// DefaultCategories is the category list offered when adding a subscription.
var DefaultCategories = []string{
	"Entertainment",
	"Productivity",
	"Health & Fitness",
	"News & Media",
	"Cloud Storage",
	"Software",
	"Music & Audio",
	"Education",
	"Gaming",
	"Communication",
	"Finance",
	CategoryOther,
}

// KnownService maps a service-name pattern to the category it belongs to.
type KnownService struct {
	Pattern  string `yaml:"pattern"`
	Category string `yaml:"category"`

	// compiled pattern
	regex *regexp.Regexp `yaml:"-"`
}

func (k *KnownService) compile() error {
	re, err := regexp.Compile("(?i)" + k.Pattern) // case-insensitive
	if err != nil {
		return fmt.Errorf("invalid known service pattern %q: %w", k.Pattern, err)
	}
	k.regex = re
	return nil
}

// Matches returns true if the compiled pattern matches name.
func (k *KnownService) Matches(name string) bool {
	return k.regex != nil && k.regex.MatchString(name)
}

// knownServices covers common subscription services. Patterns are matched
// case-insensitively against the subscription name.
var knownServices = []KnownService{
	// Video streaming
	{Pattern: "NETFLIX", Category: "Entertainment"},
	{Pattern: "DISNEY\\s*(\\+|PLUS)", Category: "Entertainment"},
	{Pattern: "HBO\\s*MAX|^MAX$", Category: "Entertainment"},
	{Pattern: "AMAZON\\s*PRIME|PRIME\\s*VIDEO", Category: "Entertainment"},
	{Pattern: "APPLE\\s*TV", Category: "Entertainment"},
	{Pattern: "PARAMOUNT\\s*(\\+|PLUS)", Category: "Entertainment"},
	{Pattern: "PEACOCK|HULU|CRUNCHYROLL|VIAPLAY", Category: "Entertainment"},

	// Music & audio
	{Pattern: "SPOTIFY|TIDAL|DEEZER|SOUNDCLOUD", Category: "Music & Audio"},
	{Pattern: "APPLE\\s*MUSIC|YOUTUBE\\s*MUSIC", Category: "Music & Audio"},
	{Pattern: "AUDIBLE", Category: "Music & Audio"},

	// Gaming
	{Pattern: "XBOX|GAME\\s*PASS", Category: "Gaming"},
	{Pattern: "PLAYSTATION|PS\\s*PLUS", Category: "Gaming"},
	{Pattern: "NINTENDO|EA\\s*PLAY|UBISOFT|GEFORCE\\s*NOW", Category: "Gaming"},

	// Cloud storage
	{Pattern: "DROPBOX|ICLOUD|ONEDRIVE|GOOGLE\\s*ONE|BACKBLAZE", Category: "Cloud Storage"},

	// Productivity
	{Pattern: "MICROSOFT\\s*365|OFFICE\\s*365|GOOGLE\\s*WORKSPACE", Category: "Productivity"},
	{Pattern: "NOTION|EVERNOTE|TODOIST|CANVA", Category: "Productivity"},

	// Software & developer tools
	{Pattern: "ADOBE|JETBRAINS|GITHUB|GITLAB", Category: "Software"},
	{Pattern: "1PASSWORD|LASTPASS|BITWARDEN|DASHLANE", Category: "Software"},
	{Pattern: "NORDVPN|EXPRESSVPN|SURFSHARK|MULLVAD|PROTON", Category: "Software"},
	{Pattern: "DIGITALOCEAN|HEROKU|NETLIFY|VERCEL", Category: "Software"},

	// Communication
	{Pattern: "ZOOM|SLACK|DISCORD", Category: "Communication"},

	// News & media
	{Pattern: "NEW\\s*YORK\\s*TIMES|NYTIMES|WASHINGTON\\s*POST", Category: "News & Media"},
	{Pattern: "WALL\\s*STREET\\s*JOURNAL|ECONOMIST|MEDIUM|SUBSTACK", Category: "News & Media"},

	// Education
	{Pattern: "KINDLE\\s*UNLIMITED|SCRIBD|DUOLINGO|COURSERA|MASTERCLASS|SKILLSHARE", Category: "Education"},

	// Health & fitness
	{Pattern: "PELOTON|STRAVA|HEADSPACE|CALM|MYFITNESSPAL|FITBIT", Category: "Health & Fitness"},
}

func init() {
	for i := range knownServices {
		if err := knownServices[i].compile(); err != nil {
			panic(err)
		}
	}
}

// MatchCategory returns the category of the first rule matching name.
func MatchCategory(rules []KnownService, name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	for i := range rules {
		if rules[i].Matches(name) {
			return rules[i].Category, true
		}
	}
	return "", false
}

// SuggestCategory guesses a category for a subscription from its name.
// Returns CategoryOther when no known service matches.
func SuggestCategory(name string) string {
	if c, ok := MatchCategory(knownServices, name); ok {
		return c
	}
	return CategoryOther
}

// AvailableCategories merges the default list with extra categories,
// keeping defaults first and dropping duplicates.
func AvailableCategories(extra []string) []string {
	result := make([]string, 0, len(DefaultCategories)+len(extra))
	seen := make(map[string]bool)
	for _, c := range append(append([]string{}, DefaultCategories...), extra...) {
		c = strings.TrimSpace(c)
		if c == "" || seen[strings.ToLower(c)] {
			continue
		}
		seen[strings.ToLower(c)] = true
		result = append(result, c)
	}
	return result
}
