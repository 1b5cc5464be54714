package internal

import (
	"os"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCurrency is used when neither the config nor the locale names one.
const DefaultCurrency = "USD"

// Currency represents a currency with its formatting rules
type Currency struct {
	Code    string // "SEK", "USD", "EUR"
	unit    currency.Unit
	known   bool
	digits  int
	printer *message.Printer
}

// symbolOverrides provides custom symbols where x/text defaults aren't ideal
var symbolOverrides = map[string]string{
	"SEK": "kr",
	"NOK": "kr",
	"DKK": "kr",
	"ISK": "kr",
}

// defaultLocaleForCurrency provides fallback locales when no system locale is
// known. Uses a "home" locale for each currency.
var defaultLocaleForCurrency = map[string]language.Tag{
	"SEK": language.Swedish,
	"USD": language.AmericanEnglish,
	"EUR": language.German,
	"GBP": language.BritishEnglish,
	"NOK": language.Norwegian,
	"DKK": language.Danish,
	"CHF": language.German,
	"JPY": language.Japanese,
	"CAD": language.CanadianFrench,
	"AUD": language.MustParse("en-AU"),
	"BRL": language.BrazilianPortuguese,
	"MXN": language.LatinAmericanSpanish,
	"INR": language.MustParse("en-IN"),
	"CNY": language.Chinese,
	"KRW": language.Korean,
	"PLN": language.Polish,
	"CZK": language.Czech,
	"HUF": language.Hungarian,
	"RUB": language.Russian,
	"TRY": language.Turkish,
	"ZAR": language.MustParse("en-ZA"),
	"NZD": language.MustParse("en-NZ"),
	"SGD": language.MustParse("en-SG"),
	"HKD": language.MustParse("zh-HK"),
	"THB": language.Thai,
}

// GetCurrency returns the Currency for a code, formatted with the currency's
// home locale.
func GetCurrency(code string) Currency {
	return GetCurrencyWithLocale(code, language.Und)
}

// GetCurrencyWithLocale returns a Currency formatted for a specific locale.
// language.Und selects the currency's home locale, then English.
func GetCurrencyWithLocale(code string, tag language.Tag) Currency {
	code = strings.ToUpper(strings.TrimSpace(code))

	unit, err := currency.ParseISO(code)
	known := err == nil
	if !known {
		unit = currency.USD // fallback unit for number formatting only
	}

	if tag == language.Und {
		if t, ok := defaultLocaleForCurrency[code]; ok {
			tag = t
		} else {
			tag = language.English
		}
	}

	digits, _ := currency.Standard.Rounding(unit)
	return Currency{
		Code:    code,
		unit:    unit,
		known:   known,
		digits:  digits,
		printer: message.NewPrinter(tag),
	}
}

// DetectSystemCurrency derives the currency and formatting locale from the
// environment (LC_MONETARY, LC_ALL, LANG). Returns "" and language.Und when
// nothing usable is set.
func DetectSystemCurrency() (string, language.Tag) {
	locale := detectSystemLocale()
	if locale == "" {
		return "", language.Und
	}
	return parseCurrencyFromLocale(locale)
}

// detectSystemLocale returns the most specific locale for monetary values.
func detectSystemLocale() string {
	for _, envVar := range []string{"LC_MONETARY", "LC_ALL", "LANG"} {
		locale := os.Getenv(envVar)
		if locale != "" && locale != "C" && locale != "POSIX" {
			return locale
		}
	}
	return ""
}

// parseCurrencyFromLocale extracts currency code and language tag from a locale string.
// Examples: "sv_SE.UTF-8" -> ("SEK", sv-SE), "pt_BR.UTF-8" -> ("BRL", pt-BR)
func parseCurrencyFromLocale(locale string) (string, language.Tag) {
	base := locale
	if idx := strings.Index(base, "."); idx != -1 {
		base = base[:idx]
	}
	if idx := strings.Index(base, "@"); idx != -1 {
		base = base[:idx]
	}

	// "sv_SE" -> "sv-SE"
	tag, err := language.Parse(strings.Replace(base, "_", "-", 1))
	if err != nil {
		return "", language.Und
	}

	_, _, region := tag.Raw()
	if region.String() == "" || region.String() == "ZZ" {
		return "", language.Und
	}

	unit, ok := currency.FromRegion(region)
	if !ok {
		return "", language.Und
	}
	return unit.String(), tag
}

// Symbol returns the currency symbol, using overrides where needed.
// Unknown codes use the code itself.
func (c Currency) Symbol() string {
	if !c.known {
		return c.Code
	}
	if sym, ok := symbolOverrides[c.Code]; ok {
		return sym
	}
	return c.printer.Sprint(currency.NarrowSymbol(c.unit))
}

// isPrefix returns true if this currency symbol should be placed before the amount.
// golang.org/x/text/currency doesn't implement symbol positioning from CLDR
// patterns, so prefix currencies are listed manually.
func (c Currency) isPrefix() bool {
	switch c.Code {
	case "USD", "GBP", "JPY", "CAD", "AUD", "MXN", "HKD", "SGD", "NZD", "ZAR":
		return true
	default:
		return false
	}
}

// Digits is the number of minor-unit digits shown (2 for USD, 0 for JPY).
func (c Currency) Digits() int { return c.digits }

// Format formats an amount with the currency symbol and the currency's
// standard number of decimals.
func (c Currency) Format(amount float64) string {
	formatted := c.printer.Sprint(number.Decimal(amount,
		number.MinFractionDigits(c.digits), number.MaxFractionDigits(c.digits)))
	if c.isPrefix() {
		return c.Symbol() + formatted
	}
	return formatted + " " + c.Symbol()
}

// MoneyFormatter formats amounts of any currency for one locale.
type MoneyFormatter struct {
	locale language.Tag
	cache  map[string]Currency
}

// NewMoneyFormatter uses locale for digit grouping; language.Und picks each
// currency's home locale.
func NewMoneyFormatter(locale language.Tag) *MoneyFormatter {
	return &MoneyFormatter{locale: locale, cache: make(map[string]Currency)}
}

// Format renders amount in the currency named by code.
func (m *MoneyFormatter) Format(amount float64, code string) string {
	c, ok := m.cache[code]
	if !ok {
		c = GetCurrencyWithLocale(code, m.locale)
		m.cache[code] = c
	}
	return c.Format(amount)
}
