package ledger

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Config holds the book-wide settings the transaction model reads.
type Config struct {
	// MonetaryDecimalPlaces is the number of decimals money is persisted with.
	MonetaryDecimalPlaces int32
	// BalancingDescription is the default description of balancing entries.
	// Balancing entries only persist a description that differs from it.
	BalancingDescription string
	// DividendDescription, SecurityBuyDescription and SecuritySellDescription
	// are format strings taking the security name.
	DividendDescription     string
	SecurityBuyDescription  string
	SecuritySellDescription string
}

// NewConfig creates a Config with the default settings.
func NewConfig() *Config {
	return &Config{
		MonetaryDecimalPlaces:   2,
		BalancingDescription:    "Account balancing",
		DividendDescription:     "Dividend: %s",
		SecurityBuyDescription:  "Security: %s (bought)",
		SecuritySellDescription: "Security: %s (sold)",
	}
}

// ParseConfig parses an options map into a Config. Unknown options are
// ignored; the first value of a repeated option wins.
// Supports:
//   - monetary_decimal_places "2"
//   - balancing_description "Account balancing"
//   - dividend_description "Dividend: %s"
//   - security_buy_description "Security: %s (bought)"
//   - security_sell_description "Security: %s (sold)"
func ParseConfig(options map[string][]string) (*Config, error) {
	cfg := NewConfig()

	if vals := options["monetary_decimal_places"]; len(vals) > 0 {
		places, err := strconv.Atoi(strings.TrimSpace(vals[0]))
		if err != nil || places < 0 || places > 8 {
			return nil, fmt.Errorf("invalid monetary_decimal_places %q, expected 0-8", vals[0])
		}
		cfg.MonetaryDecimalPlaces = int32(places)
	}

	if vals := options["balancing_description"]; len(vals) > 0 {
		desc := strings.TrimSpace(vals[0])
		if desc == "" {
			return nil, fmt.Errorf("balancing_description must not be empty")
		}
		cfg.BalancingDescription = desc
	}

	formats := []struct {
		name string
		dst  *string
	}{
		{"dividend_description", &cfg.DividendDescription},
		{"security_buy_description", &cfg.SecurityBuyDescription},
		{"security_sell_description", &cfg.SecuritySellDescription},
	}
	for _, f := range formats {
		vals := options[f.name]
		if len(vals) == 0 {
			continue
		}
		if strings.Count(vals[0], "%s") != 1 || strings.Count(vals[0], "%") != 1 {
			return nil, fmt.Errorf("invalid %s %q, expected exactly one %%s", f.name, vals[0])
		}
		*f.dst = vals[0]
	}

	return cfg, nil
}

func (c *Config) dividendDescription(s *Security) string {
	return fmt.Sprintf(c.DividendDescription, s.Name)
}

func (c *Config) securityBuyDescription(s *Security) string {
	return fmt.Sprintf(c.SecurityBuyDescription, s.Name)
}

func (c *Config) securitySellDescription(s *Security) string {
	return fmt.Sprintf(c.SecuritySellDescription, s.Name)
}

// contextKey is a private type to avoid key collisions in context.
type contextKey struct{}

// WithContext returns a new context with the Config attached.
func (c *Config) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// ConfigFromContext retrieves the Config from context.
// Returns a default Config if not found.
func ConfigFromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(contextKey{}).(*Config); ok {
		return cfg
	}
	return NewConfig()
}
