package ledger

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name        string
		options     map[string][]string
		wantErr     bool
		checkConfig func(t *testing.T, config *Config)
	}{
		{
			name:    "empty options - use defaults",
			options: map[string][]string{},
			checkConfig: func(t *testing.T, config *Config) {
				assert.Equal(t, int32(2), config.MonetaryDecimalPlaces)
				assert.Equal(t, "Account balancing", config.BalancingDescription)
				assert.Equal(t, "Dividend: %s", config.DividendDescription)
			},
		},
		{
			name: "decimal places",
			options: map[string][]string{
				"monetary_decimal_places": {"3"},
			},
			checkConfig: func(t *testing.T, config *Config) {
				assert.Equal(t, int32(3), config.MonetaryDecimalPlaces)
			},
		},
		{
			name: "first value wins",
			options: map[string][]string{
				"balancing_description": {"Correction", "Ignored"},
			},
			checkConfig: func(t *testing.T, config *Config) {
				assert.Equal(t, "Correction", config.BalancingDescription)
			},
		},
		{
			name: "description formats",
			options: map[string][]string{
				"dividend_description":      {"Utdelning: %s"},
				"security_buy_description":  {"Köp %s"},
				"security_sell_description": {"Sälj %s"},
			},
			checkConfig: func(t *testing.T, config *Config) {
				assert.Equal(t, "Utdelning: %s", config.DividendDescription)
				assert.Equal(t, "Köp %s", config.SecurityBuyDescription)
				assert.Equal(t, "Sälj %s", config.SecuritySellDescription)
			},
		},
		{
			name:    "invalid decimal places",
			options: map[string][]string{"monetary_decimal_places": {"two"}},
			wantErr: true,
		},
		{
			name:    "decimal places out of range",
			options: map[string][]string{"monetary_decimal_places": {"12"}},
			wantErr: true,
		},
		{
			name:    "empty balancing description",
			options: map[string][]string{"balancing_description": {"  "}},
			wantErr: true,
		},
		{
			name:    "format without placeholder",
			options: map[string][]string{"dividend_description": {"Dividend"}},
			wantErr: true,
		},
		{
			name:    "format with extra verb",
			options: map[string][]string{"security_buy_description": {"%s bought %d"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := ParseConfig(tt.options)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			tt.checkConfig(t, config)
		})
	}
}

func TestConfigContext(t *testing.T) {
	assert.Equal(t, NewConfig(), ConfigFromContext(context.Background()))

	cfg := NewConfig()
	cfg.MonetaryDecimalPlaces = 0
	ctx := cfg.WithContext(context.Background())
	assert.Equal(t, cfg, ConfigFromContext(ctx))
}

func TestConfigFormatsDescriptions(t *testing.T) {
	cfg, err := ParseConfig(map[string][]string{
		"dividend_description":     {"Utdelning: %s"},
		"balancing_description":    {"Avstämning"},
		"security_buy_description": {"Köp av %s"},
	})
	assert.NoError(t, err)

	b := NewBudget(cfg)
	broker := NewAccount(AccountTypeAssets, 1, "Broker")
	assert.NoError(t, b.AddAccount(broker))
	sec := NewSecurity(1, "ACME", broker, 2)
	assert.NoError(t, b.AddSecurity(sec))

	d := date("2024-01-01")
	assert.Equal(t, "Utdelning: ACME", NewDividend(b, dec("1"), d, nil, broker, sec, "").Description())
	assert.Equal(t, "Avstämning", NewBalancing(b, dec("1"), d, broker, "").Description())
	assert.Equal(t, "Köp av ACME", NewSecurityBuy(b, sec, dec("1"), dec("1"), dec("1"), d, broker, "").Description())
}
