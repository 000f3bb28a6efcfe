package geo

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/go-resty/resty/v2"

	"internvault-backend/pkg/logger"
)

// Locator resolves a client IP to a country code and display currency.
type Locator interface {
	CountryForIP(ctx context.Context, ip string) (country, currency string, err error)
}

type ipapiLocator struct {
	client *resty.Client
}

// NewIPAPILocator talks to an ipapi.co compatible endpoint.
func NewIPAPILocator(apiBase string) Locator {
	client := resty.New().
		SetBaseURL(apiBase).
		SetTimeout(5 * time.Second)

	return &ipapiLocator{client: client}
}

type ipapiResponse struct {
	CountryCode string `json:"country_code"`
	Currency    string `json:"currency"`
	Error       bool   `json:"error"`
	Reason      string `json:"reason"`
}

func (l *ipapiLocator) CountryForIP(ctx context.Context, ip string) (string, string, error) {
	if isPrivateIP(ip) {
		// Local development traffic has no meaningful geo answer.
		return "US", "USD", nil
	}

	var result ipapiResponse
	resp, err := l.client.R().
		SetContext(ctx).
		SetResult(&result).
		Get(fmt.Sprintf("/%s/json/", ip))

	if err != nil || resp.IsError() || result.Error || result.CountryCode == "" {
		logger.Warn("Geo lookup failed, falling back to US/USD", map[string]interface{}{
			"ip": ip,
		})
		return "US", "USD", nil
	}

	currency := result.Currency
	if currency == "" {
		currency = "USD"
	}

	return result.CountryCode, currency, nil
}

func isPrivateIP(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return true
	}
	return parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified()
}
