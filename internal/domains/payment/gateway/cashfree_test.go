package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appmodel "internvault-backend/internal/domains/application/model"
	"internvault-backend/internal/domains/payment/model"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyCashfreeSignature(t *testing.T) {
	secret := "cf_test_secret"
	body := []byte(`{"eventType":"order.paid","order":{"orderId":"order_1"}}`)

	assert.True(t, VerifyCashfreeSignature(secret, body, sign(secret, body)))
	assert.False(t, VerifyCashfreeSignature(secret, body, sign("wrong_secret", body)))
	assert.False(t, VerifyCashfreeSignature(secret, []byte(`tampered`), sign(secret, body)))
	assert.False(t, VerifyCashfreeSignature(secret, body, ""))
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+919876543210", "9876543210"},
		{"919876543210", "9876543210"},
		{"9876543210", "9876543210"},
		{"+91 98765 43210", "9876543210"},
		{"98765", "98765"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizePhone(tc.in), "input %q", tc.in)
	}
}

func TestNetBankingIntent(t *testing.T) {
	app := &appmodel.Application{ID: uuid.New()}
	gw := NewNetBankingGateway()

	assert.Equal(t, model.GatewayNetBanking, gw.Name())

	intent, err := gw.CreateIntent(context.Background(), app)
	require.NoError(t, err)
	assert.Contains(t, intent.RedirectURL, app.ID.String())
	assert.True(t, strings.HasPrefix(intent.ProviderPaymentID, "NETBANK_"))
}
