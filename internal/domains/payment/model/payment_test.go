package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGatewayIsValid(t *testing.T) {
	for _, gw := range []Gateway{GatewayStripe, GatewayPayPal, GatewayNetBanking, GatewayCashfree} {
		assert.True(t, gw.IsValid(), string(gw))
	}
	assert.False(t, Gateway("RAZORPAY").IsValid())
	assert.False(t, Gateway("").IsValid())
}

func TestPaymentIsReusable(t *testing.T) {
	p := &Payment{Status: PaymentPending, ExpiresAt: time.Now().Add(time.Minute)}
	assert.True(t, p.IsReusable())

	p.ExpiresAt = time.Now().Add(-time.Second)
	assert.True(t, p.IsExpired())
	assert.False(t, p.IsReusable())

	p.ExpiresAt = time.Now().Add(time.Minute)
	p.Status = PaymentCompleted
	assert.False(t, p.IsReusable())
}
