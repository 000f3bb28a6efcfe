package gateway

import (
	"context"
	"fmt"
	"time"

	appmodel "internvault-backend/internal/domains/application/model"
	"internvault-backend/internal/domains/payment/model"
)

// NetBankingGateway is a stub provider. It issues a synthetic payment
// reference without any external call; completion arrives through a
// simulated webhook only.
type NetBankingGateway struct{}

func NewNetBankingGateway() *NetBankingGateway { return &NetBankingGateway{} }

func (g *NetBankingGateway) Name() model.Gateway { return model.GatewayNetBanking }

func (g *NetBankingGateway) CreateIntent(_ context.Context, app *appmodel.Application) (*Intent, error) {
	return &Intent{
		RedirectURL:       fmt.Sprintf("https://mock-netbanking-gateway.com/pay?appId=%s", app.ID),
		ProviderPaymentID: fmt.Sprintf("NETBANK_%d", time.Now().UnixMilli()),
	}, nil
}
