package payments

import (
	"context"
	"fmt"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/rs/zerolog"

	"github.com/you/checkoutsvc/domain"
)

// MercadoPagoGateway implements domain.PaymentGateway using Mercado Pago
// hosted checkout preferences. The total handed over is in COP, which has
// no fractional unit.
type MercadoPagoGateway struct {
	client     preference.Client
	successURL string
	failureURL string
	logger     zerolog.Logger
}

// NewMercadoPagoGateway creates the gateway. A missing access token is a
// configuration error, not a runtime condition.
func NewMercadoPagoGateway(accessToken, successURL, failureURL string, logger zerolog.Logger) (domain.PaymentGateway, error) {
	if accessToken == "" {
		return nil, domain.ErrPaymentNotConfigured
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mercado pago sdk: %w", err)
	}

	return &MercadoPagoGateway{
		client:     preference.NewClient(cfg),
		successURL: successURL,
		failureURL: failureURL,
		logger:     logger,
	}, nil
}

// OpenCheckout implements domain.PaymentGateway
func (g *MercadoPagoGateway) OpenCheckout(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentHandoff, error) {
	prefReq := preference.Request{
		ExternalReference: req.OrderID,
		Items: []preference.ItemRequest{
			{
				ID:         req.OrderID,
				Title:      req.Description,
				Quantity:   1,
				UnitPrice:  float64(req.Amount),
				CurrencyID: "COP",
			},
		},
		Payer: &preference.PayerRequest{
			Name:    req.Name,
			Surname: req.LastName,
			Email:   req.Email,
		},
		BackURLs: &preference.BackURLsRequest{
			Success: g.successURL,
			Failure: g.failureURL,
		},
	}

	resp, err := g.client.Create(ctx, prefReq)
	if err != nil {
		g.logger.Error().Err(err).Str("order_id", req.OrderID).Msg("preference creation failed")
		return nil, fmt.Errorf("failed to create payment preference: %w", err)
	}
	g.logger.Info().Str("order_id", req.OrderID).Str("preference_id", resp.ID).Msg("checkout preference created")

	return &domain.PaymentHandoff{
		PreferenceID: resp.ID,
		CheckoutURL:  resp.InitPoint,
	}, nil
}
