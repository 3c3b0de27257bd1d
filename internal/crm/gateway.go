package crm

import (
	"context"
	"errors"
	"strings"

	"fenix-certificates/internal/format"
	"fenix-certificates/internal/keycrm"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	defaultBuyerName   = "Покупець сертифіката"
	defaultStatusLabel = "Активний"
)

// OrderAPI is the part of the KeyCRM client the gateway uses.
type OrderAPI interface {
	CreateOrder(ctx context.Context, req keycrm.CreateOrderRequest) (*keycrm.Order, error)
	FindOrderBySourceUUID(ctx context.Context, uuid string) (*keycrm.Order, error)
	GetOrder(ctx context.Context, id int64) (*keycrm.Order, error)
	UpdateOrder(ctx context.Context, id int64, req keycrm.UpdateOrderRequest) error
}

// Gateway mirrors certificates into CRM orders keyed by certificate code.
// Each operation is one best-effort round trip: no retries, no rollback.
type Gateway struct {
	Client   OrderAPI
	SourceID *int
	Log      zerolog.Logger
}

func NewGateway(client OrderAPI, sourceID *int) *Gateway {
	return &Gateway{Client: client, SourceID: sourceID, Log: log.Logger}
}

type IssueInput struct {
	Code          string `json:"code"`
	Amount        int    `json:"amount"`
	RecipientName string `json:"recipientName"`
	ManagerName   string `json:"managerName"`
	ExpiryDate    string `json:"expiryDate"`
}

type IssueResult struct {
	Success    bool  `json:"success"`
	ExternalID int64 `json:"crm_id"`
}

type VerifyResult struct {
	Found       bool    `json:"found"`
	ExternalID  int64   `json:"crm_id,omitempty"`
	StatusLabel string  `json:"status,omitempty"`
	Amount      float64 `json:"amount,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

type RedeemInput struct {
	Code       string
	ExternalID int64  // optional; used instead of a lookup by code
	OrderRef   string // optional local order reference
}

type RedeemResult struct {
	Success    bool  `json:"success"`
	ExternalID int64 `json:"crm_id"`
}

// Issue creates the CRM order for a certificate. A failure here leaves any
// local record as it is.
func (g *Gateway) Issue(ctx context.Context, in IssueInput) (IssueResult, error) {
	if in.Code == "" || in.Amount <= 0 {
		return IssueResult{}, ErrAmountRequired
	}
	buyer := strings.TrimSpace(in.RecipientName)
	if buyer == "" {
		buyer = defaultBuyerName
	}
	req := keycrm.CreateOrderRequest{
		SourceID:       g.SourceID,
		SourceUUID:     in.Code,
		ManagerComment: format.IssueComment(in.Code, in.Amount, in.ExpiryDate, in.RecipientName, in.ManagerName),
		Buyer:          keycrm.OrderBuyer{FullName: buyer},
		Products: []keycrm.OrderProduct{{
			SKU:      in.Code,
			Price:    in.Amount,
			Quantity: 1,
			Name:     "Подарунковий сертифікат " + in.Code,
		}},
	}
	order, err := g.Client.CreateOrder(ctx, req)
	if err != nil {
		return IssueResult{}, g.fail("create", in.Code, err)
	}
	g.Log.Info().Str("code", in.Code).Int64("crm_id", order.ID).Msg("Certificate issued in CRM")
	return IssueResult{Success: true, ExternalID: order.ID}, nil
}

// Verify looks the certificate up by code. A missing order is a normal
// result with Found false.
func (g *Gateway) Verify(ctx context.Context, code string) (VerifyResult, error) {
	if code == "" {
		return VerifyResult{}, ErrCodeRequired
	}
	order, err := g.Client.FindOrderBySourceUUID(ctx, code)
	if err != nil {
		return VerifyResult{}, g.fail("verify", code, err)
	}
	if order == nil {
		return VerifyResult{Found: false}, nil
	}
	label := order.StatusName()
	if label == "" {
		label = defaultStatusLabel
	}
	return VerifyResult{
		Found:       true,
		ExternalID:  order.ID,
		StatusLabel: label,
		Amount:      order.TotalPrice,
		CreatedAt:   order.CreatedAt,
	}, nil
}

// Redeem appends a redemption marker to the order's comment. The CRM status
// itself is not changed.
func (g *Gateway) Redeem(ctx context.Context, in RedeemInput) (RedeemResult, error) {
	order, err := g.resolve(ctx, in)
	if err != nil {
		return RedeemResult{}, err
	}
	code := in.Code
	if code == "" {
		code = order.SourceUUID
	}
	comment := format.AppendComment(order.ManagerComment, format.RedemptionMarker(code, in.OrderRef))
	if err := g.Client.UpdateOrder(ctx, order.ID, keycrm.UpdateOrderRequest{ManagerComment: comment}); err != nil {
		return RedeemResult{}, g.fail("redeem", code, err)
	}
	g.Log.Info().Str("code", code).Int64("crm_id", order.ID).Str("order_ref", in.OrderRef).Msg("Certificate redeemed in CRM")
	return RedeemResult{Success: true, ExternalID: order.ID}, nil
}

func (g *Gateway) resolve(ctx context.Context, in RedeemInput) (*keycrm.Order, error) {
	if in.ExternalID > 0 {
		order, err := g.Client.GetOrder(ctx, in.ExternalID)
		if err == nil {
			return order, nil
		}
		if !keycrm.IsNotFound(err) {
			return nil, g.fail("redeem", in.Code, err)
		}
		if in.Code == "" {
			return nil, ErrNotFound
		}
	}
	if in.Code == "" {
		return nil, ErrNotFound
	}
	order, err := g.Client.FindOrderBySourceUUID(ctx, in.Code)
	if err != nil {
		return nil, g.fail("redeem", in.Code, err)
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

// fail maps client errors onto ErrNotConfigured or *RemoteError.
func (g *Gateway) fail(op, code string, err error) error {
	if errors.Is(err, keycrm.ErrMissingAPIKey) {
		return ErrNotConfigured
	}
	re := &RemoteError{Op: op, Message: err.Error(), Err: err}
	var apiErr *keycrm.APIError
	if errors.As(err, &apiErr) {
		re.StatusCode = apiErr.StatusCode
		re.Message = apiErr.Message
	}
	g.Log.Error().Err(err).Str("op", op).Str("code", code).Msg("CRM request failed")
	return re
}
