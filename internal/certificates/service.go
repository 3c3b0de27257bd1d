package certificates

import (
	"context"
	"strings"
	"time"

	"fenix-certificates/internal/codegen"
	"fenix-certificates/internal/constants"
	"fenix-certificates/internal/crm"
	"fenix-certificates/internal/domain"
	"fenix-certificates/internal/format"
	"fenix-certificates/internal/pkg/validation"
)

// CRMIssuer creates the CRM order for a freshly issued certificate.
type CRMIssuer interface {
	Issue(ctx context.Context, in crm.IssueInput) (crm.IssueResult, error)
}

// Service runs the issue flow: generate a code, record it locally, then
// optionally mirror it into the CRM.
type Service struct {
	Store    *Store
	Codes    *codegen.Generator
	CRM      CRMIssuer // nil disables CRM sync
	Location *time.Location
}

type IssueRequest struct {
	Amount        int    `json:"amount"`
	CustomAmount  string `json:"custom_amount"`
	RecipientName string `json:"recipient_name"`
	ManagerName   string `json:"manager_name"`
	ExpiryDate    string `json:"expiry_date"`
	SyncCRM       bool   `json:"sync_crm"`
}

// CRMSync reports the CRM half of an issue. A failure here does not undo
// the local record.
type CRMSync struct {
	Success    bool   `json:"success"`
	ExternalID int64  `json:"crm_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

type IssueResult struct {
	Certificate domain.Certificate `json:"certificate"`
	CRMText     string             `json:"crm_text"`
	CRM         *CRMSync           `json:"crm,omitempty"`
}

// View is a certificate with its display strings.
type View struct {
	domain.Certificate
	AmountDisplay  string `json:"amountDisplay"`
	ExpiryDisplay  string `json:"expiryDisplay"`
	CreatedDisplay string `json:"createdDisplay"`
	CRMText        string `json:"crmText"`
}

// ResolveAmount applies the custom amount over the preset one. Without a
// custom amount, Amount must be one of the preset face values.
func (r IssueRequest) ResolveAmount() (int, error) {
	if strings.TrimSpace(r.CustomAmount) != "" {
		return validation.ParseAmount(r.CustomAmount)
	}
	if !validation.IsValidAmount(r.Amount) {
		return 0, validation.ErrAmountNotPos
	}
	if !constants.IsPreset(r.Amount) {
		return 0, ErrNotPreset
	}
	return r.Amount, nil
}

func (s *Service) Issue(ctx context.Context, req IssueRequest) (*IssueResult, error) {
	amount, err := req.ResolveAmount()
	if err != nil {
		return nil, err
	}
	manager := strings.TrimSpace(req.ManagerName)
	if manager == "" {
		manager = constants.DefaultManager
	}
	code, err := s.Codes.Generate()
	if err != nil {
		return nil, err
	}
	cert, err := s.Store.Issue(ctx, domain.Draft{
		Code:          code,
		Amount:        amount,
		RecipientName: strings.TrimSpace(req.RecipientName),
		ManagerName:   manager,
		ExpiryDate:    req.ExpiryDate,
	})
	if err != nil {
		return nil, err
	}

	out := &IssueResult{Certificate: cert, CRMText: format.CRMText(cert)}
	if req.SyncCRM && s.CRM != nil {
		res, err := s.CRM.Issue(ctx, crm.IssueInput{
			Code:          cert.Code,
			Amount:        cert.Amount,
			RecipientName: cert.RecipientName,
			ManagerName:   cert.ManagerName,
			ExpiryDate:    cert.ExpiryDate,
		})
		if err != nil {
			out.CRM = &CRMSync{Success: false, Error: err.Error()}
		} else {
			out.CRM = &CRMSync{Success: true, ExternalID: res.ExternalID}
		}
	}
	return out, nil
}

// Views returns the history with display strings.
func (s *Service) Views() ([]View, error) {
	certs := s.Store.List()
	out := make([]View, 0, len(certs))
	for _, c := range certs {
		v, err := s.view(c)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ViewByID returns one certificate with its display strings.
func (s *Service) ViewByID(id string) (*View, error) {
	c, err := s.Store.Get(id)
	if err != nil {
		return nil, err
	}
	v, err := s.view(c)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Service) view(c domain.Certificate) (View, error) {
	expiry, err := format.Date(c.ExpiryDate)
	if err != nil {
		return View{}, err
	}
	return View{
		Certificate:    c,
		AmountDisplay:  format.Currency(c.Amount),
		ExpiryDisplay:  expiry,
		CreatedDisplay: format.DisplayDate(c.CreatedAt, s.Location),
		CRMText:        format.CRMText(c),
	}, nil
}
