package certificates

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fenix-certificates/internal/codegen"
	"fenix-certificates/internal/crm"
	"fenix-certificates/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCRM struct {
	calls []crm.IssueInput
	err   error
}

func (s *stubCRM) Issue(_ context.Context, in crm.IssueInput) (crm.IssueResult, error) {
	s.calls = append(s.calls, in)
	if s.err != nil {
		return crm.IssueResult{}, s.err
	}
	return crm.IssueResult{Success: true, ExternalID: 4242}, nil
}

func setupCertificateApp(t *testing.T, issuer CRMIssuer) (*fiber.App, *Service) {
	t.Helper()
	svc := &Service{
		Store: newTestStore(t, storage.NewMemoryBackend()),
		Codes: &codegen.Generator{
			Rand: bytes.NewReader(bytes.Repeat([]byte{0, 1, 2, 3, 4, 5}, 20)),
			Now:  func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) },
		},
		CRM:      issuer,
		Location: time.UTC,
	}
	h := &Handlers{Service: svc}
	app := fiber.New()
	app.Get("/certificates", h.List)
	app.Post("/certificates", h.Issue)
	app.Delete("/certificates", h.Clear)
	app.Get("/certificates/code", h.PreviewCode)
	app.Get("/certificates/:id", h.ViewOne)
	app.Get("/certificates/:id/crm-text", h.CRMText)
	app.Get("/presets", h.Presets)
	return app, svc
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func TestIssueHandler_PresetAmountNoCRM(t *testing.T) {
	issuer := &stubCRM{}
	app, svc := setupCertificateApp(t, issuer)

	resp, out := doJSON(t, app, "POST", "/certificates", map[string]interface{}{
		"amount":         1000,
		"recipient_name": "  Олена  ",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	data := out["data"].(map[string]interface{})
	cert := data["certificate"].(map[string]interface{})
	assert.Equal(t, "FNX-2025-ABCDEF", cert["code"])
	assert.Equal(t, float64(1000), cert["amount"])
	assert.Equal(t, "Олена", cert["recipientName"])
	assert.Equal(t, "Менеджер", cert["managerName"])
	assert.Equal(t, "active", cert["status"])
	assert.Contains(t, data["crm_text"], "Код: FNX-2025-ABCDEF")
	assert.Nil(t, data["crm"])
	assert.Empty(t, issuer.calls)
	assert.Len(t, svc.Store.List(), 1)
}

func TestIssueHandler_CustomAmountOverridesPreset(t *testing.T) {
	app, _ := setupCertificateApp(t, nil)

	resp, out := doJSON(t, app, "POST", "/certificates", map[string]interface{}{
		"amount":        500,
		"custom_amount": " 750 ",
		"expiry_date":   "2025-12-31",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	cert := out["data"].(map[string]interface{})["certificate"].(map[string]interface{})
	assert.Equal(t, float64(750), cert["amount"])
	assert.Equal(t, "2025-12-31", cert["expiryDate"])
}

func TestIssueHandler_Validation(t *testing.T) {
	app, svc := setupCertificateApp(t, nil)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"no amount", map[string]interface{}{}},
		{"negative amount", map[string]interface{}{"amount": -5}},
		{"custom not a number", map[string]interface{}{"custom_amount": "abc"}},
		{"custom fraction", map[string]interface{}{"custom_amount": "10.5"}},
		{"amount not a preset", map[string]interface{}{"amount": 750}},
		{"bad expiry", map[string]interface{}{"amount": 500, "expiry_date": "31.12.2025"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, out := doJSON(t, app, "POST", "/certificates", tt.body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "error", out["status"])
		})
	}
	assert.Empty(t, svc.Store.List())
}

func TestIssueHandler_CRMSync(t *testing.T) {
	issuer := &stubCRM{}
	app, _ := setupCertificateApp(t, issuer)

	resp, out := doJSON(t, app, "POST", "/certificates", map[string]interface{}{
		"amount":       2000,
		"manager_name": "Петро",
		"sync_crm":     true,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	sync := out["data"].(map[string]interface{})["crm"].(map[string]interface{})
	assert.Equal(t, true, sync["success"])
	assert.Equal(t, float64(4242), sync["crm_id"])
	require.Len(t, issuer.calls, 1)
	assert.Equal(t, "Петро", issuer.calls[0].ManagerName)
	assert.Equal(t, 2000, issuer.calls[0].Amount)
}

func TestIssueHandler_CRMFailureKeepsLocalRecord(t *testing.T) {
	issuer := &stubCRM{err: errors.New("keycrm down")}
	app, svc := setupCertificateApp(t, issuer)

	resp, out := doJSON(t, app, "POST", "/certificates", map[string]interface{}{
		"amount":   500,
		"sync_crm": true,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	sync := out["data"].(map[string]interface{})["crm"].(map[string]interface{})
	assert.Equal(t, false, sync["success"])
	assert.Equal(t, "keycrm down", sync["error"])
	assert.Len(t, svc.Store.List(), 1)
}

func TestListAndView(t *testing.T) {
	app, svc := setupCertificateApp(t, nil)
	ctx := context.Background()
	_, err := svc.Issue(ctx, IssueRequest{Amount: 500})
	require.NoError(t, err)
	second, err := svc.Issue(ctx, IssueRequest{CustomAmount: "1500", ExpiryDate: "2025-08-01"})
	require.NoError(t, err)

	resp, out := doJSON(t, app, "GET", "/certificates", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := out["data"].([]interface{})
	require.Len(t, list, 2)
	assert.Equal(t, float64(2), out["metadata"].(map[string]interface{})["count"])
	newest := list[0].(map[string]interface{})
	assert.Equal(t, second.Certificate.ID, newest["id"])
	assert.Equal(t, "01.08.2025", newest["expiryDisplay"])
	assert.Equal(t, "31.01.2025", newest["createdDisplay"])

	resp, out = doJSON(t, app, "GET", "/certificates/"+second.Certificate.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1500), out["data"].(map[string]interface{})["amount"])

	resp, _ = doJSON(t, app, "GET", "/certificates/nope", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCRMTextHandler(t *testing.T) {
	app, svc := setupCertificateApp(t, nil)
	res, err := svc.Issue(context.Background(), IssueRequest{Amount: 1000, ManagerName: "Оксана", ExpiryDate: "2025-09-30"})
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/certificates/"+res.Certificate.ID+"/crm-text", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "СЕРТИФІКАТ FENIX\nКод: "+res.Certificate.Code+"\nСума: 1000 грн\nДіє до: 2025-09-30\nСтворив: Оксана", string(body))
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")

	resp, err = app.Test(httptest.NewRequest("GET", "/certificates/missing/crm-text", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestClearHandler_RequiresConfirm(t *testing.T) {
	app, svc := setupCertificateApp(t, nil)
	_, err := svc.Issue(context.Background(), IssueRequest{Amount: 500})
	require.NoError(t, err)

	resp, _ := doJSON(t, app, "DELETE", "/certificates", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Len(t, svc.Store.List(), 1)

	resp, _ = doJSON(t, app, "DELETE", "/certificates?confirm=true", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, svc.Store.List())
}

func TestPreviewCodeAndPresets(t *testing.T) {
	app, svc := setupCertificateApp(t, nil)

	resp, out := doJSON(t, app, "GET", "/certificates/code", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	code := out["data"].(map[string]interface{})["code"].(string)
	assert.True(t, codegen.Valid(code))
	assert.Empty(t, svc.Store.List())

	resp, out = doJSON(t, app, "GET", "/presets", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := out["data"].(map[string]interface{})
	assert.Equal(t, []interface{}{float64(500), float64(1000), float64(2000), float64(5000)}, data["amounts"])
	assert.Equal(t, "FENIX ARMY STORE", data["company_name"])
}
