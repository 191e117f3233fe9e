package integration

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/LoohanZinho/enem2-sub003/internal/domain/entitlement"
)

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(t *testing.T, baseURL string, payload map[string]interface{}, signature string) *http.Response {
	t.Helper()

	body, _ := json.Marshal(payload)
	req, err := http.NewRequest(http.MethodPost, baseURL+"/webhook/payment", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Webhook-Signature", signature)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("webhook request failed: %v", err)
	}
	return resp
}

func approvedEvent(email, paymentID, plan string) map[string]interface{} {
	return map[string]interface{}{
		"event":     "payment.approved",
		"paymentId": paymentID,
		"plan":      plan,
		"customer": map[string]string{
			"email": email,
			"name":  "Paying Customer",
		},
	}
}

// An approved payment for a new email provisions the account and grants a key.
func TestWebhook_ApprovedPaymentProvisionsAccount(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	resp := postWebhook(t, env.server.URL, approvedEvent("buyer@example.com", "pay-1", "monthly"), "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("webhook status = %d, want 200", resp.StatusCode)
	}

	a, err := env.accounts.GetByEmail(ctx, "buyer@example.com")
	if err != nil {
		t.Fatalf("account was not provisioned: %v", err)
	}

	status, err := env.entitlements.Evaluate(ctx, a.ID)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if status.State != entitlement.StateActive {
		t.Errorf("state after payment = %v, want %v", status.State, entitlement.StateActive)
	}
	if status.Plan != entitlement.PlanMonthly {
		t.Errorf("plan = %v, want %v", status.Plan, entitlement.PlanMonthly)
	}
}

// A payment for an existing account grants the key without creating a duplicate.
func TestWebhook_ApprovedPaymentExistingAccount(t *testing.T) {
	env := newTestEnv(t, "")
	created := env.createAccount(t, "existing@example.com", "secret123")
	ctx := context.Background()

	resp := postWebhook(t, env.server.URL, approvedEvent("existing@example.com", "pay-2", "annual"), "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("webhook status = %d, want 200", resp.StatusCode)
	}

	status, err := env.entitlements.Evaluate(ctx, created.ID)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if status.State != entitlement.StateActive {
		t.Errorf("state = %v, want active", status.State)
	}
}

func TestWebhook_RefundRevokesAccess(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	resp := postWebhook(t, env.server.URL, approvedEvent("refund@example.com", "pay-3", "monthly"), "")
	resp.Body.Close()

	a, err := env.accounts.GetByEmail(ctx, "refund@example.com")
	if err != nil {
		t.Fatalf("account was not provisioned: %v", err)
	}

	resp = postWebhook(t, env.server.URL, map[string]interface{}{
		"event":     "payment.refunded",
		"paymentId": "pay-3",
	}, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refund webhook status = %d, want 200", resp.StatusCode)
	}

	status, err := env.entitlements.Evaluate(ctx, a.ID)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if status.State != entitlement.StateNone {
		t.Errorf("state after refund = %v, want %v", status.State, entitlement.StateNone)
	}
}

func TestWebhook_SignatureVerification(t *testing.T) {
	const secret = "webhook-secret"
	env := newTestEnv(t, secret)

	payload := approvedEvent("signed@example.com", "pay-4", "monthly")
	body, _ := json.Marshal(payload)

	tests := []struct {
		name       string
		signature  string
		wantStatus int
	}{
		{name: "valid signature", signature: signBody(secret, body), wantStatus: http.StatusOK},
		{name: "missing signature", signature: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong signature", signature: signBody("other-secret", body), wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postWebhook(t, env.server.URL, payload, tt.signature)
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestWebhook_UnknownEventAcknowledged(t *testing.T) {
	env := newTestEnv(t, "")

	resp := postWebhook(t, env.server.URL, map[string]interface{}{
		"event": "payment.pending",
	}, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("unknown event status = %d, want 200", resp.StatusCode)
	}
}
