package payment

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"velora-be/internal/config"
	"velora-be/internal/logger"

	"go.uber.org/zap"
)

const payPath = "/pg/v1/pay"

var (
	ErrGatewayRejected    = errors.New("payment gateway rejected the request")
	ErrGatewayUnreachable = errors.New("payment gateway unreachable")
)

type phonePeGateway struct {
	cfg        config.PhonePeConfig
	httpClient *http.Client
}

// ----------------- Constructor -----------------

func NewPhonePeGateway(cfg config.PhonePeConfig) Gateway {
	if cfg.MerchantID == "" || cfg.SaltKey == "" {
		logger.L().Warn("PhonePe merchant credentials are empty")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &phonePeGateway{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ----------------- Signing -----------------

// Sign computes the X-VERIFY header value for a request to apiPath:
// hex(sha256(base64Payload + apiPath + saltKey)) + "###" + saltIndex.
// Pure and deterministic; the salt never travels on the wire.
func Sign(base64Payload, apiPath, saltKey string, saltIndex int) string {
	sum := sha256.Sum256([]byte(base64Payload + apiPath + saltKey))
	return hex.EncodeToString(sum[:]) + "###" + strconv.Itoa(saltIndex)
}

// ----------------- CreatePayment -----------------

func (g *phonePeGateway) CreatePayment(ctx context.Context, params CreatePaymentParams) (string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("transaction_id", params.TransactionID),
		zap.Uint("user_id", params.UserID),
		zap.Int64("amount_paise", params.AmountPaise),
	)

	userID := strconv.FormatUint(uint64(params.UserID), 10)

	payload := payRequest{
		MerchantID:            g.cfg.MerchantID,
		MerchantTransactionID: params.TransactionID,
		MerchantUserID:        MerchantUserID(userID),
		Amount:                params.AmountPaise,
		RedirectURL:           fmt.Sprintf("%s?txnId=%s", g.cfg.RedirectURL, params.TransactionID),
		RedirectMode:          "POST",
		CallbackURL:           g.cfg.CallbackURL,
		PaymentInstrument:     paymentInstrument{Type: "PAY_PAGE"},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	b64 := base64.StdEncoding.EncodeToString(raw)

	body, err := json.Marshal(map[string]string{"request": b64})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.cfg.BaseURL+payPath, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-VERIFY", Sign(b64, payPath, g.cfg.SaltKey, g.cfg.SaltIndex))
	req.Header.Set("X-MERCHANT-ID", g.cfg.MerchantID)

	log.Info("Sending payment request to PhonePe")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error("PhonePe request failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrGatewayUnreachable, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read response body", zap.Error(err))
		return "", fmt.Errorf("failed to read phonepe response: %w", err)
	}

	var res payResponse
	if err := json.Unmarshal(respBytes, &res); err != nil {
		log.Error("Failed decoding PhonePe response",
			zap.Int("status", resp.StatusCode),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to decode phonepe response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || !res.Success {
		log.Error("PhonePe rejected payment request",
			zap.Int("status", resp.StatusCode),
			zap.String("code", res.Code),
			zap.String("message", res.Message),
		)
		if res.Message != "" {
			return "", fmt.Errorf("%w: %s", ErrGatewayRejected, res.Message)
		}
		return "", ErrGatewayRejected
	}

	redirectURL := res.Data.InstrumentResponse.RedirectInfo.URL
	if redirectURL == "" {
		log.Error("PhonePe returned empty redirect URL")
		return "", fmt.Errorf("%w: empty redirect url", ErrGatewayRejected)
	}

	log.Info("PhonePe payment created", zap.String("redirect_url", redirectURL))
	return redirectURL, nil
}

// ----------------- DecodeCallback -----------------

// DecodeCallback decodes the base64 JSON body the gateway posts back.
// Malformed or partial input yields an error, never a panic; the caller
// treats any error as "no state change".
func DecodeCallback(base64Body string) (*CallbackResult, error) {
	if base64Body == "" {
		return nil, errors.New("empty callback body")
	}

	raw, err := base64.StdEncoding.DecodeString(base64Body)
	if err != nil {
		return nil, fmt.Errorf("callback is not valid base64: %w", err)
	}

	var result CallbackResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("callback is not valid JSON: %w", err)
	}

	if result.Paid() && result.TransactionID() == "" {
		return nil, errors.New("success callback without transaction id")
	}

	return &result, nil
}
