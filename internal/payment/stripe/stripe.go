package stripe

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prostore-next/internal/config"

	"github.com/shopspring/decimal"
)

var (
	ErrConfigInvalid    = errors.New("stripe config invalid")
	ErrRequestFailed    = errors.New("stripe request failed")
	ErrResponseInvalid  = errors.New("stripe response invalid")
	ErrSignatureInvalid = errors.New("stripe signature invalid")
)

const (
	defaultAPIBaseURL        = "https://api.stripe.com"
	defaultTimeout           = 12 * time.Second
	defaultWebhookToleranceS = 300
)

var zeroDecimalCurrencies = map[string]struct{}{
	"BIF": {},
	"CLP": {},
	"DJF": {},
	"GNF": {},
	"JPY": {},
	"KMF": {},
	"KRW": {},
	"MGA": {},
	"PYG": {},
	"RWF": {},
	"UGX": {},
	"VND": {},
	"VUV": {},
	"XAF": {},
	"XOF": {},
	"XPF": {},
}

// CreateInput 创建支付意图输入。
type CreateInput struct {
	OrderNo     string
	Amount      string
	Currency    string
	Description string
}

// IntentResult 支付意图返回。
type IntentResult struct {
	IntentID     string
	ClientSecret string
	Status       string
	Amount       string
	Currency     string
	OrderNo      string
	Raw          map[string]interface{}
}

// WebhookResult Webhook 解析结果。
type WebhookResult struct {
	EventID   string
	EventType string
	IntentID  string
	OrderNo   string
	Status    string
	Amount    string
	Currency  string
	Email     string
	PaidAt    *time.Time
	Raw       map[string]interface{}
}

// ValidateConfig 校验配置。
func ValidateConfig(cfg config.StripeConfig) error {
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return fmt.Errorf("%w: secret_key is required", ErrConfigInvalid)
	}
	if baseURL := strings.TrimSpace(cfg.APIURL); baseURL != "" {
		if _, err := url.ParseRequestURI(baseURL); err != nil {
			return fmt.Errorf("%w: api_url is invalid", ErrConfigInvalid)
		}
	}
	return nil
}

// CreatePaymentIntent 创建支付意图，订单编号写入 metadata 供 Webhook 回溯。
func CreatePaymentIntent(ctx context.Context, cfg config.StripeConfig, input CreateInput) (*IntentResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.OrderNo) == "" || strings.TrimSpace(input.Amount) == "" || strings.TrimSpace(input.Currency) == "" {
		return nil, fmt.Errorf("%w: intent input is invalid", ErrConfigInvalid)
	}

	minor, err := toMinorAmount(input.Amount, input.Currency)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(minor, 10))
	form.Set("currency", strings.ToLower(strings.TrimSpace(input.Currency)))
	form.Set("metadata[order_no]", strings.TrimSpace(input.OrderNo))
	form.Set("automatic_payment_methods[enabled]", "true")
	if desc := strings.TrimSpace(input.Description); desc != "" {
		form.Set("description", desc)
	}

	respBody, statusCode, err := doFormRequest(ctx, cfg, http.MethodPost, "/v1/payment_intents", form)
	if err != nil {
		return nil, err
	}
	if statusCode < 200 || statusCode >= 300 {
		return nil, fmt.Errorf("%w: create intent status %d", ErrResponseInvalid, statusCode)
	}
	return parseIntent(respBody)
}

// QueryPaymentIntent 查询支付意图。
func QueryPaymentIntent(ctx context.Context, cfg config.StripeConfig, intentID string) (*IntentResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	intentID = strings.TrimSpace(intentID)
	if intentID == "" {
		return nil, fmt.Errorf("%w: intent id is empty", ErrConfigInvalid)
	}

	path := "/v1/payment_intents/" + url.PathEscape(intentID)
	respBody, statusCode, err := doJSONRequest(ctx, cfg, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if statusCode < 200 || statusCode >= 300 {
		return nil, fmt.Errorf("%w: query intent status %d", ErrResponseInvalid, statusCode)
	}
	return parseIntent(respBody)
}

// VerifyAndParseWebhook 校验 Stripe-Signature 后解析事件。
func VerifyAndParseWebhook(cfg config.StripeConfig, signatureHeader string, body []byte, now time.Time) (*WebhookResult, error) {
	if strings.TrimSpace(cfg.WebhookSecret) == "" {
		return nil, fmt.Errorf("%w: webhook_secret is required", ErrConfigInvalid)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: body is empty", ErrResponseInvalid)
	}
	if now.IsZero() {
		now = time.Now()
	}
	if strings.TrimSpace(signatureHeader) == "" {
		return nil, fmt.Errorf("%w: Stripe-Signature is required", ErrSignatureInvalid)
	}

	timestamp, signatures, err := parseSignatureHeader(signatureHeader)
	if err != nil {
		return nil, err
	}
	if delta := math.Abs(float64(now.Unix() - timestamp)); delta > float64(defaultWebhookToleranceS) {
		return nil, fmt.Errorf("%w: timestamp outside tolerance", ErrSignatureInvalid)
	}

	expected := computeSignature(cfg.WebhookSecret, timestamp, body)
	matched := false
	for _, sig := range signatures {
		if hmac.Equal([]byte(strings.ToLower(sig)), []byte(expected)) {
			matched = true
			break
		}
	}
	if !matched {
		return nil, fmt.Errorf("%w: verify failed", ErrSignatureInvalid)
	}

	eventRaw, err := decodeRawMap(body)
	if err != nil {
		return nil, err
	}
	eventType := strings.TrimSpace(readString(eventRaw, "type"))
	if eventType == "" {
		return nil, fmt.Errorf("%w: missing event type", ErrResponseInvalid)
	}
	dataRaw, ok := eventRaw["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: missing data object", ErrResponseInvalid)
	}
	objectRaw, ok := dataRaw["object"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: missing event object", ErrResponseInvalid)
	}

	metadata := readMap(objectRaw, "metadata")
	result := &WebhookResult{
		EventID:   strings.TrimSpace(readString(eventRaw, "id")),
		EventType: eventType,
		IntentID:  strings.TrimSpace(readString(objectRaw, "id")),
		OrderNo:   strings.TrimSpace(readString(metadata, "order_no")),
		Status:    strings.TrimSpace(readString(objectRaw, "status")),
		Email:     strings.TrimSpace(readString(objectRaw, "receipt_email")),
		Raw:       eventRaw,
	}
	currency := strings.ToUpper(strings.TrimSpace(readString(objectRaw, "currency")))
	result.Currency = currency
	amountMinor := readInt64(objectRaw, "amount_received")
	if amountMinor <= 0 {
		amountMinor = readInt64(objectRaw, "amount")
	}
	if amountMinor > 0 && currency != "" {
		result.Amount = fromMinorAmount(amountMinor, currency)
	}
	if created := readInt64(objectRaw, "created"); created > 0 {
		paidAt := time.Unix(created, 0)
		result.PaidAt = &paidAt
	}
	return result, nil
}

func parseIntent(body []byte) (*IntentResult, error) {
	raw, err := decodeRawMap(body)
	if err != nil {
		return nil, err
	}
	result := &IntentResult{Raw: raw}
	result.IntentID = strings.TrimSpace(readString(raw, "id"))
	result.ClientSecret = strings.TrimSpace(readString(raw, "client_secret"))
	result.Status = strings.TrimSpace(readString(raw, "status"))
	result.Currency = strings.ToUpper(strings.TrimSpace(readString(raw, "currency")))
	metadata := readMap(raw, "metadata")
	result.OrderNo = strings.TrimSpace(readString(metadata, "order_no"))
	amountMinor := readInt64(raw, "amount_received")
	if amountMinor <= 0 {
		amountMinor = readInt64(raw, "amount")
	}
	if amountMinor > 0 && result.Currency != "" {
		result.Amount = fromMinorAmount(amountMinor, result.Currency)
	}
	if result.IntentID == "" {
		return nil, fmt.Errorf("%w: missing intent id", ErrResponseInvalid)
	}
	return result, nil
}

func toMinorAmount(amount string, currency string) (int64, error) {
	parsed, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return 0, fmt.Errorf("%w: amount is invalid", ErrConfigInvalid)
	}
	if parsed.LessThanOrEqual(decimal.Zero) {
		return 0, fmt.Errorf("%w: amount must be greater than zero", ErrConfigInvalid)
	}
	scale := currencyScale(currency)
	minor := parsed.Shift(int32(scale))
	// 低于最小货币单位的金额直接拒绝，不做静默取整
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("%w: amount precision is invalid", ErrConfigInvalid)
	}
	return minor.IntPart(), nil
}

func fromMinorAmount(minor int64, currency string) string {
	scale := currencyScale(currency)
	return decimal.NewFromInt(minor).Shift(int32(-scale)).StringFixed(int32(scale))
}

func currencyScale(currency string) int {
	upper := strings.ToUpper(strings.TrimSpace(currency))
	if _, ok := zeroDecimalCurrencies[upper]; ok {
		return 0
	}
	return 2
}

func baseURL(cfg config.StripeConfig) string {
	base := strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if base == "" {
		base = defaultAPIBaseURL
	}
	return base
}

func httpClient(cfg config.StripeConfig) *http.Client {
	timeout := defaultTimeout
	if cfg.TimeoutMS > 0 {
		timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	return &http.Client{Timeout: timeout}
}

func doFormRequest(ctx context.Context, cfg config.StripeConfig, method, path string, form url.Values) ([]byte, int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, method, baseURL(cfg)+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(cfg.SecretKey))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient(cfg).Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read response failed", ErrResponseInvalid)
	}
	return body, resp.StatusCode, nil
}

func doJSONRequest(ctx context.Context, cfg config.StripeConfig, method, path string) ([]byte, int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, method, baseURL(cfg)+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(cfg.SecretKey))

	resp, err := httpClient(cfg).Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read response failed", ErrResponseInvalid)
	}
	return body, resp.StatusCode, nil
}

func decodeRawMap(body []byte) (map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode response failed", ErrResponseInvalid)
	}
	return raw, nil
}

func computeSignature(secret string, timestamp int64, body []byte) string {
	payload := strconv.FormatInt(timestamp, 10) + "." + string(body)
	h := hmac.New(sha256.New, []byte(secret))
	_, _ = h.Write([]byte(payload))
	return strings.ToLower(hex.EncodeToString(h.Sum(nil)))
}

func parseSignatureHeader(signatureHeader string) (int64, []string, error) {
	timestamp := int64(0)
	signatures := make([]string, 0)
	for _, part := range strings.Split(signatureHeader, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.TrimSpace(kv[0])
		value := strings.TrimSpace(kv[1])
		switch key {
		case "t":
			parsed, err := strconv.ParseInt(value, 10, 64)
			if err != nil || parsed <= 0 {
				return 0, nil, fmt.Errorf("%w: invalid timestamp", ErrSignatureInvalid)
			}
			timestamp = parsed
		case "v1":
			if value != "" {
				signatures = append(signatures, strings.ToLower(value))
			}
		}
	}
	if timestamp <= 0 {
		return 0, nil, fmt.Errorf("%w: timestamp is missing", ErrSignatureInvalid)
	}
	if len(signatures) == 0 {
		return 0, nil, fmt.Errorf("%w: v1 signature is missing", ErrSignatureInvalid)
	}
	return timestamp, signatures, nil
}

func readString(raw map[string]interface{}, key string) string {
	if raw == nil {
		return ""
	}
	value, ok := raw[key]
	if !ok || value == nil {
		return ""
	}
	if str, ok := value.(string); ok {
		return str
	}
	return fmt.Sprintf("%v", value)
}

func readMap(raw map[string]interface{}, key string) map[string]interface{} {
	if raw == nil {
		return nil
	}
	value, ok := raw[key].(map[string]interface{})
	if !ok {
		return nil
	}
	return value
}

func readInt64(raw map[string]interface{}, key string) int64 {
	if raw == nil {
		return 0
	}
	switch typed := raw[key].(type) {
	case float64:
		return int64(typed)
	case int64:
		return typed
	case int:
		return int64(typed)
	case json.Number:
		parsed, err := typed.Int64()
		if err != nil {
			return 0
		}
		return parsed
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
