package handler

import (
    "bytes"
    "crypto/hmac"
    "crypto/sha256"
    "encoding/hex"
    "encoding/json"
    "fmt"
    "io"
    "log"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/glowcart/storefront/internal/config"
)

// PaymentHandler creates MoMo payment requests.  The gateway is opaque to
// the storefront: we sign the request, relay it, and hand the gateway's
// response (including the payment URL) straight back to the frontend.
type PaymentHandler struct {
    Cfg    config.Config
    Client *http.Client
}

func NewPaymentHandler(cfg config.Config) *PaymentHandler {
    return &PaymentHandler{Cfg: cfg, Client: &http.Client{Timeout: 15 * time.Second}}
}

type createPaymentReq struct {
    Amount string `json:"amount"`
}

// momoRequest is the create-payment payload in the gateway's schema.
type momoRequest struct {
    PartnerCode string `json:"partnerCode"`
    PartnerName string `json:"partnerName"`
    StoreID     string `json:"storeId"`
    RequestID   string `json:"requestId"`
    Amount      string `json:"amount"`
    OrderID     string `json:"orderId"`
    OrderInfo   string `json:"orderInfo"`
    RedirectURL string `json:"redirectUrl"`
    IpnURL      string `json:"ipnUrl"`
    Lang        string `json:"lang"`
    RequestType string `json:"requestType"`
    AutoCapture bool   `json:"autoCapture"`
    ExtraData   string `json:"extraData"`
    Signature   string `json:"signature"`
}

// Create handles POST /api/payment/create.  The raw signature string follows
// the gateway's fixed alphabetical field order; changing it invalidates the
// HMAC on their side.
func (h *PaymentHandler) Create(c echo.Context) error {
    var req createPaymentReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
    }
    amount := req.Amount
    if amount == "" {
        amount = "5000"
    }

    cfg := h.Cfg
    if cfg.MomoPartnerCode == "" || cfg.MomoAccessKey == "" || cfg.MomoSecretKey == "" {
        log.Printf("payment: MoMo credentials not configured")
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Payment Error"})
    }

    requestID := fmt.Sprintf("%s%d", cfg.MomoPartnerCode, time.Now().UnixMilli())
    orderID := requestID
    const (
        requestType = "captureWallet"
        orderInfo   = "Pay with MoMo"
        extraData   = ""
    )

    rawSignature := fmt.Sprintf(
        "accessKey=%s&amount=%s&extraData=%s&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=%s",
        cfg.MomoAccessKey, amount, extraData, cfg.MomoIPNURL, orderID, orderInfo,
        cfg.MomoPartnerCode, cfg.MomoRedirectURL, requestID, requestType)

    mac := hmac.New(sha256.New, []byte(cfg.MomoSecretKey))
    mac.Write([]byte(rawSignature))
    signature := hex.EncodeToString(mac.Sum(nil))

    payload := momoRequest{
        PartnerCode: cfg.MomoPartnerCode,
        PartnerName: "Test",
        StoreID:     "MomoTestStore",
        RequestID:   requestID,
        Amount:      amount,
        OrderID:     orderID,
        OrderInfo:   orderInfo,
        RedirectURL: cfg.MomoRedirectURL,
        IpnURL:      cfg.MomoIPNURL,
        Lang:        "vi",
        RequestType: requestType,
        AutoCapture: true,
        ExtraData:   extraData,
        Signature:   signature,
    }
    body, err := json.Marshal(payload)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Payment Error"})
    }

    httpReq, err := http.NewRequestWithContext(c.Request().Context(), http.MethodPost, cfg.MomoEndpoint, bytes.NewReader(body))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Payment Error"})
    }
    httpReq.Header.Set("Content-Type", "application/json")

    resp, err := h.Client.Do(httpReq)
    if err != nil {
        log.Printf("payment: gateway request failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Payment Error"})
    }
    defer resp.Body.Close()

    respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
    if err != nil {
        log.Printf("payment: read gateway response failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Payment Error"})
    }
    if resp.StatusCode < 200 || resp.StatusCode >= 300 {
        log.Printf("payment: gateway returned %d: %s", resp.StatusCode, respBody)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Payment Error"})
    }
    return c.JSONBlob(http.StatusOK, respBody)
}
