package payment

// payRequest is the payload PhonePe expects, base64-encoded under
// {"request": ...} and signed with X-VERIFY.
type payRequest struct {
	MerchantID            string            `json:"merchantId"`
	MerchantTransactionID string            `json:"merchantTransactionId"`
	MerchantUserID        string            `json:"merchantUserId"`
	Amount                int64             `json:"amount"`
	RedirectURL           string            `json:"redirectUrl"`
	RedirectMode          string            `json:"redirectMode"`
	CallbackURL           string            `json:"callbackUrl"`
	PaymentInstrument     paymentInstrument `json:"paymentInstrument"`
}

type paymentInstrument struct {
	Type string `json:"type"`
}

type payResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		InstrumentResponse struct {
			RedirectInfo struct {
				URL string `json:"url"`
			} `json:"redirectInfo"`
		} `json:"instrumentResponse"`
	} `json:"data"`
}

// CallbackResult is the decoded server-to-server callback body.
type CallbackResult struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Data    struct {
		MerchantTransactionID string `json:"merchantTransactionId"`
		MerchantUserID        string `json:"merchantUserId"`
	} `json:"data"`
}

// CodePaymentSuccess is the only code that confirms a collected payment.
const CodePaymentSuccess = "PAYMENT_SUCCESS"

func (c *CallbackResult) TransactionID() string {
	return c.Data.MerchantTransactionID
}

// Paid reports whether the callback confirms a successful payment.
func (c *CallbackResult) Paid() bool {
	return c.Success && c.Code == CodePaymentSuccess
}
