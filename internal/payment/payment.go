package payment

import (
	"context"
	"strings"
)

// Gateway starts a hosted-page payment and hands back the page URL the
// storefront redirects the buyer to.
type Gateway interface {
	CreatePayment(ctx context.Context, req CreatePaymentParams) (redirectURL string, err error)
}

type CreatePaymentParams struct {
	TransactionID string
	UserID        uint
	// AmountPaise is the charge in the gateway's minor unit (paise).
	AmountPaise int64
}

const merchantUserPrefix = "MUID"

// MerchantUserID tags the buyer id the way the gateway round-trips it.
func MerchantUserID(userID string) string {
	return merchantUserPrefix + userID
}

// BuyerID recovers the buyer id from a merchantUserId callback field.
func BuyerID(merchantUserID string) string {
	return strings.TrimPrefix(merchantUserID, merchantUserPrefix)
}
