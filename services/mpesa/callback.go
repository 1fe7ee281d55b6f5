package mpesa

import (
	"fmt"
	"regexp"
	"strings"
)

// Callback is the body Daraja posts to the callback URL.
type Callback struct {
	Body struct {
		StkCallback STKCallback `json:"stkCallback"`
	} `json:"Body"`
}

type STKCallback struct {
	MerchantRequestID string            `json:"MerchantRequestID"`
	CheckoutRequestID string            `json:"CheckoutRequestID"`
	ResultCode        int               `json:"ResultCode"`
	ResultDesc        string            `json:"ResultDesc"`
	CallbackMetadata  *CallbackMetadata `json:"CallbackMetadata,omitempty"`
}

type CallbackMetadata struct {
	Item []CallbackItem `json:"Item"`
}

type CallbackItem struct {
	Name  string `json:"Name"`
	Value any    `json:"Value,omitempty"`
}

func (c STKCallback) Succeeded() bool { return c.ResultCode == 0 }

// Item returns the metadata value with the given name as a string.
func (c STKCallback) Item(name string) string {
	if c.CallbackMetadata == nil {
		return ""
	}
	for _, it := range c.CallbackMetadata.Item {
		if it.Name != name || it.Value == nil {
			continue
		}
		switch v := it.Value.(type) {
		case string:
			return v
		case float64:
			// JSON numbers; receipts and phones are integral
			return fmt.Sprintf("%.0f", v)
		default:
			return fmt.Sprint(v)
		}
	}
	return ""
}

func (c STKCallback) Receipt() string { return c.Item("MpesaReceiptNumber") }

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone converts Kenyan mobile numbers (07…, 01…, +254…, 254…, 7…)
// to the 2547XXXXXXXX / 2541XXXXXXXX form Daraja expects.
func NormalizePhone(phone string) (string, error) {
	digits := nonDigits.ReplaceAllString(strings.TrimSpace(phone), "")
	switch {
	case len(digits) == 12 && strings.HasPrefix(digits, "254"):
	case len(digits) == 10 && strings.HasPrefix(digits, "0"):
		digits = "254" + digits[1:]
	case len(digits) == 9:
		digits = "254" + digits
	default:
		return "", fmt.Errorf("invalid phone number %q", phone)
	}
	if digits[3] != '7' && digits[3] != '1' {
		return "", fmt.Errorf("invalid phone number %q", phone)
	}
	return digits, nil
}
