package payments

import (
	"net/url"
	"strconv"
)

// UPIParams describes a UPI deep-link payment request.
type UPIParams struct {
	PayeeVPA  string
	PayeeName string
	Amount    float64
	Note      string
}

// UPIDeepLink builds a upi://pay deep link for the given payment. It is
// pure string construction with no network call; all parameters are
// URL-encoded and the amount carries two decimals in INR.
func UPIDeepLink(p UPIParams) string {
	name := p.PayeeName
	if name == "" {
		name = "Tiffin Service"
	}
	note := p.Note
	if note == "" {
		note = "Tiffin order"
	}
	v := url.Values{}
	v.Set("pa", p.PayeeVPA)
	v.Set("pn", name)
	v.Set("am", strconv.FormatFloat(p.Amount, 'f', 2, 64))
	v.Set("cu", "INR")
	v.Set("tn", note)
	return "upi://pay?" + v.Encode()
}
