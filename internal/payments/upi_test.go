package payments

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUPIDeepLink(t *testing.T) {
	link := UPIDeepLink(UPIParams{
		PayeeVPA:  "sharmatiffin@upi",
		PayeeName: "Sharma Tiffin",
		Amount:    220,
		Note:      "Order abc123",
	})
	require.True(t, strings.HasPrefix(link, "upi://pay?"), "link = %s", link)

	q, err := url.ParseQuery(strings.TrimPrefix(link, "upi://pay?"))
	require.NoError(t, err)
	assert.Equal(t, "sharmatiffin@upi", q.Get("pa"))
	assert.Equal(t, "Sharma Tiffin", q.Get("pn"))
	assert.Equal(t, "220.00", q.Get("am"))
	assert.Equal(t, "INR", q.Get("cu"))
	assert.Equal(t, "Order abc123", q.Get("tn"))
}

func TestUPIDeepLinkEncodesParams(t *testing.T) {
	link := UPIDeepLink(UPIParams{
		PayeeVPA:  "shop&co@upi",
		PayeeName: "Shop & Co #1",
		Amount:    99.5,
		Note:      "Order a/b?c",
	})
	// Raw reserved characters must not survive encoding.
	assert.NotContains(t, link, " ")
	assert.NotContains(t, link, "#")

	q, err := url.ParseQuery(strings.TrimPrefix(link, "upi://pay?"))
	require.NoError(t, err)
	assert.Equal(t, "shop&co@upi", q.Get("pa"))
	assert.Equal(t, "Shop & Co #1", q.Get("pn"))
	assert.Equal(t, "99.50", q.Get("am"))
	assert.Equal(t, "Order a/b?c", q.Get("tn"))
}

func TestUPIDeepLinkDefaults(t *testing.T) {
	link := UPIDeepLink(UPIParams{PayeeVPA: "x@upi", Amount: 10})
	q, err := url.ParseQuery(strings.TrimPrefix(link, "upi://pay?"))
	require.NoError(t, err)
	assert.Equal(t, "Tiffin Service", q.Get("pn"))
	assert.Equal(t, "Tiffin order", q.Get("tn"))
}

func TestUPIDeepLinkDeterministic(t *testing.T) {
	p := UPIParams{PayeeVPA: "x@upi", PayeeName: "X", Amount: 123.45, Note: "Order n1"}
	assert.Equal(t, UPIDeepLink(p), UPIDeepLink(p))
}
