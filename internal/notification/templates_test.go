package notification

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPaymentVerifiedEmail(t *testing.T) {
	e := PaymentVerifiedEmail("Rahim", "2024-03", 5500, "TX123")

	assert.NotEmpty(t, e.Subject)
	assert.Contains(t, e.HTML, "Rahim")
	assert.Contains(t, e.HTML, "TX123")
	assert.Contains(t, e.HTML, "HouseFit Apartment Management System")
}

func TestTemplatesEscapeUserInput(t *testing.T) {
	e := PaymentRejectedEmail("<script>x</script>", "TX1", "bad")

	assert.False(t, strings.Contains(e.HTML, "<script>x</script>"))
}

func TestBookingApprovedEmailWithoutDate(t *testing.T) {
	e := BookingApprovedEmail("Karim", "A-101", nil)
	assert.Contains(t, e.HTML, "A-101")

	d := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	e = BookingApprovedEmail("Karim", "A-101", &d)
	assert.Contains(t, e.HTML, "A-101")
}

func TestPlainText(t *testing.T) {
	got := plainText("<html><head><style>p{}</style></head><body><p>Hello <b>there</b></p></body></html>")
	assert.Equal(t, "Hello there", got)
}
