package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const emailFooter = "HouseFit Apartment Management System"

var layout = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: {{.Color}}; color: white; padding: 20px; text-align: center; }
    .content { background: #f9fafb; padding: 30px; }
    .footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header"><h1>{{.Heading}}</h1></div>
    <div class="content">
      <p>Dear {{.Name}},</p>
      {{range .Lines}}<p>{{.}}</p>
      {{end}}
    </div>
    <div class="footer"><p>{{.Footer}}</p></div>
  </div>
</body>
</html>`))

const (
	colorSuccess = "#10B981"
	colorDanger  = "#EF4444"
	colorInfo    = "#3B82F6"
	colorWarning = "#F59E0B"
)

type emailView struct {
	Color   string
	Heading string
	Name    string
	Lines   []string
	Footer  string
}

// Email is a rendered message ready for a Mailer.
type Email struct {
	Subject string
	HTML    string
}

func render(subject, color, heading, name string, lines ...string) Email {
	var buf bytes.Buffer
	view := emailView{Color: color, Heading: heading, Name: name, Lines: lines, Footer: emailFooter}
	if err := layout.Execute(&buf, view); err != nil {
		// The layout is static; a failure here means a programming error.
		panic(fmt.Sprintf("email layout: %v", err))
	}
	return Email{Subject: subject, HTML: buf.String()}
}

func formatDate(t time.Time) string {
	return t.Format("2 January 2006")
}

func PaymentVerifiedEmail(name, billMonth string, amount float64, transactionID string) Email {
	return render("Payment Verified - HouseFit", colorSuccess, "Payment Verified", name,
		"Your payment has been verified.",
		fmt.Sprintf("Bill month: %s", billMonth),
		fmt.Sprintf("Amount: %.2f BDT", amount),
		fmt.Sprintf("Transaction ID: %s", transactionID),
		"Thank you for paying on time.",
	)
}

func PaymentRejectedEmail(name, transactionID, reason string) Email {
	return render("Payment Rejected - HouseFit", colorDanger, "Payment Rejected", name,
		"We could not verify your payment.",
		fmt.Sprintf("Transaction ID: %s", transactionID),
		fmt.Sprintf("Reason: %s", reason),
		"Please check the transaction details and submit the payment again.",
	)
}

func BookingApprovedEmail(name, flatNumber string, requestedDate *time.Time) Email {
	date := "to be scheduled"
	if requestedDate != nil {
		date = formatDate(*requestedDate)
	}
	return render("Booking Request Approved - HouseFit", colorSuccess, "Booking Request Approved", name,
		"Your booking request has been approved.",
		fmt.Sprintf("Flat: %s", flatNumber),
		fmt.Sprintf("Viewing date: %s", date),
		"Our representative will contact you shortly.",
	)
}

func TreeApprovedEmail(name, location string, points int) Email {
	return render("Tree Plantation Approved - HouseFit", colorSuccess, "Tree Plantation Approved", name,
		"Your tree plantation has been verified and approved.",
		fmt.Sprintf("Location: %s", location),
		fmt.Sprintf("Points awarded: +%d", points),
		"Check the leaderboard to see your ranking. The top contributor receives a discount on their bill.",
	)
}

func LeaveApprovedEmail(name string, start, end time.Time) Email {
	return render("Leave Request Approved - HouseFit", colorInfo, "Leave Request Approved", name,
		"Your request to leave the flat has been approved.",
		fmt.Sprintf("Start date: %s", formatDate(start)),
		fmt.Sprintf("End date: %s", formatDate(end)),
		"Please settle any outstanding bills before moving out.",
	)
}

func BillGeneratedEmail(name, month string, total float64, dueDate time.Time) Email {
	return render("New Bill Generated - HouseFit", colorWarning, "New Bill Generated", name,
		fmt.Sprintf("Your bill for %s is ready.", month),
		fmt.Sprintf("Total amount: %.2f BDT", total),
		fmt.Sprintf("Due date: %s", formatDate(dueDate)),
		"Please pay before the due date and submit the transaction ID in the portal.",
	)
}

func ProblemAssignedEmail(name, title, category, priority string) Email {
	return render("New Task Assigned - HouseFit", colorInfo, "New Task Assigned", name,
		"A problem report has been assigned to you.",
		fmt.Sprintf("Title: %s", title),
		fmt.Sprintf("Category: %s", category),
		fmt.Sprintf("Priority: %s", priority),
	)
}

func PasswordResetEmail(name, link string) Email {
	return render("Reset your password - HouseFit", colorInfo, "Password Reset", name,
		"We received a request to reset your password.",
		fmt.Sprintf("Open this link to choose a new password: %s", link),
		"The link expires in 15 minutes. If you did not request a reset, ignore this email.",
	)
}
