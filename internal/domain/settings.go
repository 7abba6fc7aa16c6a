package domain

import "time"

// PaymentSettings holds the payment processor credentials.
type PaymentSettings struct {
	ID             string
	SecretKey      string
	PublishableKey string
	CreatedAt      time.Time
}

// EmailSettings holds the SMTP credentials and the address that receives
// order confirmations.
type EmailSettings struct {
	ID        string
	SMTPHost  string
	SMTPPort  int
	Username  string
	Password  string
	Sender    string
	Recipient string
}
