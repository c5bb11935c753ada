package email

import (
	"context"
	"fmt"
	"net/smtp"
)

// CheckoutEmailData carries everything a lending notification needs.
type CheckoutEmailData struct {
	To        string
	BookTitle string
	ActorName string
	Returned  bool
}

type EmailService interface {
	SendCheckoutNotification(ctx context.Context, data CheckoutEmailData) error
}

type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
}

func NewSMTPEmailService(host, port, from string) EmailService {
	return &smtpEmailService{
		smtpAddr: host + ":" + port,
		smtpFrom: from,
	}
}

func (s *smtpEmailService) SendCheckoutNotification(ctx context.Context, data CheckoutEmailData) error {
	subject := fmt.Sprintf("Your book %q was checked out", data.BookTitle)
	action := "checked out"
	if data.Returned {
		subject = fmt.Sprintf("Your book %q was returned", data.BookTitle)
		action = "returned"
	}

	body := fmt.Sprintf(`Hello,

%s has %s your book %q.

You can review the full lending history in your library account.`,
		data.ActorName, action, data.BookTitle)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.smtpFrom, data.To, subject, body))

	return smtp.SendMail(s.smtpAddr, nil, s.smtpFrom, []string{data.To}, msg)
}
