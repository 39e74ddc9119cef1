package core

import (
	"log"

	gomail "gopkg.in/gomail.v2"
)

// SendMail delivers a plain text mail through the configured smtp server.
// Used for password resets, nothing here blocks the request path for long
// because the caller runs it in a goroutine.
func SendMail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", Config.MailServer.SmtpUsername)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(Config.MailServer.SmtpHost, Config.MailServer.SmtpPort, Config.MailServer.SmtpUsername, Config.MailServer.SmtpPassword)

	if err := d.DialAndSend(m); err != nil {
		log.Println(err)
		return err
	}
	return nil
}
