package core

import (
	"os"
	"strconv"
)

func GetEnvironmentConfig(c *Configuration) {
	if os.Getenv("DATABASE_HOST") != "" {
		c.Database.Host = os.Getenv("DATABASE_HOST")
	}
	if os.Getenv("DATABASE_DATABASE") != "" {
		c.Database.Database = os.Getenv("DATABASE_DATABASE")
	}
	if os.Getenv("DATABASE_USER") != "" {
		c.Database.User = os.Getenv("DATABASE_USER")
	}
	if os.Getenv("DATABASE_PASSWORD") != "" {
		c.Database.Password = os.Getenv("DATABASE_PASSWORD")
	}
	if os.Getenv("DATABASE_PORT") != "" {
		c.Database.Port, _ = strconv.Atoi(os.Getenv("DATABASE_PORT"))
	}
	if os.Getenv("DATABASE_DO_AUTO_MIGRATE") != "" {
		c.Database.DoAutoMigrate, _ = strconv.ParseBool(os.Getenv("DATABASE_DO_AUTO_MIGRATE"))
	}
	if os.Getenv("DATABASE_DEBUG") != "" {
		c.Database.Debug, _ = strconv.ParseBool(os.Getenv("DATABASE_DEBUG"))
	}

	if os.Getenv("SERVER_HOSTNAME") != "" {
		c.Server.Hostname = os.Getenv("SERVER_HOSTNAME")
	}
	if os.Getenv("SERVER_INTERNAL_PORT") != "" {
		c.Server.InternalPort, _ = strconv.Atoi(os.Getenv("SERVER_INTERNAL_PORT"))
	}
	if os.Getenv("SERVER_WITH_SSL") != "" {
		c.Server.WithSSL, _ = strconv.ParseBool(os.Getenv("SERVER_WITH_SSL"))
	}
	if os.Getenv("SERVER_SSL_CERT_FILE") != "" {
		c.Server.SSLCertFile = os.Getenv("SERVER_SSL_CERT_FILE")
	}
	if os.Getenv("SERVER_SSL_KEY_FILE") != "" {
		c.Server.SSLKeyFile = os.Getenv("SERVER_SSL_KEY_FILE")
	}
	if os.Getenv("SERVER_TMP_PATH") != "" {
		c.Server.TmpPath = os.Getenv("SERVER_TMP_PATH")
	}

	if os.Getenv("STORAGE_BACKEND") != "" {
		c.Storage.Backend = os.Getenv("STORAGE_BACKEND")
	}
	if os.Getenv("STORAGE_PATH") != "" {
		c.Storage.Path = os.Getenv("STORAGE_PATH")
	}

	if os.Getenv("MAIL_SERVER_SMTP_HOST") != "" {
		c.MailServer.SmtpHost = os.Getenv("MAIL_SERVER_SMTP_HOST")
	}
	if os.Getenv("MAIL_SERVER_SMTP_PORT") != "" {
		c.MailServer.SmtpPort, _ = strconv.Atoi(os.Getenv("MAIL_SERVER_SMTP_PORT"))
	}
	if os.Getenv("MAIL_SERVER_SMTP_USERNAME") != "" {
		c.MailServer.SmtpUsername = os.Getenv("MAIL_SERVER_SMTP_USERNAME")
	}
	if os.Getenv("MAIL_SERVER_SMTP_PASSWORD") != "" {
		c.MailServer.SmtpPassword = os.Getenv("MAIL_SERVER_SMTP_PASSWORD")
	}

	if os.Getenv("CABINET_DOCTOR_NAME") != "" {
		c.Cabinet.DoctorName = os.Getenv("CABINET_DOCTOR_NAME")
	}
	if os.Getenv("CABINET_SPECIALITY") != "" {
		c.Cabinet.Speciality = os.Getenv("CABINET_SPECIALITY")
	}
	if os.Getenv("CABINET_INPE") != "" {
		c.Cabinet.Inpe = os.Getenv("CABINET_INPE")
	}
}
