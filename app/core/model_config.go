package core

// swagger:model
type Configuration struct {
	Database   ConfigurationDatabase   `json:"database"`
	Server     ConfigurationServer     `json:"server"`
	Storage    ConfigurationStorage    `json:"storage"`
	MailServer ConfigurationMailServer `json:"mail_server"`
	Cabinet    ConfigurationCabinet    `json:"cabinet"`
}

// swagger:model
type ConfigurationDatabase struct {
	Host          string `json:"host"`
	Database      string `json:"database"`
	User          string `json:"user"`
	Password      string `json:"password"`
	Port          int    `json:"port"`
	DoAutoMigrate bool   `json:"do_auto_migrate"`
	Debug         bool   `json:"debug"`
}

// swagger:model
type ConfigurationServer struct {
	Hostname     string `json:"hostname"`
	InternalPort int    `json:"internal_port"`
	WithSSL      bool   `json:"with_ssl"`
	SSLCertFile  string `json:"ssl_cert_file"`
	SSLKeyFile   string `json:"ssl_key_file"`
	TmpPath      string `json:"tmp_path"`
}

// ConfigurationStorage selects the record store backend at process start.
// Backend is "database" (MySQL) or "file" (local JSON cache, one file per
// entity under Path).
// swagger:model
type ConfigurationStorage struct {
	Backend string `json:"backend"`
	Path    string `json:"path"`
}

// swagger:model
type ConfigurationMailServer struct {
	SmtpHost     string `json:"smtp_host"`
	SmtpPort     int    `json:"smtp_port"`
	SmtpUsername string `json:"smtp_username"`
	SmtpPassword string `json:"smtp_password"`
}

// ConfigurationCabinet is printed on invoices and prescriptions.
// swagger:model
type ConfigurationCabinet struct {
	DoctorName   string `json:"doctor_name"`
	Speciality   string `json:"speciality"`
	Inpe         string `json:"inpe"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	Phone        string `json:"phone"`
}
