package domain

// AppSettings is the admin-writable singleton. Only the identity fields
// are validated (non-empty); everything else is presentation data.
type AppSettings struct {
	AppName       string `validate:"required"`
	AppSlogan     string `validate:"required"`
	AppLogo       string `validate:"required"`
	HeaderColor   string
	BackgroundURL string
}

func DefaultSettings() AppSettings {
	return AppSettings{
		AppName:     "شات ريل العراق",
		AppSlogan:   "أكبر منصة دردشة عراقية متطورة",
		AppLogo:     "🇮🇶",
		HeaderColor: "bg-violet-950",
	}
}
