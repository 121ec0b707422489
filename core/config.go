package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host              string
		Port              string
		DebugHost         string
		ShutdownTimeout   time.Duration
		ReadHeaderTimeout time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          string
		DisableTLS    bool
	}

	MediaConfig struct {
		Root           string // filesystem root of the blob store
		PublicBaseURL  string // base URL public objects are served from
		TemplatePrefix string // object prefix the template artifacts live under
	}

	Config struct {
		Debug    bool
		TestMode bool
		Env      string
		Build    string
		AppName  string

		// SecretKey is shared with the identity provider's token issuer.
		SecretKey []byte

		FrontendBaseURL  string
		DefaultFromEmail mail.Address

		// AllowedEmailDomain is the single organizational domain sign-ins
		// are restricted to.
		AllowedEmailDomain string
		// AdminEmailMarkers upgrade a sign-in to admin when the email's
		// local part contains any of them.
		AdminEmailMarkers []string

		SendgridApiKey string
		RollbarToken   string

		Server   ServerConfig
		Database DatabaseConfig
		Media    MediaConfig
	}
)

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c ServerConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// NewConfig loads the app configuration: defaults first, then
// config/.env.<env> if it exists, then environment variables.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("build", "dev")
	conf.SetDefault("appName", "Karatasi")
	conf.SetDefault("secretKey", "w#3t-klp)axm$+91=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	conf.SetDefault("frontendBaseURL", "http://localhost:8080")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("allowedEmailDomain", "tp.edu.tw")
	conf.SetDefault("adminEmailMarkers", []string{"admin", "affair"})
	conf.SetDefault("serverHost", "0.0.0.0")
	conf.SetDefault("serverPort", "8000")
	conf.SetDefault("serverDebugHost", "0.0.0.0:4000")
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)
	conf.SetDefault("serverReadHeaderTimeout", 5*time.Second)
	conf.SetDefault("databaseEngine", "postgres")
	conf.SetDefault("databaseName", "karatasi")
	conf.SetDefault("databaseUser", "karatasi")
	conf.SetDefault("databasePassword", "karatasi")
	conf.SetDefault("databaseHost", "localhost")
	conf.SetDefault("databasePort", "5432")
	conf.SetDefault("databaseDisableTLS", true)
	conf.SetDefault("mediaRoot", filepath.Join(Getwd(), "media"))
	conf.SetDefault("mediaPublicBaseURL", "http://localhost:8000/media")
	conf.SetDefault("mediaTemplatePrefix", "templates")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	var testMode bool
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Debug:              conf.GetBool("debug"),
		TestMode:           testMode,
		Env:                env,
		Build:              conf.GetString("build"),
		AppName:            conf.GetString("appName"),
		SecretKey:          []byte(conf.GetString("secretKey")),
		FrontendBaseURL:    conf.GetString("frontendBaseURL"),
		DefaultFromEmail:   mail.Address{Address: conf.GetString("defaultFromEmail")},
		AllowedEmailDomain: conf.GetString("allowedEmailDomain"),
		AdminEmailMarkers:  conf.GetStringSlice("adminEmailMarkers"),
		SendgridApiKey:     conf.GetString("sendgridApiKey"),
		RollbarToken:       conf.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:              conf.GetString("serverHost"),
			Port:              conf.GetString("serverPort"),
			DebugHost:         conf.GetString("serverDebugHost"),
			ShutdownTimeout:   conf.GetDuration("serverShutdownTimeout"),
			ReadHeaderTimeout: conf.GetDuration("serverReadHeaderTimeout"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("databaseEngine"),
			Name:          conf.GetString("databaseName"),
			User:          conf.GetString("databaseUser"),
			Password:      conf.GetString("databasePassword"),
			AdminUser:     conf.GetString("databaseAdminUser"),
			AdminPassword: conf.GetString("databaseAdminPassword"),
			Host:          conf.GetString("databaseHost"),
			Port:          conf.GetString("databasePort"),
			DisableTLS:    conf.GetBool("databaseDisableTLS"),
		},
		Media: MediaConfig{
			Root:           conf.GetString("mediaRoot"),
			PublicBaseURL:  strings.TrimRight(conf.GetString("mediaPublicBaseURL"), "/"),
			TemplatePrefix: conf.GetString("mediaTemplatePrefix"),
		},
	}
}
