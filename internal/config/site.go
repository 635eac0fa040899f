package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// SiteConfig carries the company branding printed on brochures, flyers and
// notification emails.
type SiteConfig struct {
	CompanyName string `mapstructure:"companyName"`
	Tagline     string `mapstructure:"tagline"`
	Phone       string `mapstructure:"phone"`
	Email       string `mapstructure:"email"`
	Address     string `mapstructure:"address"`
	Website     string `mapstructure:"website"`
	LogoPath    string `mapstructure:"logoPath"`
	FlyerTitle  string `mapstructure:"flyerTitle"`
	Disclaimer  string `mapstructure:"disclaimer"`
}

func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		CompanyName: "Homestead Builders",
		Tagline:     "Custom homes built for the way you live",
		FlyerTitle:  "Available Homes",
		Disclaimer:  "Prices, plans and specifications are subject to change without notice. Renderings are artist's conceptions.",
	}
}

type SiteConfigHolder struct {
	current atomic.Value // holds SiteConfig
}

// NewStaticSiteConfigHolder returns a holder that never reloads.
func NewStaticSiteConfigHolder(cfg SiteConfig) *SiteConfigHolder {
	holder := &SiteConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewSiteConfigHolder() (*SiteConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("site")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/homestead")
	v.AddConfigPath(".")

	v.SetEnvPrefix("HOMESTEAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultSiteConfig()
	v.SetDefault("site.companyName", defaults.CompanyName)
	v.SetDefault("site.tagline", defaults.Tagline)
	v.SetDefault("site.flyerTitle", defaults.FlyerTitle)
	v.SetDefault("site.disclaimer", defaults.Disclaimer)

	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		found = false
	}

	var cfg SiteConfig
	if err := v.UnmarshalKey("site", &cfg); err != nil {
		return nil, err
	}
	if err := validateSiteConfig(cfg); err != nil {
		return nil, err
	}

	holder := NewStaticSiteConfigHolder(cfg)
	if !found {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated SiteConfig
		if err := v.UnmarshalKey("site", &updated); err != nil {
			log.Printf("[site-config] reload failed: %v", err)
			return
		}
		if err := validateSiteConfig(updated); err != nil {
			log.Printf("[site-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[site-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *SiteConfigHolder) Get() SiteConfig {
	if h == nil {
		return DefaultSiteConfig()
	}
	cfg, ok := h.current.Load().(SiteConfig)
	if !ok {
		return DefaultSiteConfig()
	}
	return cfg
}

func validateSiteConfig(cfg SiteConfig) error {
	if strings.TrimSpace(cfg.CompanyName) == "" {
		return errors.New("site.companyName cannot be empty")
	}
	return nil
}
