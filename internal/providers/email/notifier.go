package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallbiznis/homestead/internal/config"
	"go.uber.org/zap"
)

// LeadNotice is the contact form submission sent to the sales inbox.
type LeadNotice struct {
	Name      string
	Email     string
	Phone     string
	Interest  string
	Reference string
	Message   string
}

// ConfigurationNotice summarises a customer's submitted configuration.
type ConfigurationNotice struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	PlanName      string
	Message       string
	Selections    []SelectionLine
}

type SelectionLine struct {
	Category string
	Option   string
}

// Notifier delivers sales notifications.
type Notifier interface {
	LeadSubmitted(ctx context.Context, notice LeadNotice) error
	ConfigurationSubmitted(ctx context.Context, notice ConfigurationNotice) error
}

type salesNotifier struct {
	provider   Provider
	recipients []string
	site       *config.SiteConfigHolder
	log        *zap.Logger
}

func NewNotifier(cfg config.Config, provider Provider, site *config.SiteConfigHolder, log *zap.Logger) Notifier {
	return &salesNotifier{
		provider:   provider,
		recipients: cfg.Email.LeadNotify,
		site:       site,
		log:        log.Named("email.notifier"),
	}
}

func (n *salesNotifier) LeadSubmitted(ctx context.Context, notice LeadNotice) error {
	if len(n.recipients) == 0 {
		n.log.Debug("lead notification skipped, no recipients")
		return nil
	}
	site := n.site.Get()
	subject := fmt.Sprintf("[%s] New inquiry from %s", site.CompanyName, strings.TrimSpace(notice.Name))
	return n.provider.SendTemplate(ctx, n.recipients, subject, "lead_new", map[string]any{
		"Site":   site,
		"Notice": notice,
	})
}

func (n *salesNotifier) ConfigurationSubmitted(ctx context.Context, notice ConfigurationNotice) error {
	if len(n.recipients) == 0 {
		n.log.Debug("configuration notification skipped, no recipients")
		return nil
	}
	site := n.site.Get()
	subject := fmt.Sprintf("[%s] %s configured the %s", site.CompanyName, strings.TrimSpace(notice.CustomerName), notice.PlanName)
	return n.provider.SendTemplate(ctx, n.recipients, subject, "configuration_new", map[string]any{
		"Site":   site,
		"Notice": notice,
	})
}
