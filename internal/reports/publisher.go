package reports

import (
	"context"
	"errors"
	"fmt"
	"panelkeeper/internal/models"
	"panelkeeper/internal/notify"
	"panelkeeper/internal/providers"
	"panelkeeper/internal/services"
	"panelkeeper/internal/structures"
	"sync"
	"time"
)

type PublisherInterface interface {
	// PostDashboard sends a fresh dashboard message and makes it the live one.
	PostDashboard(ctx context.Context) (string, error)
	// RefreshDashboard edits the live dashboard. A message deleted on the
	// other side clears the stored reference.
	RefreshDashboard(ctx context.Context) error
	SendDailyReport(ctx context.Context, archive *models.Archive) error
	SendReminder(ctx context.Context, pending int, now time.Time) error
}

type Publisher struct {
	service  services.PanelServiceInterface
	notifier notify.Notifier
	logger   providers.Logger
	timeout  time.Duration
	mu       sync.Mutex
}

func NewPublisher(conf *structures.Config, service services.PanelServiceInterface, notifier notify.Notifier, logger providers.Logger) PublisherInterface {
	p := &Publisher{
		service:  service,
		notifier: notifier,
		logger:   logger,
		timeout:  conf.Notifier.Timeout,
	}
	service.OnReset(func(archive *models.Archive) {
		ctx, cancel := p.context()
		defer cancel()
		if err := p.SendDailyReport(ctx, archive); err != nil {
			logger.Errorf(providers.TypeApp, "Daily report for %s: %s", archive.Date, err)
		}
	})
	return p
}

func (p *Publisher) context() (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	// Leave room for the webhook client's own retries.
	return context.WithTimeout(context.Background(), 4*p.timeout)
}

func (p *Publisher) PostDashboard(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id, err := p.notifier.Send(ctx, RenderDashboard(p.service.Summary()))
	if err != nil {
		return "", fmt.Errorf("post dashboard: %w", err)
	}
	if id == "" {
		return "", nil
	}
	if err := p.service.SetDashboardRef(id); err != nil {
		return id, err
	}
	p.logger.Infof(providers.TypeApp, "Dashboard posted as %s", id)
	return id, nil
}

func (p *Publisher) RefreshDashboard(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ref := p.service.DashboardRef()
	if ref == "" {
		return nil
	}

	err := p.notifier.Edit(ctx, ref, RenderDashboard(p.service.Summary()))
	if errors.Is(err, notify.ErrMessageNotFound) {
		p.logger.Warnf(providers.TypeApp, "Dashboard message %s is gone, clearing reference", ref)
		return p.service.SetDashboardRef("")
	}
	if err != nil {
		return fmt.Errorf("refresh dashboard: %w", err)
	}
	return nil
}

func (p *Publisher) SendDailyReport(ctx context.Context, archive *models.Archive) error {
	if archive == nil {
		return nil
	}
	if _, err := p.notifier.Send(ctx, RenderDailyReport(archive)); err != nil {
		return fmt.Errorf("send daily report: %w", err)
	}
	p.logger.Infof(providers.TypeApp, "Daily report for %s sent", archive.Date)
	return nil
}

func (p *Publisher) SendReminder(ctx context.Context, pending int, now time.Time) error {
	if pending <= 0 {
		return nil
	}
	if _, err := p.notifier.Send(ctx, RenderReminder(pending, now)); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}
	p.logger.Infof(providers.TypeApp, "Reminder sent for %d panel(s)", pending)
	return nil
}
