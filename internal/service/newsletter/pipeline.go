package newsletter

import (
	"bytes"
	"context"
	"html/template"
	netmail "net/mail"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/21haoxingxiu/core/internal/config"
	"github.com/21haoxingxiu/core/internal/domain"
	"github.com/21haoxingxiu/core/internal/event"
	"github.com/21haoxingxiu/core/internal/mail"
	"github.com/21haoxingxiu/core/internal/model"
	"github.com/21haoxingxiu/core/internal/service/subscribe"
)

const TemplateNewsletter = "newsletter"

// Subscribers is the part of the registry the fan-out reads.
type Subscribers interface {
	Snapshot() []subscribe.Entry
	UnsubscribeLink(ctx context.Context, email string) (string, error)
}

// Pipeline mails subscribers when a post or note is published.
type Pipeline struct {
	cfg       *config.Config
	subs      Subscribers
	sender    mail.Sender
	templates *mail.Templates
	chain     *Chain
	log       *zap.Logger
}

func NewPipeline(cfg *config.Config, registry *subscribe.Registry, sender mail.Sender, templates *mail.Templates, logger *zap.Logger) *Pipeline {
	return newPipeline(cfg, registry, sender, templates, logger)
}

func newPipeline(cfg *config.Config, subs Subscribers, sender mail.Sender, templates *mail.Templates, logger *zap.Logger) *Pipeline {
	p := &Pipeline{
		cfg:       cfg,
		subs:      subs,
		sender:    sender,
		templates: templates,
		log:       logger,
	}
	p.chain = NewChain(p.precheck, p.fanOut)
	templates.Register(TemplateNewsletter, defaultProps(model.Owner{Name: cfg.OwnerName, Avatar: cfg.OwnerAvatar}))
	return p
}

// Register subscribes the pipeline to content creation events.
func (p *Pipeline) Register(bus *event.Bus) {
	bus.On(event.KindPostCreated, p.Handle, event.ScopeVisitor)
	bus.On(event.KindNoteCreated, p.Handle, event.ScopeVisitor)
}

// Handle runs the pipeline for one content event. The bus already calls it
// on its own goroutine.
func (p *Pipeline) Handle(ctx context.Context, e event.Event) {
	var content model.Content
	if err := e.Decode(&content); err != nil {
		p.log.Error("newsletter event malformed", zap.String("kind", string(e.Kind)), zap.Error(err))
		return
	}
	p.Publish(ctx, content)
}

func (p *Pipeline) Publish(ctx context.Context, content model.Content) *Run {
	run := &Run{Content: content}
	state := p.chain.Start(ctx, run)
	NewsletterRuns.WithLabelValues(state.String()).Inc()
	p.log.Info("newsletter run finished",
		zap.String("kind", content.Kind),
		zap.Int64("id", content.ID),
		zap.String("state", state.String()),
		zap.Int64("sent", run.Sent()),
		zap.Int64("failed", run.Failed()),
	)
	return run
}

// precheck aborts unless the subscription feature is on and mail has a
// transport to deliver through.
func (p *Pipeline) precheck(_ context.Context, _ *Run) Result {
	if p.cfg.FeatureEmailSubscribe && p.cfg.MailEnable && p.cfg.MailHost != "" {
		return Continue
	}
	return Abort
}

func (p *Pipeline) fanOut(ctx context.Context, run *Run) Result {
	run.State = StateFanningOut

	bit := domain.SubscribeBitForKind(run.Content.Kind)
	tpl, err := p.templates.Compile(TemplateNewsletter)
	if err != nil {
		// Every recipient of this run is undeliverable, which is a failed
		// delivery rather than a skipped run.
		p.log.Error("newsletter template unavailable", zap.Error(err))
		for _, entry := range p.subs.Snapshot() {
			if entry.Subscribe&bit != 0 {
				run.failed.Add(1)
				NewsletterFailed.Inc()
			}
		}
		return Continue
	}
	defaults := p.defaults()

	limit := p.cfg.MailConcurrency
	if limit <= 0 {
		limit = 1
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for _, entry := range p.subs.Snapshot() {
		if entry.Subscribe&bit == 0 {
			continue
		}
		link, err := p.subs.UnsubscribeLink(ctx, entry.Email)
		if err != nil {
			run.failed.Add(1)
			NewsletterFailed.Inc()
			p.log.Error("resolve unsubscribe link failed", zap.String("email", entry.Email), zap.Error(err))
			continue
		}
		if link == "" {
			p.log.Debug("subscriber has no unsubscribe link, skipping", zap.String("email", entry.Email))
			continue
		}

		email := entry.Email
		props := p.props(defaults, run.Content, email, entry.Subscribe, link)
		g.Go(func() error {
			if err := p.send(ctx, tpl, email, props); err != nil {
				run.failed.Add(1)
				NewsletterFailed.Inc()
				p.log.Warn("newsletter send failed", zap.String("email", email), zap.Error(err))
				return nil
			}
			run.sent.Add(1)
			NewsletterSent.Inc()
			return nil
		})
	}
	_ = g.Wait()
	return Continue
}

func (p *Pipeline) defaults() RenderProps {
	if v, ok := p.templates.Defaults(TemplateNewsletter); ok {
		if props, ok := v.(RenderProps); ok {
			return props
		}
	}
	return defaultProps(model.Owner{Name: p.cfg.OwnerName, Avatar: p.cfg.OwnerAvatar})
}

func (p *Pipeline) send(ctx context.Context, tpl *template.Template, email string, props RenderProps) error {
	var body bytes.Buffer
	if err := tpl.Execute(&body, props); err != nil {
		return err
	}

	if p.cfg.MailSendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.MailSendTimeout)
		defer cancel()
	}
	return p.sender.Send(ctx, mail.Message{
		From:    (&netmail.Address{Name: p.cfg.SEOTitle, Address: p.cfg.MailUser}).String(),
		To:      email,
		Subject: "[" + p.cfg.SEOTitle + "] published new content",
		HTML:    body.String(),
	})
}
