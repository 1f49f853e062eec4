// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/nowa-systems/nowa-go/internal/application/services"
	"github.com/nowa-systems/nowa-go/internal/domain/entities/chat"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/caching/interfaces"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/caching/manager"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/email"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/messaging"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/logging"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/performance"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/persistence/escalations"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/ratelimit"
	"github.com/nowa-systems/nowa-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application services (stateless singletons)
	TriageService        *services.TriageService
	EscalationService    *services.EscalationService
	TranscriptionService *services.TranscriptionService

	// Infrastructure dependencies
	CacheController *manager.Controller
	PendingQueue    interfaces.PendingQueue
	EscalationLog   *escalations.Log
	EmailService    email.Service
	Broadcaster     *messaging.EscalationBroadcaster
	RateLimiter     ratelimit.Limiter
	Logger          *logging.ChanneledLogger
	PerfTracker     *performance.Tracker
}

// NewContainer creates and wires all singleton services
func NewContainer(
	controller *manager.Controller,
	queue interfaces.PendingQueue,
	emailService email.Service,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *Container {
	escalationLog := escalations.NewLog(config.EscalationLogPath, logger)
	broadcaster := messaging.NewEscalationBroadcaster(logger)

	kb := chat.DefaultKnowledgeBase()

	return &Container{
		TriageService: services.NewTriageService(
			chat.DefaultRules(kb),
			config.ConfidenceThreshold,
			logger,
			perfTracker,
		),
		EscalationService: services.NewEscalationService(
			escalationLog,
			emailService,
			broadcaster,
			config.WhatsAppNumber,
			logger,
			perfTracker,
		),
		TranscriptionService: services.NewTranscriptionService(config.AAIAPIKey, logger, perfTracker),

		CacheController: controller,
		PendingQueue:    queue,
		EscalationLog:   escalationLog,
		EmailService:    emailService,
		Broadcaster:     broadcaster,
		RateLimiter:     ratelimit.NewLimiter(config.RateLimitRedisAddr, config.RateLimitMax, config.RateLimitWindow),
		Logger:          logger,
		PerfTracker:     perfTracker,
	}
}
