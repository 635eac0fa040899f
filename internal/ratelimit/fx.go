package ratelimit

import "go.uber.org/fx"

var Module = fx.Module("rate.limit",
	fx.Provide(NewSubmissionLimiter),
	fx.Provide(func(l *SubmissionLimiter) SubmissionGuard { return l }),
)
