package service

import (
	"context"

	"go.uber.org/zap"

	"partyvote/internal/domain"
)

// Notifier delivers vote code request decisions to the requester. Actual
// delivery (mail, push) happens in another system; the default
// implementation just leaves an audit trail in the log.
type Notifier interface {
	VoteCodeRequestApproved(ctx context.Context, req domain.VoteCodeRequest)
	VoteCodeRequestRejected(ctx context.Context, req domain.VoteCodeRequest)
}

type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) VoteCodeRequestApproved(_ context.Context, req domain.VoteCodeRequest) {
	zap.L().Info("vote code request approved",
		zap.Uint("request_id", req.ID),
		zap.Uint("event_id", req.EventID),
		zap.Uint("user_id", req.UserID),
	)
}

func (n *LogNotifier) VoteCodeRequestRejected(_ context.Context, req domain.VoteCodeRequest) {
	zap.L().Info("vote code request rejected",
		zap.Uint("request_id", req.ID),
		zap.Uint("event_id", req.EventID),
		zap.Uint("user_id", req.UserID),
	)
}
