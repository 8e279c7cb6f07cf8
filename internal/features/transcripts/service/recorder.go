package service

import (
	"context"
	"time"

	"support-bridge/internal/core/logger"
	"support-bridge/internal/features/transcripts/domain"
	"support-bridge/internal/features/transcripts/ports"

	"go.uber.org/zap"
)

// IssueTracker is the persistence surface the recorder needs.
type IssueTracker interface {
	Load() []domain.Issue
	Save(issues []domain.Issue) error
}

// RecordOptions control how a report run behaves.
type RecordOptions struct {
	// Delete removes technical-error conversations from the platform.
	Delete bool
	// DryRun reports what would happen without writing or deleting.
	DryRun bool
}

// RecordSummary is the outcome of one report run.
type RecordSummary struct {
	NewIssues           int
	DeletionsAttempted  int
	DeletionsSuccessful int
}

// Recorder merges analysis reports into the issue tracker and optionally
// scrubs technical errors from the conversation platform.
type Recorder struct {
	exporter ports.ConvoExporter
	store    IssueTracker
	now      func() time.Time
}

// NewRecorder creates a new instance of Recorder.
func NewRecorder(exporter ports.ConvoExporter, store IssueTracker) *Recorder {
	return &Recorder{exporter: exporter, store: store, now: time.Now}
}

// Record merges flagged report items into the tracker. Already-tracked
// technical errors that were never scrubbed are retried when deletion is on.
func (r *Recorder) Record(ctx context.Context, items []domain.ReportItem, opts RecordOptions) (*RecordSummary, error) {
	tracker := r.store.Load()
	byID := make(map[string]int, len(tracker))
	for i := range tracker {
		byID[tracker[i].ID] = i
	}

	summary := &RecordSummary{}
	changed := false

	for _, item := range items {
		if !item.Flagged() {
			continue
		}

		if idx, ok := byID[item.ID]; ok {
			existing := &tracker[idx]
			if existing.IsTechnicalError && !existing.DeletedFromFrontend && opts.Delete && !opts.DryRun {
				logger.Get().Info("Retrying deletion for tracked technical error",
					zap.String("convo_id", item.ID))
				summary.DeletionsAttempted++
				if r.delete(ctx, item.ID) {
					existing.DeletedFromFrontend = true
					summary.DeletionsSuccessful++
					changed = true
				}
			}
			continue
		}

		if opts.DryRun {
			logger.Get().Info("Dry run: would log issue",
				zap.String("convo_id", item.ID),
				zap.Bool("technical_error", item.IsTechnicalError),
			)
			continue
		}

		issue := domain.NewIssue(item, r.now())
		if item.IsTechnicalError && opts.Delete {
			summary.DeletionsAttempted++
			if r.delete(ctx, item.ID) {
				issue.DeletedFromFrontend = true
				summary.DeletionsSuccessful++
			}
		}

		logger.Get().Info("Logging new issue",
			zap.String("convo_id", item.ID),
			zap.Bool("technical_error", item.IsTechnicalError),
		)
		tracker = append(tracker, issue)
		byID[issue.ID] = len(tracker) - 1
		summary.NewIssues++
		changed = true
	}

	if changed {
		if err := r.store.Save(tracker); err != nil {
			return nil, err
		}
	}
	return summary, nil
}

// CountByMonth tallies exported conversations per start month.
func (r *Recorder) CountByMonth(ctx context.Context) (map[string]int, error) {
	convos, err := r.exporter.Export(ctx, 0)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, convo := range convos {
		if month := convo.Month(); month != "" {
			counts[month]++
		}
	}
	return counts, nil
}

func (r *Recorder) delete(ctx context.Context, convoID string) bool {
	if err := r.exporter.Delete(ctx, convoID); err != nil {
		logger.Get().Error("Conversation deletion failed",
			zap.String("convo_id", convoID),
			zap.Error(err),
		)
		return false
	}
	return true
}
