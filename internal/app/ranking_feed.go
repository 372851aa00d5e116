package app

import (
	"context"
	"sync"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
	"github.com/golang/glog"
)

// RankingFeed pushes a recomputed ranking to subscribers after scored answers.
// Scoring only raises a flag; Run recomputes in the background, folding any
// answers scored meanwhile into a single recompute.
type RankingFeed struct {
	ranking *RankingService
	pending chan struct{}

	mu          sync.Mutex
	subscribers map[chan domain.RankingSnapshot]struct{}
}

func NewRankingFeed(ranking *RankingService) *RankingFeed {
	return &RankingFeed{
		ranking:     ranking,
		pending:     make(chan struct{}, 1),
		subscribers: make(map[chan domain.RankingSnapshot]struct{}),
	}
}

// Run publishes a fresh ranking whenever answers were scored since the last
// publish. It blocks until ctx is done.
func (f *RankingFeed) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-f.pending:
			if err := f.Publish(ctx); err != nil && ctx.Err() == nil {
				glog.Errorf("publish ranking: %v", err)
			}
		}
	}
}

// Subscribe returns a channel that receives ranking updates, starting with the current one.
// The caller must invoke the returned cancel function to avoid leaks.
func (f *RankingFeed) Subscribe(ctx context.Context) (<-chan domain.RankingSnapshot, func(), error) {
	initial, err := f.ranking.Snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	ch := make(chan domain.RankingSnapshot, 8)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	ch <- initial

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel, nil
}

// AnswerScored implements AnswerObserver. It never blocks the caller.
func (f *RankingFeed) AnswerScored(_ context.Context, _ int64, _ domain.AnswerResult) {
	select {
	case f.pending <- struct{}{}:
	default:
	}
}

// Publish recomputes the ranking and broadcasts it. Without subscribers it does nothing.
func (f *RankingFeed) Publish(ctx context.Context) error {
	if f.subscriberCount() == 0 {
		return nil
	}
	snap, err := f.ranking.Snapshot(ctx)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- snap:
		default:
			// drop the oldest queued snapshot so a slow reader never blocks the feed
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return nil
}

func (f *RankingFeed) subscriberCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}
