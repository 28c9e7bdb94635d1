// Package analytics reduces the attempt log into per-topic accuracy for
// a single learner. Results are computed fresh on every call: the log is
// append-only and cheap to re-scan at the volumes this system targets.
package analytics

import (
	"context"
	"sort"

	"github.com/UgwuGeorge/Past-Questions/internal/quiz"
)

// AttemptSource is the slice of the attempt log the aggregator reads.
type AttemptSource interface {
	ByLearner(ctx context.Context, learnerID int64) ([]quiz.Attempt, error)
}

// Service aggregates learner weakness from attempt history.
type Service struct {
	attempts AttemptSource
}

// NewService creates an analytics service over the given attempt source.
func NewService(attempts AttemptSource) *Service {
	return &Service{attempts: attempts}
}

// WeakTopics returns per-topic accuracy for the learner as a ratio in
// [0,1]. A topic with one attempt and one correct answer has accuracy
// 1.0; there is no smoothing. An empty map means no history, which is a
// condition ("insufficient history"), not an error.
func (s *Service) WeakTopics(ctx context.Context, learnerID int64) (map[string]quiz.TopicStats, error) {
	attempts, err := s.attempts.ByLearner(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	stats := make(map[string]quiz.TopicStats, 8)
	for _, a := range attempts {
		ts := stats[a.Topic]
		ts.Total++
		if a.Correct {
			ts.Correct++
		}
		stats[a.Topic] = ts
	}
	return stats, nil
}

// WeakestTopic returns the topic with the lowest accuracy and that
// accuracy. When several topics tie at the minimum, the
// lexicographically-first topic name wins, so repeated calls against an
// unchanged log are reproducible. Returns quiz.ErrEmptyHistory when the
// learner has no attempts.
func (s *Service) WeakestTopic(ctx context.Context, learnerID int64) (string, float64, error) {
	stats, err := s.WeakTopics(ctx, learnerID)
	if err != nil {
		return "", 0, err
	}
	if len(stats) == 0 {
		return "", 0, quiz.ErrEmptyHistory
	}

	topics := make([]string, 0, len(stats))
	for topic := range stats {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	weakest := topics[0]
	lowest := stats[weakest].Accuracy()
	for _, topic := range topics[1:] {
		if acc := stats[topic].Accuracy(); acc < lowest {
			weakest, lowest = topic, acc
		}
	}
	return weakest, lowest, nil
}
