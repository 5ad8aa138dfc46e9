package rates

import (
	"context"
	"fmt"

	"github.com/markhub/markhub/pkg/apperr"
)

const (
	minVote = 1
	maxVote = 5
)

// Rating is the aggregated view merged into document DTOs.
type Rating struct {
	Avg   float64 `json:"avg"`
	Count int     `json:"count"`
}

// Record is one row of the document-rates collection: per-user votes keyed
// by rater uid.
type Record struct {
	Votes map[string]int `bson:"votes"`
}

// Rating aggregates the raw votes.
func (r Record) Rating() Rating {
	if len(r.Votes) == 0 {
		return Rating{}
	}
	sum := 0
	for _, v := range r.Votes {
		sum += v
	}
	return Rating{
		Avg:   float64(sum) / float64(len(r.Votes)),
		Count: len(r.Votes),
	}
}

// Repository persists one record per document id.
type Repository interface {
	// Get returns nil without error when the document has no votes yet.
	Get(ctx context.Context, docID string) (*Record, error)
	// SetVote upserts a single rater's vote.
	SetVote(ctx context.Context, docID, uid string, value int) error
}

// Service validates and applies votes.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Rate upserts the caller's vote and returns the merged rating.
func (s *Service) Rate(ctx context.Context, uid, docID string, value int) (Rating, error) {
	if value < minVote || value > maxVote {
		return Rating{}, apperr.InvalidArgument(fmt.Sprintf("vote must be between %d and %d", minVote, maxVote))
	}
	if err := s.repo.SetVote(ctx, docID, uid, value); err != nil {
		return Rating{}, apperr.Internal("failed to store vote")
	}
	rec, err := s.repo.Get(ctx, docID)
	if err != nil || rec == nil {
		return Rating{}, apperr.Internal("failed to read rating")
	}
	return rec.Rating(), nil
}

// Get returns the aggregated rating, or nil when the document has no votes.
func (s *Service) Get(ctx context.Context, docID string) (*Rating, error) {
	rec, err := s.repo.Get(ctx, docID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	r := rec.Rating()
	return &r, nil
}
