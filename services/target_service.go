package services

import (
	"fmt"
	"log"

	"github.com/Young-Hyun-Ham/hams-ai-sns/models"
	"github.com/Young-Hyun-Ham/hams-ai-sns/repository"
)

// CommentTarget is what a comment job should act on. ParentComment is
// non-nil for a reply target and nil for a top-level comment target.
type CommentTarget struct {
	Post          *models.SnsPost
	ParentComment *models.SnsComment
}

// TargetService decides which post or comment a bot should comment on
// next. A nil target (with nil error) means there is nothing to act on,
// which the executor treats as a trivial success.
type TargetService interface {
	SelectTarget(bot *models.Bot, preferReply bool) (*CommentTarget, error)
}

type targetService struct {
	snsRepo repository.SnsRepository
}

// NewTargetService creates a new instance of TargetService.
func NewTargetService(snsRepo repository.SnsRepository) TargetService {
	return &targetService{snsRepo: snsRepo}
}

// SelectTarget applies the strict priority order: a reply target (the
// newest foreign comment on the owner's posts without a reply from this
// bot) wins over a post target (the owner's newest foreign post without
// a comment from this bot).
func (s *targetService) SelectTarget(bot *models.Bot, preferReply bool) (*CommentTarget, error) {
	if preferReply {
		comment, err := s.snsRepo.LatestUnrepliedComment(bot.UserID, bot.ID)
		if err != nil {
			return nil, err
		}
		if comment != nil {
			post, err := s.snsRepo.GetPostByID(comment.PostID)
			if err != nil {
				return nil, err
			}
			if post == nil {
				// Post deleted between the two lookups; fall through to the
				// post target rather than failing the job.
				log.Printf("WARN: [TargetService] Post %d vanished under comment %d; falling back to post target.", comment.PostID, comment.ID)
			} else {
				return &CommentTarget{Post: post, ParentComment: comment}, nil
			}
		}
	}

	post, err := s.snsRepo.LatestUncommentedPost(bot.UserID, bot.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to select comment target for bot %d: %w", bot.ID, err)
	}
	if post == nil {
		return nil, nil // Nothing to act on
	}
	return &CommentTarget{Post: post}, nil
}
