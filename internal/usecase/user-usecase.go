package usecase

import (
	"strings"

	"github.com/iamvkosarev/zenith-ai/internal/model"
	"github.com/iamvkosarev/zenith-ai/internal/storage"
	"github.com/iamvkosarev/zenith-ai/pkg/local"
)

func (s *SessionUsecase) User() model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User
}

// SetNickname ignores blank names.
func (s *SessionUsecase) SetNickname(nickname string) bool {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return false
	}
	s.mutate(func(state *storage.State) bool {
		state.User.Nickname = nickname
		return true
	})
	return true
}

func (s *SessionUsecase) CompleteOnboarding() {
	s.mutate(func(state *storage.State) bool {
		if state.User.OnboardingSeen {
			return false
		}
		state.User.OnboardingSeen = true
		return true
	})
}

// RecordCompletedRequest counts one successful generation made with preset.
func (s *SessionUsecase) RecordCompletedRequest(preset model.Preset) {
	s.mutate(func(state *storage.State) bool {
		state.User.Stats.TotalRequests++
		state.User.Stats.FavMode = preset.Name.Text(local.Eng)
		return true
	})
}
