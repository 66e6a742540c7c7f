package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/repository"
)

type ChatService interface {
	// History returns the stored transcript, or the coach's greeting when
	// nothing has been said yet. The greeting is not stored.
	History(ctx context.Context, userID string) ([]domain.ChatMessage, error)
	// Send appends message and the coach's reply to the transcript and
	// returns the updated transcript.
	Send(ctx context.Context, userID, message string) ([]domain.ChatMessage, error)
}

type chatService struct {
	userRepo repository.UserRepository
	chatRepo repository.ChatRepository
	coach    PlanCoach
}

func NewChatService(repos repository.Repositories, coach PlanCoach) ChatService {
	return &chatService{userRepo: repos.Users, chatRepo: repos.Chats, coach: coach}
}

func (s *chatService) History(ctx context.Context, userID string) ([]domain.ChatMessage, error) {
	history, err := s.chatRepo.Get(ctx, userID)
	if err != nil || len(history) > 0 {
		return history, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return []domain.ChatMessage{Greeting(user.Profile)}, nil
}

// Greeting is the coach's opening line for an empty conversation.
func Greeting(profile *domain.Profile) domain.ChatMessage {
	name := "there"
	if profile != nil && profile.Name != "" {
		name = profile.Name
	}
	return domain.ChatMessage{
		Role: domain.RoleModel,
		Text: fmt.Sprintf("Hi %s! I'm your AI coach. How can I help you today?", name),
	}
}

// Send stores the user's message before calling the coach, so it survives a
// failed reply.
func (s *chatService) Send(ctx context.Context, userID, message string) ([]domain.ChatMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", ErrInvalidInput)
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.HasProfile() {
		return nil, ErrProfileRequired
	}

	history, err := s.chatRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	history = append(history, domain.ChatMessage{Role: domain.RoleUser, Text: message})
	if err := s.chatRepo.Save(ctx, userID, history); err != nil {
		return nil, err
	}

	reply, err := s.coach.Chat(ctx, history, message, user.Profile)
	if err != nil {
		log.Printf("ERROR: Coach reply for user %s failed: %v", userID, err)
		return history, err
	}
	history = append(history, domain.ChatMessage{Role: domain.RoleModel, Text: reply})
	if err := s.chatRepo.Save(ctx, userID, history); err != nil {
		return nil, err
	}
	return history, nil
}
