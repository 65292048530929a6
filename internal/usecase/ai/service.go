package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/Jawad-Naqvi/Call-Companion1/errors"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/entities"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/repositories"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/infrastructure/cache"
)

const (
	// maxContextChars bounds the call-history context included in prompts
	maxContextChars = 6000

	// contextCacheTTL keeps the assembled context hot between chat turns
	contextCacheTTL = 10 * time.Minute

	// degradedReply is returned when every model candidate fails
	degradedReply = "I'm having trouble reaching the AI service right now. " +
		"Your message was saved; please try again in a moment."
)

// TextGenerator produces model completions for a prompt
type TextGenerator interface {
	IsConfigured() bool
	GenerateContent(ctx context.Context, prompt string, temperature float64) (string, string, error)
}

// ChatService answers questions about a customer grounded on their call history
type ChatService struct {
	chatRepo     repositories.ChatRepository
	summaryRepo  repositories.SummaryRepository
	customerRepo repositories.CustomerRepository
	generator    TextGenerator
	cache        cache.Store
	logger       *zap.Logger
}

// NewChatService creates a new chat service
func NewChatService(
	chatRepo repositories.ChatRepository,
	summaryRepo repositories.SummaryRepository,
	customerRepo repositories.CustomerRepository,
	generator TextGenerator,
	cacheStore cache.Store,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		chatRepo:     chatRepo,
		summaryRepo:  summaryRepo,
		customerRepo: customerRepo,
		generator:    generator,
		cache:        cacheStore,
		logger:       logger,
	}
}

// ChatResult is the assistant's reply to a chat message
type ChatResult struct {
	Reply    string `json:"reply"`
	Model    string `json:"model,omitempty"`
	Degraded bool   `json:"degraded,omitempty"`
}

// Chat answers a question about a customer. The user message is always
// persisted; when the model is unreachable the reply degrades to a
// canned response instead of failing the request.
func (s *ChatService) Chat(ctx context.Context, requester *entities.User, customerID uuid.UUID, message string) (*ChatResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.ErrInvalidArgument("message is required")
	}

	customer, err := s.authorizeCustomer(ctx, requester, customerID)
	if err != nil {
		return nil, err
	}

	if !s.generator.IsConfigured() {
		return nil, apperrors.ErrAINotConfigured("gemini")
	}

	history, err := s.chatRepo.ListByCustomer(ctx, customerID, requester.ID, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	callContext, err := s.buildCallContext(ctx, customer)
	if err != nil {
		s.logger.Warn("failed to build call context, answering without it",
			zap.String("customer_id", customerID.String()), zap.Error(err))
		callContext = ""
	}

	userMsg := entities.NewChatMessage(customerID, requester.ID, message, entities.ChatSenderUser)
	if err := s.chatRepo.Create(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("failed to save chat message: %w", err)
	}

	prompt := buildChatPrompt(customer, callContext, history, message)

	reply, model, err := s.generator.GenerateContent(ctx, prompt, 0.7)
	if err != nil {
		s.logger.Error("chat generation failed, returning degraded reply",
			zap.String("customer_id", customerID.String()), zap.Error(err))

		aiMsg := entities.NewChatMessage(customerID, requester.ID, degradedReply, entities.ChatSenderAI)
		if err := s.chatRepo.Create(ctx, aiMsg); err != nil {
			return nil, fmt.Errorf("failed to save chat message: %w", err)
		}
		return &ChatResult{Reply: degradedReply, Degraded: true}, nil
	}

	reply = strings.TrimSpace(reply)
	aiMsg := entities.NewChatMessage(customerID, requester.ID, reply, entities.ChatSenderAI)
	if err := s.chatRepo.Create(ctx, aiMsg); err != nil {
		return nil, fmt.Errorf("failed to save chat message: %w", err)
	}

	return &ChatResult{Reply: reply, Model: model}, nil
}

// History returns the chat conversation about a customer, oldest first
func (s *ChatService) History(ctx context.Context, requester *entities.User, customerID uuid.UUID, limit int) ([]*entities.ChatMessage, error) {
	if _, err := s.authorizeCustomer(ctx, requester, customerID); err != nil {
		return nil, err
	}

	messages, err := s.chatRepo.ListByCustomer(ctx, customerID, requester.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	return messages, nil
}

// Ping reports whether the chat model is reachable from configuration
func (s *ChatService) Ping() map[string]interface{} {
	return map[string]interface{}{
		"configured": s.generator.IsConfigured(),
		"provider":   "gemini",
	}
}

func (s *ChatService) authorizeCustomer(ctx context.Context, requester *entities.User, customerID uuid.UUID) (*entities.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	if customer == nil {
		return nil, apperrors.ErrCustomerNotFound(customerID.String())
	}
	if !requester.IsAdmin() && customer.EmployeeID != requester.ID {
		return nil, apperrors.ErrForbidden("cannot chat about another employee's customer")
	}
	return customer, nil
}

// buildCallContext assembles the customer's call summaries into prompt
// context. The result is cached so consecutive chat turns skip the query.
func (s *ChatService) buildCallContext(ctx context.Context, customer *entities.Customer) (string, error) {
	key := contextCacheKey(customer.ID)

	if cached, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		return cached, nil
	}

	summaries, err := s.summaryRepo.ListByCustomer(ctx, customer.ID)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i, summary := range summaries {
		sb.WriteString(fmt.Sprintf("Call %d (%s):\n", i+1, summary.CreatedAt.Format("2006-01-02")))
		sb.WriteString(summary.Summary)
		sb.WriteString("\n")
		if summary.Sentiment != "" {
			sb.WriteString(fmt.Sprintf("Sentiment: %s\n", summary.Sentiment))
		}
		sb.WriteString("\n")
	}

	callContext := trimContext(sb.String(), maxContextChars)

	if err := s.cache.Set(ctx, key, callContext, contextCacheTTL); err != nil {
		s.logger.Warn("failed to cache call context", zap.Error(err))
	}

	return callContext, nil
}

// trimContext keeps the tail of the context, the most recent calls matter most
func trimContext(context string, limit int) string {
	if len(context) <= limit {
		return context
	}
	return context[len(context)-limit:]
}

func contextCacheKey(customerID uuid.UUID) string {
	return fmt.Sprintf("chat:context:%s", customerID)
}

func buildChatPrompt(customer *entities.Customer, callContext string, history []*entities.ChatMessage, message string) string {
	var sb strings.Builder

	sb.WriteString("You are a sales assistant helping an employee prepare for conversations with a customer.\n")
	sb.WriteString(fmt.Sprintf("Customer: %s (phone: %s, total calls: %d)\n\n", customer.DisplayName(), customer.PhoneNumber, customer.TotalCalls))

	if callContext != "" {
		sb.WriteString("Call history summaries:\n")
		sb.WriteString(callContext)
		sb.WriteString("\n")
	} else {
		sb.WriteString("No call summaries are available for this customer yet.\n\n")
	}

	if len(history) > 0 {
		sb.WriteString("Recent conversation:\n")
		for _, msg := range history {
			role := "Employee"
			if msg.Sender == entities.ChatSenderAI {
				role = "Assistant"
			}
			sb.WriteString(fmt.Sprintf("%s: %s\n", role, msg.Content))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Answer the employee's question using the call history above. Be concise and concrete.\n")
	sb.WriteString(fmt.Sprintf("Employee: %s\nAssistant:", message))

	return sb.String()
}
