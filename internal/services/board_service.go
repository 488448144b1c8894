package services

import (
	"errors"
	"fmt"
	"log"
	"unicode/utf8"

	"stickerboard/internal/apperrors"
	"stickerboard/internal/models"
	"stickerboard/internal/repositories"
	"stickerboard/pkg/rabbitmq"

	"github.com/google/uuid"
)

// BoardService handles business logic for boards and their memberships.
type BoardService struct {
	boardRepo repositories.BoardRepository
	userRepo  repositories.UserRepository
	mqClient  *rabbitmq.Client
}

// NewBoardService creates a new BoardService. The RabbitMQ client may be nil,
// in which case board events are not published.
func NewBoardService(boardRepo repositories.BoardRepository, userRepo repositories.UserRepository, mqClient *rabbitmq.Client) *BoardService {
	return &BoardService{
		boardRepo: boardRepo,
		userRepo:  userRepo,
		mqClient:  mqClient,
	}
}

// CreateBoard creates a board and records the creating user as its owner. The
// board row and the owner membership are committed atomically.
func (s *BoardService) CreateBoard(title, description, ownerID string) (*models.Board, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", apperrors.ErrValidation)
	}
	if utf8.RuneCountInString(title) > 100 {
		return nil, fmt.Errorf("title must be at most 100 characters: %w", apperrors.ErrValidation)
	}
	if ownerID == "" {
		return nil, fmt.Errorf("user ID required: %w", apperrors.ErrValidation)
	}

	if _, err := s.userRepo.GetByID(ownerID); err != nil {
		return nil, err
	}

	board := &models.Board{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
	}
	if err := s.boardRepo.Create(board, ownerID); err != nil {
		return nil, err
	}

	s.publishEvent("board.created", map[string]interface{}{
		"boardID": board.ID,
		"ownerID": ownerID,
	})

	return board, nil
}

// ListBoards returns a view of every board the user is a member of. OwnerID is
// reported only on boards the user owns; the rest are marked shared.
func (s *BoardService) ListBoards(userID string) ([]models.BoardView, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	boards, err := s.boardRepo.ListByUser(user.ID)
	if err != nil {
		return nil, err
	}

	views := make([]models.BoardView, 0, len(boards))
	for _, board := range boards {
		owner, err := s.boardRepo.GetOwner(board.ID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		isOwner := err == nil && owner.UserID == user.ID
		view := models.BoardView{
			ID:          board.ID,
			Title:       board.Title,
			Description: board.Description,
			Shared:      !isOwner,
		}
		if isOwner {
			id := user.ID
			view.OwnerID = &id
		}
		views = append(views, view)
	}
	return views, nil
}

// GetBoard retrieves a single board. When userID is supplied the user must
// hold a membership on the board. The view always carries the owner's id.
func (s *BoardService) GetBoard(boardID, userID string) (*models.BoardView, error) {
	board, err := s.boardRepo.GetByID(boardID)
	if err != nil {
		return nil, err
	}

	if userID != "" {
		if _, err := s.userRepo.GetByID(userID); err != nil {
			return nil, err
		}
		if _, err := s.boardRepo.GetMember(boardID, userID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("access denied to board %s: %w", boardID, apperrors.ErrForbidden)
			}
			return nil, err
		}
	}

	view := &models.BoardView{
		ID:          board.ID,
		Title:       board.Title,
		Description: board.Description,
	}
	if owner, err := s.boardRepo.GetOwner(boardID); err == nil {
		id := owner.UserID
		view.OwnerID = &id
	}
	return view, nil
}

// DeleteBoard deletes a board with all its memberships and stickers. Only the
// board's owner may delete it.
func (s *BoardService) DeleteBoard(boardID, userID string) error {
	if _, err := s.boardRepo.GetByID(boardID); err != nil {
		return err
	}
	if userID == "" {
		return fmt.Errorf("user ID required: %w", apperrors.ErrValidation)
	}
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return err
	}

	owner, err := s.boardRepo.GetOwner(boardID)
	if err != nil {
		return err
	}
	if owner.UserID != userID {
		return fmt.Errorf("only the owner can delete board %s: %w", boardID, apperrors.ErrForbidden)
	}

	if err := s.boardRepo.Delete(boardID); err != nil {
		return err
	}

	s.publishEvent("board.deleted", map[string]interface{}{
		"boardID": boardID,
		"userID":  userID,
	})
	return nil
}

// ShareBoard grants a user membership on a board. The target is identified by
// username; an email-shaped identifier is matched against username as a
// fallback (legacy clients send userEmail). Sharing never affects ownership.
func (s *BoardService) ShareBoard(boardID, actingUserID, username, userEmail string) error {
	if username == "" && userEmail == "" {
		return fmt.Errorf("userEmail or username required: %w", apperrors.ErrValidation)
	}

	if _, err := s.boardRepo.GetByID(boardID); err != nil {
		return err
	}
	if actingUserID == "" {
		return fmt.Errorf("user ID required: %w", apperrors.ErrValidation)
	}
	if _, err := s.userRepo.GetByID(actingUserID); err != nil {
		return err
	}
	if _, err := s.boardRepo.GetMember(boardID, actingUserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("access denied to board %s: %w", boardID, apperrors.ErrForbidden)
		}
		return err
	}

	identifier := username
	if identifier == "" {
		identifier = userEmail
	}
	target, err := s.userRepo.GetByUsername(identifier)
	if err != nil {
		return err
	}

	if _, err := s.boardRepo.GetMember(boardID, target.ID); err == nil {
		return fmt.Errorf("user %s already has access to board %s: %w", target.Username, boardID, apperrors.ErrConflict)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	if err := s.boardRepo.AddMember(boardID, target.ID, models.RoleMember); err != nil {
		return err
	}

	s.publishEvent("board.shared", map[string]interface{}{
		"boardID":  boardID,
		"userID":   target.ID,
		"sharedBy": actingUserID,
	})
	return nil
}

// publishEvent sends a board activity event to RabbitMQ. Publish failures are
// logged and never fail the request.
func (s *BoardService) publishEvent(event string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.PublishBoardEvent(event, payload); err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", event, err)
	}
}
