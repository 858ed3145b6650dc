package history

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/photoid-studio/internal"
	historyDatamodel "github.com/frahmantamala/photoid-studio/internal/core/datamodel/history"
)

// Service handles history business logic for the capture and request
// screens.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// AddPhotoHistory appends one capture event. A zero photoTime means "now".
// The append and the user's last_take_photo bump commit together.
func (s *Service) AddPhotoHistory(npk string, photoTime time.Time) (*historyDatamodel.PhotoHistory, error) {
	if photoTime.IsZero() {
		photoTime = time.Now()
	}

	record, err := s.repo.AppendPhoto(npk, photoTime)
	if err != nil {
		s.logger.Error("failed to add photo history", "error", err, "npk", npk)
		return nil, err
	}

	s.logger.Info("photo history added", "npk", npk, "photo_time", photoTime)
	return record, nil
}

// AddRequestHistory creates a request in requested status and returns it.
// Caller-supplied statuses are not accepted; resolution happens later via
// ResolveRequest.
func (s *Service) AddRequestHistory(npk, desc string) (*historyDatamodel.RequestHistory, error) {
	record, err := s.repo.AppendRequest(npk, desc, time.Now())
	if err != nil {
		s.logger.Error("failed to add request history", "error", err, "npk", npk)
		return nil, err
	}

	s.logger.Info("request history added", "npk", npk, "request_id", record.ID)
	return record, nil
}

// ResolveRequest moves a request from requested to a terminal status,
// recording responder and resolution time. A request resolves at most
// once; re-resolution fails and leaves the stored status untouched.
func (s *Service) ResolveRequest(id int64, status historyDatamodel.RequestStatus, remark, responder string) (*historyDatamodel.RequestHistory, error) {
	if !status.Terminal() {
		return nil, internal.ErrInvalidTransition
	}

	record, err := s.repo.Resolve(id, status, remark, responder, time.Now())
	if err != nil {
		s.logger.Error("failed to resolve request", "error", err, "request_id", id)
		return nil, err
	}

	s.logger.Info("request resolved", "request_id", id, "status", status, "responder", responder)
	return record, nil
}

// GetRequest returns one request history row.
func (s *Service) GetRequest(id int64) (*historyDatamodel.RequestHistory, error) {
	return s.repo.GetRequest(id)
}

// ListPhotoHistories returns capture events newest-first, optionally for
// one npk (empty npk lists all).
func (s *Service) ListPhotoHistories(npk string) ([]*historyDatamodel.PhotoHistory, error) {
	return s.repo.ListPhotos(npk)
}

// ListRequestHistories returns requests newest-first, optionally for one
// npk.
func (s *Service) ListRequestHistories(npk string) ([]*historyDatamodel.RequestHistory, error) {
	return s.repo.ListRequests(npk)
}
