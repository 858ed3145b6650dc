package history_test

import (
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/photoid-studio/internal"
	historyDatamodel "github.com/frahmantamala/photoid-studio/internal/core/datamodel/history"
	"github.com/frahmantamala/photoid-studio/internal/history"
)

func TestHistory(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "History Service Suite")
}

// Mock repository for testing
type mockHistoryRepository struct {
	knownNPKs map[string]bool
	photos    []*historyDatamodel.PhotoHistory
	requests  map[int64]*historyDatamodel.RequestHistory
	nextID    int64

	appendPhotoError error
	resolveError     error
}

func newMockHistoryRepository() *mockHistoryRepository {
	return &mockHistoryRepository{
		knownNPKs: map[string]bool{"EMP001": true},
		requests:  make(map[int64]*historyDatamodel.RequestHistory),
		nextID:    1,
	}
}

func (m *mockHistoryRepository) AppendPhoto(npk string, photoTime time.Time) (*historyDatamodel.PhotoHistory, error) {
	if m.appendPhotoError != nil {
		return nil, m.appendPhotoError
	}
	if !m.knownNPKs[npk] {
		return nil, fmt.Errorf("npk %s: %w", npk, internal.ErrForeignKeyViolation)
	}
	record := &historyDatamodel.PhotoHistory{ID: m.nextID, NPK: npk, PhotoTime: photoTime}
	m.nextID++
	m.photos = append(m.photos, record)
	return record, nil
}

func (m *mockHistoryRepository) AppendRequest(npk, desc string, requestTime time.Time) (*historyDatamodel.RequestHistory, error) {
	if !m.knownNPKs[npk] {
		return nil, fmt.Errorf("npk %s: %w", npk, internal.ErrForeignKeyViolation)
	}
	record := &historyDatamodel.RequestHistory{
		ID:          m.nextID,
		NPK:         npk,
		RequestTime: requestTime,
		RequestDesc: desc,
		Status:      historyDatamodel.RequestStatusRequested,
	}
	m.nextID++
	m.requests[record.ID] = record
	return record, nil
}

func (m *mockHistoryRepository) GetRequest(id int64) (*historyDatamodel.RequestHistory, error) {
	record, ok := m.requests[id]
	if !ok {
		return nil, internal.ErrRequestNotFound
	}
	return record, nil
}

func (m *mockHistoryRepository) Resolve(id int64, status historyDatamodel.RequestStatus, remark, responder string, responsTime time.Time) (*historyDatamodel.RequestHistory, error) {
	if m.resolveError != nil {
		return nil, m.resolveError
	}
	record, ok := m.requests[id]
	if !ok {
		return nil, internal.ErrRequestNotFound
	}
	if record.Status.Terminal() {
		return nil, internal.ErrInvalidTransition
	}
	record.Status = status
	record.Remark = remark
	record.ResponsName = responder
	record.ResponsTime = &responsTime
	return record, nil
}

func (m *mockHistoryRepository) ListPhotos(npk string) ([]*historyDatamodel.PhotoHistory, error) {
	return m.photos, nil
}

func (m *mockHistoryRepository) ListRequests(npk string) ([]*historyDatamodel.RequestHistory, error) {
	out := make([]*historyDatamodel.RequestHistory, 0, len(m.requests))
	for _, r := range m.requests {
		out = append(out, r)
	}
	return out, nil
}

var _ = Describe("HistoryService", func() {
	var (
		service  *history.Service
		mockRepo *mockHistoryRepository
	)

	BeforeEach(func() {
		mockRepo = newMockHistoryRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = history.NewService(mockRepo, logger)
	})

	Describe("AddPhotoHistory", func() {
		It("should default a zero photo time to now", func() {
			record, err := service.AddPhotoHistory("EMP001", time.Time{})
			Expect(err).NotTo(HaveOccurred())
			Expect(record.PhotoTime).To(BeTemporally("~", time.Now(), time.Minute))
		})

		It("should propagate the foreign key violation for an unknown npk", func() {
			_, err := service.AddPhotoHistory("UNKNOWN_NPK", time.Now())
			Expect(err).To(HaveOccurred())
			Expect(internal.IsCode(err, internal.ErrCodeForeignKeyViolation)).To(BeTrue())
		})
	})

	Describe("AddRequestHistory", func() {
		It("should create requests in requested status", func() {
			record, err := service.AddRequestHistory("EMP001", "Card replacement")
			Expect(err).NotTo(HaveOccurred())
			Expect(record.Status).To(Equal(historyDatamodel.RequestStatusRequested))
			Expect(record.ID).To(BeNumerically(">", 0))
		})
	})

	Describe("ResolveRequest", func() {
		It("should reject a non-terminal target status before touching the store", func() {
			record, err := service.AddRequestHistory("EMP001", "Card replacement")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ResolveRequest(record.ID, historyDatamodel.RequestStatusRequested, "", "ADMIN001")
			Expect(err).To(HaveOccurred())
			Expect(internal.IsCode(err, internal.ErrCodeInvalidTransition)).To(BeTrue())

			stored, err := service.GetRequest(record.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(historyDatamodel.RequestStatusRequested))
		})

		It("should resolve a request at most once", func() {
			record, err := service.AddRequestHistory("EMP001", "Card replacement")
			Expect(err).NotTo(HaveOccurred())

			resolved, err := service.ResolveRequest(record.ID, historyDatamodel.RequestStatusApproved, "ok", "ADMIN001")
			Expect(err).NotTo(HaveOccurred())
			Expect(resolved.Status).To(Equal(historyDatamodel.RequestStatusApproved))
			Expect(resolved.ResponsName).To(Equal("ADMIN001"))

			_, err = service.ResolveRequest(record.ID, historyDatamodel.RequestStatusRejected, "", "ADMIN002")
			Expect(err).To(HaveOccurred())
			Expect(internal.IsCode(err, internal.ErrCodeInvalidTransition)).To(BeTrue())
		})
	})
})
