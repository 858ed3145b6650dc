package main_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	sqlitedriver "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/photoid-studio/internal"
	"github.com/frahmantamala/photoid-studio/internal/appconfig"
	appconfigSqlite "github.com/frahmantamala/photoid-studio/internal/appconfig/sqlite"
	"github.com/frahmantamala/photoid-studio/internal/auth"
	historyDatamodel "github.com/frahmantamala/photoid-studio/internal/core/datamodel/history"
	userDatamodel "github.com/frahmantamala/photoid-studio/internal/core/datamodel/user"
	"github.com/frahmantamala/photoid-studio/internal/history"
	historySqlite "github.com/frahmantamala/photoid-studio/internal/history/sqlite"
	"github.com/frahmantamala/photoid-studio/internal/migration"
	"github.com/frahmantamala/photoid-studio/internal/session"
	"github.com/frahmantamala/photoid-studio/internal/user"
	userSqlite "github.com/frahmantamala/photoid-studio/internal/user/sqlite"
)

// Full operator flow against a freshly migrated store: enroll, log in at
// the station, capture, file a card request, resolve it as admin.
var _ = Describe("Photo station end to end", func() {
	var (
		db          *gorm.DB
		users       user.Repository
		configs     appconfig.Repository
		histories   *history.Service
		authService *auth.Service
		authority   *session.Authority
		logger      *slog.Logger
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlitedriver.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		engine, err := migration.NewEngine(db, logger, migration.All())
		Expect(err).NotTo(HaveOccurred())
		Expect(engine.ApplyAll(context.Background())).To(Succeed())

		users = userSqlite.NewUserRepository(db)
		configs = appconfigSqlite.NewAppConfigRepository(db)
		histories = history.NewService(historySqlite.NewHistoryRepository(db), logger)
		authService = auth.NewService(users, auth.DefaultParams(), logger)
		authority = session.NewAuthority(users, logger)
	})

	It("should carry an operator from enrollment through request resolution", func() {
		// The migrated store already carries the default settings.
		appName, err := configs.Get("app_name")
		Expect(err).NotTo(HaveOccurred())
		Expect(appName).To(Equal("ID Card Photo Machine"))

		// Point the capture directory at this station before enrolling.
		Expect(configs.Set("image_save_path", "/srv/station01/images")).To(Succeed())
		savePath, err := configs.Get("image_save_path")
		Expect(err).NotTo(HaveOccurred())
		Expect(savePath).To(Equal("/srv/station01/images"))

		// Enroll EMP001 with a hashed password.
		hash, err := authService.HashPassword("secret1")
		Expect(err).NotTo(HaveOccurred())

		_, err = users.Create(user.CreateUserDTO{
			NPK:            "EMP001",
			Name:           "Sample Operator",
			Password:       hash,
			Role:           "user",
			DepartmentID:   "PROD",
			DepartmentName: "Production",
		})
		Expect(err).NotTo(HaveOccurred())

		// Wrong password first: deterministic credential failure.
		_, err = authService.Authenticate("EMP001", "wrong")
		Expect(err).To(HaveOccurred())
		Expect(internal.IsCode(err, internal.ErrCodeInvalidCredentials)).To(BeTrue())

		// Right password, then the session opens.
		operator, err := authService.Authenticate("EMP001", "secret1")
		Expect(err).NotTo(HaveOccurred())
		Expect(operator.NPK).To(Equal("EMP001"))
		Expect(operator.LastAccess).NotTo(BeNil())

		Expect(authority.Login(operator)).To(Succeed())
		Expect(authority.CanTakePhotos()).To(BeTrue())
		Expect(authority.IsAdmin()).To(BeFalse())

		// Capture: photo history plus photo-info write-through.
		_, err = histories.AddPhotoHistory("EMP001", time.Now())
		Expect(err).NotTo(HaveOccurred())
		Expect(authority.UpdatePhotoInfo("emp001_photo.jpg", "emp001_card.png")).To(Succeed())

		stored, err := users.GetByNPK("EMP001")
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.PhotoFilename).To(Equal("emp001_photo.jpg"))
		Expect(stored.LastTakePhoto).NotTo(BeNil())

		// File a card replacement request and resolve it once.
		request, err := histories.AddRequestHistory("EMP001", "Card replacement")
		Expect(err).NotTo(HaveOccurred())
		Expect(request.Status).To(Equal(historyDatamodel.RequestStatusRequested))

		resolved, err := histories.ResolveRequest(request.ID, historyDatamodel.RequestStatusApproved, "reissue approved", "ADMIN001")
		Expect(err).NotTo(HaveOccurred())
		Expect(resolved.Status).To(Equal(historyDatamodel.RequestStatusApproved))
		Expect(resolved.ResponsName).To(Equal("ADMIN001"))

		// A second resolution is refused and the first one sticks.
		_, err = histories.ResolveRequest(request.ID, historyDatamodel.RequestStatusRejected, "", "ADMIN002")
		Expect(err).To(HaveOccurred())
		Expect(internal.IsCode(err, internal.ErrCodeInvalidTransition)).To(BeTrue())

		// Session teardown is unconditional.
		authority.Logout()
		authority.Logout()
		Expect(authority.CanTakePhotos()).To(BeFalse())
	})

	It("should keep history writes atomic against unknown operators", func() {
		_, err := histories.AddPhotoHistory("UNKNOWN_NPK", time.Now())
		Expect(err).To(HaveOccurred())
		Expect(internal.IsCode(err, internal.ErrCodeForeignKeyViolation)).To(BeTrue())

		var count int64
		Expect(db.Model(&historyDatamodel.PhotoHistory{}).Count(&count).Error).NotTo(HaveOccurred())
		Expect(count).To(BeZero())
	})

	It("should reject a second operator while a session is active", func() {
		for _, seed := range []struct{ npk, role string }{
			{"EMP001", "user"},
			{"ADMIN001", "admin"},
		} {
			hash, err := authService.HashPassword("secret1")
			Expect(err).NotTo(HaveOccurred())
			_, err = users.Create(user.CreateUserDTO{NPK: seed.npk, Name: seed.npk, Password: hash, Role: seed.role})
			Expect(err).NotTo(HaveOccurred())
		}

		first, err := authService.Authenticate("EMP001", "secret1")
		Expect(err).NotTo(HaveOccurred())
		Expect(authority.Login(first)).To(Succeed())

		second, err := authService.Authenticate("ADMIN001", "secret1")
		Expect(err).NotTo(HaveOccurred())

		err = authority.Login(second)
		Expect(err).To(HaveOccurred())
		Expect(internal.IsCode(err, internal.ErrCodeSessionActive)).To(BeTrue())

		current, err := authority.CurrentUser()
		Expect(err).NotTo(HaveOccurred())
		Expect(current.NPK).To(Equal("EMP001"))
		Expect(current.Role).To(Equal(userDatamodel.RoleUser))
	})
})
