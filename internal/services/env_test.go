package services

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"appeals-system/internal/dto"
	"appeals-system/internal/entities"
	"appeals-system/pkg/config"
	"appeals-system/pkg/constants"
	"appeals-system/pkg/service"
)

type testEnv struct {
	store   *memStore
	tx      *fakeTxManager
	cache   *fakeCache
	files   *fakeFileStorage
	appeals *fakeAppealRepo

	jwt        service.JWTService
	history    AppealHistoryServiceInterface
	visibility AppealVisibilityServiceInterface
	attachment AttachmentServiceInterface
	appealSvc  AppealServiceInterface
	authSvc    AuthServiceInterface
	userSvc    UserServiceInterface
	reportSvc  ReportServiceInterface
}

const (
	testThemeID      uint64 = 10
	testThemeNoBoss  uint64 = 11
	testDepartmentID uint64 = 20
	testOrphanDeptID uint64 = 21
	testSocialGroup  uint64 = 30
)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()

	store := newMemStore()
	store.statuses = []entities.AppealStatus{
		{ID: 1, Title: "На модерации", StatusConst: constants.AppealStatusModeration},
		{ID: 2, Title: "На рассмотрении", StatusConst: constants.AppealStatusConsideration},
		{ID: 3, Title: "В работе", StatusConst: constants.AppealStatusInWork},
		{ID: 4, Title: "Решено", StatusConst: constants.AppealStatusResolved},
	}
	store.departments[testDepartmentID] = &entities.Department{ID: testDepartmentID, Name: "ЖКХ"}
	store.departments[testOrphanDeptID] = &entities.Department{ID: testOrphanDeptID, Name: "Без директора"}
	store.themes[testThemeID] = entities.AppealTheme{ID: testThemeID, Theme: "Дороги", DepartmentID: testDepartmentID}
	store.themes[testThemeNoBoss] = entities.AppealTheme{ID: testThemeNoBoss, Theme: "Прочее", DepartmentID: testOrphanDeptID}
	store.socialGroups[testSocialGroup] = entities.SocialGroup{ID: testSocialGroup, Name: "Пенсионеры", IsActive: true}

	env := &testEnv{
		store:   store,
		tx:      &fakeTxManager{store: store},
		cache:   newFakeCache(),
		files:   newFakeFileStorage(),
		appeals: &fakeAppealRepo{s: store},
		jwt:     service.NewJWTService("test-secret", 24*time.Hour),
	}

	userRepo := &fakeUserRepo{s: store}
	env.history = NewAppealHistoryService(&fakeHistoryRepo{s: store}, logger)
	env.visibility = NewAppealVisibilityService(&fakeAppealUserRepo{s: store}, logger)
	env.attachment = NewAttachmentService(&fakeAttachmentRepo{s: store}, env.files, logger)
	env.appealSvc = NewAppealService(
		env.tx, env.appeals, &fakeStatusRepo{s: store}, &fakeThemeRepo{s: store},
		&fakeDepartmentRepo{s: store}, &fakeAppealUserRepo{s: store},
		env.history, env.attachment, env.cache, time.Minute, logger,
	)
	env.authSvc = NewAuthService(
		env.tx, userRepo, &fakeSocialGroupRepo{s: store}, env.cache, env.jwt, logger,
		&config.AuthConfig{MaxLoginAttempts: 3, LockoutDuration: 15 * time.Minute},
	)
	env.userSvc = NewUserService(
		env.tx, userRepo, &fakeDepartmentRepo{s: store}, &fakeEmployeeRepo{s: store},
		&fakeSocialGroupRepo{s: store}, env.visibility, env.attachment, logger,
	)
	env.reportSvc = NewReportService(env.appeals, logger)
	return env
}

func (e *testEnv) addUser(email string, roles ...string) *entities.User {
	u := &entities.User{
		ID:        e.store.id(),
		FirstName: "Иван",
		Email:     email,
		Sex:       constants.SexNotChosen,
		IsActive:  true,
		Roles:     append([]string(nil), roles...),
	}
	e.store.users[u.ID] = cloneUser(u)
	return u
}

func (e *testEnv) user(id uint64) *entities.User {
	return e.store.users[id]
}

// addAppeal кладет обращение прямо в хранилище в нужном статусе.
func (e *testEnv) addAppeal(creatorID, statusID uint64) uint64 {
	now := time.Now()
	a := &entities.UserAppeal{
		ID:            e.store.id(),
		CreatorID:     creatorID,
		AppealThemeID: testThemeID,
		StatusID:      statusID,
		ProblemBody:   "Яма на дороге",
		IsActive:      true,
	}
	a.CreatedAt = &now
	e.store.appeals[a.ID] = a
	return a.ID
}

func (e *testEnv) linkedAppealIDs(userID uint64) []uint64 {
	var ids []uint64
	for _, au := range e.store.appealUsersOf(userID) {
		ids = append(ids, au.AppealID)
	}
	return ids
}

func uploads(names ...string) []dto.UploadedFile {
	out := make([]dto.UploadedFile, 0, len(names))
	for _, n := range names {
		out = append(out, dto.UploadedFile{FileName: n, Content: strings.NewReader("content of " + n)})
	}
	return out
}
