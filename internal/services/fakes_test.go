package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"appeals-system/internal/entities"
	"appeals-system/internal/repositories"
	apperrors "appeals-system/pkg/errors"
	"appeals-system/pkg/types"
)

// memStore - таблицы в памяти. fakeTxManager восстанавливает снимок, если единица работы вернула ошибку.
type memStore struct {
	nextID       uint64
	users        map[uint64]*entities.User
	socialGroups map[uint64]entities.SocialGroup
	departments  map[uint64]*entities.Department
	employees    []entities.Employee
	statuses     []entities.AppealStatus
	themes       map[uint64]entities.AppealTheme
	appeals      map[uint64]*entities.UserAppeal
	attachments  []entities.AppealAttachment
	histories    []entities.AppealHistory
	appealUsers  []entities.AppealUser
}

func newMemStore() *memStore {
	return &memStore{
		nextID:       1000,
		users:        map[uint64]*entities.User{},
		socialGroups: map[uint64]entities.SocialGroup{},
		departments:  map[uint64]*entities.Department{},
		themes:       map[uint64]entities.AppealTheme{},
		appeals:      map[uint64]*entities.UserAppeal{},
	}
}

func (s *memStore) id() uint64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) clone() *memStore {
	c := &memStore{
		nextID:       s.nextID,
		users:        make(map[uint64]*entities.User, len(s.users)),
		socialGroups: make(map[uint64]entities.SocialGroup, len(s.socialGroups)),
		departments:  make(map[uint64]*entities.Department, len(s.departments)),
		employees:    append([]entities.Employee(nil), s.employees...),
		statuses:     append([]entities.AppealStatus(nil), s.statuses...),
		themes:       make(map[uint64]entities.AppealTheme, len(s.themes)),
		appeals:      make(map[uint64]*entities.UserAppeal, len(s.appeals)),
		attachments:  append([]entities.AppealAttachment(nil), s.attachments...),
		histories:    append([]entities.AppealHistory(nil), s.histories...),
		appealUsers:  append([]entities.AppealUser(nil), s.appealUsers...),
	}
	for k, v := range s.users {
		c.users[k] = cloneUser(v)
	}
	for k, v := range s.socialGroups {
		c.socialGroups[k] = v
	}
	for k, v := range s.departments {
		d := *v
		c.departments[k] = &d
	}
	for k, v := range s.themes {
		c.themes[k] = v
	}
	for k, v := range s.appeals {
		c.appeals[k] = cloneAppeal(v)
	}
	return c
}

func cloneUser(u *entities.User) *entities.User {
	c := *u
	c.Roles = append([]string(nil), u.Roles...)
	return &c
}

func cloneAppeal(a *entities.UserAppeal) *entities.UserAppeal {
	c := *a
	c.UsersVoted = append([]int64(nil), a.UsersVoted...)
	c.Attachments = nil
	c.Status = nil
	c.Theme = nil
	return &c
}

func (s *memStore) statusConstByID(id uint64) string {
	for _, st := range s.statuses {
		if st.ID == id {
			return st.StatusConst
		}
	}
	return ""
}

func (s *memStore) appealUsersOf(employeeID uint64) []entities.AppealUser {
	var out []entities.AppealUser
	for _, au := range s.appealUsers {
		if au.EmployeeID != nil && *au.EmployeeID == employeeID {
			out = append(out, au)
		}
	}
	return out
}

func (s *memStore) attachmentsOf(appealID uint64) []entities.AppealAttachment {
	var out []entities.AppealAttachment
	for _, a := range s.attachments {
		if a.UserAppealID == appealID {
			out = append(out, a)
		}
	}
	return out
}

//============== TX ==============

type fakeTxManager struct {
	store     *memStore
	commits   int
	rollbacks int
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	snapshot := m.store.clone()
	defer func() {
		if p := recover(); p != nil {
			*m.store = *snapshot
			m.rollbacks++
			panic(p)
		}
		if err != nil {
			*m.store = *snapshot
			m.rollbacks++
			return
		}
		m.commits++
	}()
	return fn(nil)
}

//============== USERS ==============

type fakeUserRepo struct{ s *memStore }

func (r *fakeUserRepo) FindByID(ctx context.Context, id uint64) (*entities.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", id)
	}
	return cloneUser(u), nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, apperrors.NotFound("user", email)
}

func (r *fakeUserRepo) FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.User, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeUserRepo) FindByEmailInTx(ctx context.Context, tx pgx.Tx, email string) (*entities.User, error) {
	return r.FindByEmail(ctx, email)
}

func (r *fakeUserRepo) FindByRoleInTx(ctx context.Context, tx pgx.Tx, role string) ([]entities.User, error) {
	var out []entities.User
	for _, u := range r.s.users {
		if u.HasRole(role) {
			out = append(out, *cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) ExistsByEmailInTx(ctx context.Context, tx pgx.Tx, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeUserRepo) CreateInTx(ctx context.Context, tx pgx.Tx, user *entities.User) error {
	if exists, _ := r.ExistsByEmailInTx(ctx, tx, user.Email); exists {
		return fmt.Errorf("user %s: %w", user.Email, apperrors.ErrConflict)
	}
	now := time.Now()
	user.ID = r.s.id()
	user.CreatedAt, user.UpdatedAt = &now, &now
	r.s.users[user.ID] = cloneUser(user)
	return nil
}

func (r *fakeUserRepo) UpdateInTx(ctx context.Context, tx pgx.Tx, user *entities.User) error {
	stored, ok := r.s.users[user.ID]
	if !ok {
		return apperrors.NotFound("user", user.ID)
	}
	c := cloneUser(user)
	c.Email, c.Password = stored.Email, stored.Password
	r.s.users[user.ID] = c
	return nil
}

//============== DICTIONARIES ==============

type fakeSocialGroupRepo struct{ s *memStore }

func (r *fakeSocialGroupRepo) FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.SocialGroup, error) {
	g, ok := r.s.socialGroups[id]
	if !ok {
		return nil, apperrors.NotFound("social group", id)
	}
	return &g, nil
}

func (r *fakeSocialGroupRepo) FindAll(ctx context.Context) ([]entities.SocialGroup, error) {
	var out []entities.SocialGroup
	for _, g := range r.s.socialGroups {
		out = append(out, g)
	}
	return out, nil
}

type fakeDepartmentRepo struct{ s *memStore }

func (r *fakeDepartmentRepo) FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Department, error) {
	d, ok := r.s.departments[id]
	if !ok {
		return nil, apperrors.NotFound("department", id)
	}
	c := *d
	return &c, nil
}

func (r *fakeDepartmentRepo) FindDirectorInTx(ctx context.Context, tx pgx.Tx, departmentID uint64) (*entities.User, error) {
	d, ok := r.s.departments[departmentID]
	if !ok || d.DirectorID == nil {
		return nil, nil
	}
	u, ok := r.s.users[*d.DirectorID]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *fakeDepartmentRepo) UpdateDirectorInTx(ctx context.Context, tx pgx.Tx, departmentID, userID uint64) error {
	d, ok := r.s.departments[departmentID]
	if !ok {
		return apperrors.NotFound("department", departmentID)
	}
	d.DirectorID = &userID
	return nil
}

type fakeEmployeeRepo struct{ s *memStore }

func (r *fakeEmployeeRepo) CreateInTx(ctx context.Context, tx pgx.Tx, employee *entities.Employee) error {
	for i, e := range r.s.employees {
		if e.UserID == employee.UserID && e.DepartmentID == employee.DepartmentID {
			r.s.employees[i].Position = employee.Position
			employee.ID = e.ID
			return nil
		}
	}
	employee.ID = r.s.id()
	r.s.employees = append(r.s.employees, *employee)
	return nil
}

type fakeStatusRepo struct{ s *memStore }

func (r *fakeStatusRepo) FindByConstInTx(ctx context.Context, tx pgx.Tx, statusConst string) (*entities.AppealStatus, error) {
	for _, st := range r.s.statuses {
		if st.StatusConst == statusConst {
			c := st
			return &c, nil
		}
	}
	return nil, apperrors.NotFound("appeal status", statusConst)
}

func (r *fakeStatusRepo) FindAll(ctx context.Context) ([]entities.AppealStatus, error) {
	return append([]entities.AppealStatus(nil), r.s.statuses...), nil
}

type fakeThemeRepo struct{ s *memStore }

func (r *fakeThemeRepo) FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.AppealTheme, error) {
	t, ok := r.s.themes[id]
	if !ok {
		return nil, apperrors.NotFound("appeal theme", id)
	}
	return &t, nil
}

//============== APPEALS ==============

type fakeAppealRepo struct {
	s         *memStore
	listCalls int
}

func (r *fakeAppealRepo) CreateInTx(ctx context.Context, tx pgx.Tx, appeal *entities.UserAppeal) error {
	now := time.Now()
	appeal.ID = r.s.id()
	appeal.CreatedAt, appeal.UpdatedAt = &now, &now
	r.s.appeals[appeal.ID] = cloneAppeal(appeal)
	return nil
}

func (r *fakeAppealRepo) UpdateInTx(ctx context.Context, tx pgx.Tx, appeal *entities.UserAppeal) error {
	if _, ok := r.s.appeals[appeal.ID]; !ok {
		return apperrors.NotFound("appeal", appeal.ID)
	}
	r.s.appeals[appeal.ID] = cloneAppeal(appeal)
	return nil
}

func (r *fakeAppealRepo) FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.UserAppeal, error) {
	return r.FindByID(ctx, id, false)
}

func (r *fakeAppealRepo) FindByID(ctx context.Context, id uint64, fetchRelations bool) (*entities.UserAppeal, error) {
	a, ok := r.s.appeals[id]
	if !ok {
		return nil, apperrors.NotFound("appeal", id)
	}
	c := cloneAppeal(a)
	if fetchRelations {
		for _, st := range r.s.statuses {
			if st.ID == c.StatusID {
				st := st
				c.Status = &st
			}
		}
		if t, ok := r.s.themes[c.AppealThemeID]; ok {
			c.Theme = &t
		}
		c.Attachments = r.s.attachmentsOf(id)
	}
	return c, nil
}

func (r *fakeAppealRepo) sortedIDs() []uint64 {
	ids := make([]uint64, 0, len(r.s.appeals))
	for id := range r.s.appeals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	return ids
}

func (r *fakeAppealRepo) List(ctx context.Context, page types.Pagination) ([]entities.UserAppeal, uint64, error) {
	r.listCalls++
	ids := r.sortedIDs()
	total := uint64(len(ids))

	start := min(page.Offset(), total)
	end := min(start+page.PerPage, total)
	out := make([]entities.UserAppeal, 0, end-start)
	for _, id := range ids[start:end] {
		out = append(out, *cloneAppeal(r.s.appeals[id]))
	}
	return out, total, nil
}

func (r *fakeAppealRepo) Report(ctx context.Context, filter entities.AppealReportFilter) ([]entities.AppealReportItem, uint64, error) {
	var out []entities.AppealReportItem
	for _, id := range r.sortedIDs() {
		a := r.s.appeals[id]
		item := entities.AppealReportItem{
			AppealID:    a.ID,
			CreatedAt:   *a.CreatedAt,
			ThemeName:   r.s.themes[a.AppealThemeID].Theme,
			StatusTitle: r.s.statusConstByID(a.StatusID),
			Address:     a.Address,
			ProblemBody: a.ProblemBody,
			IsActive:    a.IsActive,
		}
		if u, ok := r.s.users[a.CreatorID]; ok {
			item.CreatorName = u.FullName()
		}
		out = append(out, item)
	}
	return out, uint64(len(out)), nil
}

type fakeAttachmentRepo struct{ s *memStore }

func (r *fakeAttachmentRepo) CreateInTx(ctx context.Context, tx pgx.Tx, attachment *entities.AppealAttachment) error {
	attachment.ID = r.s.id()
	attachment.CreatedAt = time.Now()
	r.s.attachments = append(r.s.attachments, *attachment)
	return nil
}

func (r *fakeAttachmentRepo) FindByAppealID(ctx context.Context, appealID uint64) ([]entities.AppealAttachment, error) {
	return r.s.attachmentsOf(appealID), nil
}

func (r *fakeAttachmentRepo) FindByAppealIDInTx(ctx context.Context, tx pgx.Tx, appealID uint64) ([]entities.AppealAttachment, error) {
	return r.s.attachmentsOf(appealID), nil
}

func (r *fakeAttachmentRepo) DeleteByAppealIDInTx(ctx context.Context, tx pgx.Tx, appealID uint64) ([]entities.AppealAttachment, error) {
	var kept, removed []entities.AppealAttachment
	for _, a := range r.s.attachments {
		if a.UserAppealID == appealID {
			removed = append(removed, a)
		} else {
			kept = append(kept, a)
		}
	}
	r.s.attachments = kept
	return removed, nil
}

type fakeHistoryRepo struct{ s *memStore }

func (r *fakeHistoryRepo) CreateInTx(ctx context.Context, tx pgx.Tx, history *entities.AppealHistory) error {
	history.ID = r.s.id()
	history.CreatedAt = time.Now()
	r.s.histories = append(r.s.histories, *history)
	return nil
}

func (r *fakeHistoryRepo) FindFirstByType(ctx context.Context, appealID uint64, historyType string) (*entities.AppealHistory, error) {
	for _, h := range r.s.histories {
		if h.AppealID == appealID && h.Type == historyType {
			c := h
			return &c, nil
		}
	}
	return nil, apperrors.NotFound("appeal history", historyType)
}

func (r *fakeHistoryRepo) FindByAppealID(ctx context.Context, appealID uint64) ([]entities.AppealHistory, error) {
	var out []entities.AppealHistory
	for _, h := range r.s.histories {
		if h.AppealID == appealID {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeAppealUserRepo struct{ s *memStore }

func (r *fakeAppealUserRepo) CreateInTx(ctx context.Context, tx pgx.Tx, link *entities.AppealUser) error {
	link.ID = r.s.id()
	link.CreatedAt = time.Now()
	r.s.appealUsers = append(r.s.appealUsers, *link)
	return nil
}

func (r *fakeAppealUserRepo) FindAppealIDsByEmployeeInTx(ctx context.Context, tx pgx.Tx, employeeID uint64) ([]uint64, error) {
	var ids []uint64
	for _, au := range r.s.appealUsersOf(employeeID) {
		ids = append(ids, au.AppealID)
	}
	return ids, nil
}

func (r *fakeAppealUserRepo) FindAppealIDsByStatusesInTx(ctx context.Context, tx pgx.Tx, statusConsts []string, exclude []uint64) ([]uint64, error) {
	excluded := make(map[uint64]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}
	var ids []uint64
	for id, a := range r.s.appeals {
		if excluded[id] {
			continue
		}
		for _, sc := range statusConsts {
			if r.s.statusConstByID(a.StatusID) == sc {
				ids = append(ids, id)
				break
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeAppealUserRepo) BulkConnectInTx(ctx context.Context, tx pgx.Tx, creatorID, employeeID uint64, appealIDs []uint64) (int64, error) {
	existing := map[uint64]bool{}
	for _, au := range r.s.appealUsersOf(employeeID) {
		existing[au.AppealID] = true
	}
	var inserted int64
	for _, appealID := range appealIDs {
		if existing[appealID] {
			continue
		}
		existing[appealID] = true
		c, e := creatorID, employeeID
		r.s.appealUsers = append(r.s.appealUsers, entities.AppealUser{
			ID: r.s.id(), AppealID: appealID, CreatorID: &c, EmployeeID: &e, CreatedAt: time.Now(),
		})
		inserted++
	}
	return inserted, nil
}

func (r *fakeAppealUserRepo) DeleteByEmployeeInTx(ctx context.Context, tx pgx.Tx, employeeID uint64) (int64, error) {
	var kept []entities.AppealUser
	var removed int64
	for _, au := range r.s.appealUsers {
		if au.EmployeeID != nil && *au.EmployeeID == employeeID {
			removed++
			continue
		}
		kept = append(kept, au)
	}
	r.s.appealUsers = kept
	return removed, nil
}

//============== CACHE / FILES ==============

type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
	ttl  map[string]time.Duration
	err  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	switch v := value.(type) {
	case []byte:
		c.data[key] = string(v)
	default:
		c.data[key] = fmt.Sprint(v)
	}
	c.ttl[key] = expiration
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	v, ok := c.data[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *fakeCache) Incr(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	var n int64
	fmt.Sscan(c.data[key], &n)
	n++
	c.data[key] = fmt.Sprint(n)
	return n, nil
}

func (c *fakeCache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.ttl[key] = expiration
	return nil
}

// fakeFileStorage падает на failOn-м вызове Save (с 1), если failOn > 0.
type fakeFileStorage struct {
	files   map[string]string
	saves   int
	failOn  int
	deleted []string
}

func newFakeFileStorage() *fakeFileStorage {
	return &fakeFileStorage{files: map[string]string{}}
}

func (f *fakeFileStorage) Save(file io.Reader, originalFileName, category string) (string, error) {
	f.saves++
	if f.failOn > 0 && f.saves == f.failOn {
		return "", fmt.Errorf("disk is full")
	}
	content, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	url := fmt.Sprintf("/media/storage/%s/%d_%s", category, f.saves, originalFileName)
	f.files[url] = string(content)
	return url, nil
}

func (f *fakeFileStorage) Delete(url string) error {
	delete(f.files, url)
	f.deleted = append(f.deleted, url)
	return nil
}
