package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sskalskiAGH/WebDev/internal/model"
	"github.com/sskalskiAGH/WebDev/internal/repository"
)

// 内存版 Repository 实现，测试专用。
// 与真实实现保持同一错误语义：未命中返回 gorm.ErrRecordNotFound

// ── mockRoomRepo ──

type mockRoomRepo struct {
	mu    sync.Mutex
	rooms map[string]*model.Room // key: name
}

func newMockRoomRepo() *mockRoomRepo {
	return &mockRoomRepo{rooms: make(map[string]*model.Room)}
}

func (m *mockRoomRepo) Create(ctx context.Context, room *model.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if room.RoomID == "" {
		room.RoomID = uuid.NewString()
	}
	m.rooms[room.Name] = room
	return nil
}

func (m *mockRoomRepo) GetByName(ctx context.Context, name string) (*model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return room, nil
}

func (m *mockRoomRepo) List(ctx context.Context) ([]model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]model.Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		result = append(result, *room)
	}
	return result, nil
}

func (m *mockRoomRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rooms[name]
	return ok, nil
}

func (m *mockRoomRepo) RemoveDuplicates(ctx context.Context) (int64, error) {
	return 0, nil // map 按名称键控，天然无重复
}

// ── mockSubjectRepo ──

type mockSubjectRepo struct {
	mu       sync.Mutex
	subjects map[string]*model.Subject
}

func newMockSubjectRepo() *mockSubjectRepo {
	return &mockSubjectRepo{subjects: make(map[string]*model.Subject)}
}

func (m *mockSubjectRepo) Create(ctx context.Context, subject *model.Subject) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if subject.SubjectID == "" {
		subject.SubjectID = uuid.NewString()
	}
	m.subjects[subject.SubjectID] = subject
	return nil
}

func (m *mockSubjectRepo) GetByID(ctx context.Context, id string) (*model.Subject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	subject, ok := m.subjects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return subject, nil
}

func (m *mockSubjectRepo) List(ctx context.Context, filter repository.SubjectFilter) ([]model.Subject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Subject
	for _, subject := range m.subjects {
		if matchSubject(subject, filter) {
			result = append(result, *subject)
		}
	}
	return result, nil
}

func (m *mockSubjectRepo) RemoveDuplicates(ctx context.Context) (int64, error) {
	return 0, nil
}

func matchSubject(subject *model.Subject, filter repository.SubjectFilter) bool {
	if filter.FieldOfStudy != "" && subject.FieldOfStudy != filter.FieldOfStudy {
		return false
	}
	if filter.StudyType != "" && subject.StudyType != filter.StudyType {
		return false
	}
	if filter.Year != 0 && subject.Year != filter.Year {
		return false
	}
	if filter.InstructorName != "" && subject.InstructorName != filter.InstructorName {
		return false
	}
	return true
}

// ── mockExamRepo ──

type mockExamRepo struct {
	mu       sync.Mutex
	exams    map[string]*model.Exam
	subjects *mockSubjectRepo
}

func newMockExamRepo(subjects *mockSubjectRepo) *mockExamRepo {
	return &mockExamRepo{exams: make(map[string]*model.Exam), subjects: subjects}
}

func (m *mockExamRepo) Create(ctx context.Context, exam *model.Exam) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if exam.ExamID == "" {
		exam.ExamID = uuid.NewString()
	}
	m.exams[exam.ExamID] = exam
	return nil
}

// GetByID 模拟 Preload(Subject)
func (m *mockExamRepo) GetByID(ctx context.Context, id string) (*model.Exam, error) {
	m.mu.Lock()
	exam, ok := m.exams[id]
	m.mu.Unlock()
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	loaded := *exam
	if subject, err := m.subjects.GetByID(ctx, exam.SubjectID); err == nil {
		loaded.Subject = subject
	}
	return &loaded, nil
}

func (m *mockExamRepo) List(ctx context.Context, filter repository.SubjectFilter) ([]model.Exam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// 跨仓读 subjects 表，连带持有属主锁
	m.subjects.mu.Lock()
	defer m.subjects.mu.Unlock()
	var result []model.Exam
	for _, exam := range m.exams {
		subject, ok := m.subjects.subjects[exam.SubjectID]
		if !ok || !matchSubject(subject, filter) {
			continue
		}
		loaded := *exam
		loaded.Subject = subject
		result = append(result, loaded)
	}
	return result, nil
}

func (m *mockExamRepo) RemoveDuplicates(ctx context.Context) (int64, error) {
	return 0, nil
}

// ── mockExamTermRepo ──

type mockExamTermRepo struct {
	mu    sync.Mutex
	terms map[string]*model.ExamTerm
	exams *mockExamRepo
	seq   int // CreatedAt 单调递增用
}

func newMockExamTermRepo(exams *mockExamRepo) *mockExamTermRepo {
	return &mockExamTermRepo{terms: make(map[string]*model.ExamTerm), exams: exams}
}

func (m *mockExamTermRepo) Create(ctx context.Context, term *model.ExamTerm) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if term.TermID == "" {
		term.TermID = uuid.NewString()
	}
	m.seq++
	term.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(m.seq) * time.Second)
	stored := *term
	m.terms[term.TermID] = &stored
	return nil
}

func (m *mockExamTermRepo) GetByID(ctx context.Context, id string) (*model.ExamTerm, error) {
	m.mu.Lock()
	term, ok := m.terms[id]
	m.mu.Unlock()
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	loaded := *term
	if exam, err := m.exams.GetByID(ctx, term.ExamID); err == nil {
		loaded.Exam = exam
	}
	return &loaded, nil
}

func (m *mockExamTermRepo) List(ctx context.Context, filter repository.TermFilter) ([]model.ExamTerm, error) {
	m.mu.Lock()
	ids := make([]string, 0, len(m.terms))
	for id := range m.terms {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	var result []model.ExamTerm
	for _, id := range ids {
		term, err := m.GetByID(ctx, id)
		if err != nil {
			continue
		}
		if filter.Status != "" && term.Status != filter.Status {
			continue
		}
		if term.Exam != nil && term.Exam.Subject != nil {
			subject := term.Exam.Subject
			if !matchSubject(subject, repository.SubjectFilter{
				FieldOfStudy:   filter.FieldOfStudy,
				StudyType:      filter.StudyType,
				Year:           filter.Year,
				InstructorName: filter.InstructorName,
			}) {
				continue
			}
		}
		result = append(result, *term)
	}
	return result, nil
}

func (m *mockExamTermRepo) ListByRoomDate(ctx context.Context, roomName string, date time.Time, excludeTermID string) ([]model.ExamTerm, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// 锁序固定为 terms → exams → subjects，避免跨仓读与写并发
	m.exams.mu.Lock()
	defer m.exams.mu.Unlock()
	m.exams.subjects.mu.Lock()
	defer m.exams.subjects.mu.Unlock()
	day := date.Format("2006-01-02")
	var result []model.ExamTerm
	for _, term := range m.terms {
		if term.RoomName != roomName || term.Date.Format("2006-01-02") != day {
			continue
		}
		if term.Status == model.TermStatusRejected || term.TermID == excludeTermID {
			continue
		}
		loaded := *term
		if exam, ok := m.exams.exams[term.ExamID]; ok {
			e := *exam
			if subject, ok := m.exams.subjects.subjects[exam.SubjectID]; ok {
				e.Subject = subject
			}
			loaded.Exam = &e
		}
		result = append(result, loaded)
	}
	return result, nil
}

func (m *mockExamTermRepo) ListByCohortDate(ctx context.Context, date time.Time, fieldOfStudy, studyType string, year int, excludeTermID string) ([]model.ExamTerm, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exams.mu.Lock()
	defer m.exams.mu.Unlock()
	m.exams.subjects.mu.Lock()
	defer m.exams.subjects.mu.Unlock()
	day := date.Format("2006-01-02")
	var result []model.ExamTerm
	for _, term := range m.terms {
		if term.Date.Format("2006-01-02") != day {
			continue
		}
		if term.Status == model.TermStatusRejected || term.TermID == excludeTermID {
			continue
		}
		exam, ok := m.exams.exams[term.ExamID]
		if !ok {
			continue
		}
		subject, ok := m.exams.subjects.subjects[exam.SubjectID]
		if !ok {
			continue
		}
		if subject.FieldOfStudy != fieldOfStudy || subject.StudyType != studyType || subject.Year != year {
			continue
		}
		result = append(result, *term)
	}
	return result, nil
}

func (m *mockExamTermRepo) Update(ctx context.Context, term *model.ExamTerm) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.terms[term.TermID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *term
	stored.Exam = nil
	m.terms[term.TermID] = &stored
	return nil
}

// HeadcountLoad 与 ListByRoomDate 同一筛选集合，按开区间 (timeAfter, timeBefore) 汇总预计人数
func (m *mockExamTermRepo) HeadcountLoad(ctx context.Context, roomName string, date time.Time, timeAfter, timeBefore string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	day := date.Format("2006-01-02")
	var total int64
	for _, term := range m.terms {
		if term.RoomName != roomName || term.Date.Format("2006-01-02") != day {
			continue
		}
		if term.Status == model.TermStatusRejected {
			continue
		}
		if term.Time >= timeBefore {
			continue
		}
		if timeAfter != "" && term.Time <= timeAfter {
			continue
		}
		total += int64(term.ExpectedHeadcount)
	}
	return total, nil
}

func (m *mockExamTermRepo) CountApprovedByExam(ctx context.Context, examID, excludeTermID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, term := range m.terms {
		if term.ExamID == examID && term.Status == model.TermStatusApproved && term.TermID != excludeTermID {
			n++
		}
	}
	return n, nil
}

func (m *mockExamTermRepo) RemoveExactDuplicates(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keep := make(map[string]*model.ExamTerm) // key: exam_id|date|time|room
	var removed int64
	for _, term := range m.terms {
		key := term.ExamID + "|" + term.Date.Format("2006-01-02") + "|" + term.Time + "|" + term.RoomName
		prev, ok := keep[key]
		if !ok {
			keep[key] = term
			continue
		}
		// 保留最早创建的一条
		if term.CreatedAt.Before(prev.CreatedAt) {
			delete(m.terms, prev.TermID)
			keep[key] = term
		} else {
			delete(m.terms, term.TermID)
		}
		removed++
	}
	return removed, nil
}

func (m *mockExamTermRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.terms)
}

// ── mockSessionPeriodRepo ──

type mockSessionPeriodRepo struct {
	mu      sync.Mutex
	periods []*model.SessionPeriod
}

func newMockSessionPeriodRepo() *mockSessionPeriodRepo {
	return &mockSessionPeriodRepo{}
}

func (m *mockSessionPeriodRepo) Create(ctx context.Context, period *model.SessionPeriod) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if period.SessionPeriodID == "" {
		period.SessionPeriodID = uuid.NewString()
	}
	m.periods = append(m.periods, period)
	return nil
}

func (m *mockSessionPeriodRepo) List(ctx context.Context) ([]model.SessionPeriod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]model.SessionPeriod, 0, len(m.periods))
	for _, p := range m.periods {
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockSessionPeriodRepo) GetCurrentPair(ctx context.Context) (*model.SessionPeriod, *model.SessionPeriod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var main, retake *model.SessionPeriod
	for _, p := range m.periods {
		if !p.IsCurrent {
			continue
		}
		switch p.Kind {
		case model.SessionKindMain:
			main = p
		case model.SessionKindRetake:
			retake = p
		}
	}
	if main == nil || retake == nil {
		return nil, nil, gorm.ErrRecordNotFound
	}
	return main, retake, nil
}

func (m *mockSessionPeriodRepo) ClearCurrent(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.periods {
		p.IsCurrent = false
	}
	return nil
}

// ── mockDemoUserRepo ──

type mockDemoUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.DemoUser
}

func newMockDemoUserRepo() *mockDemoUserRepo {
	return &mockDemoUserRepo{users: make(map[string]*model.DemoUser)}
}

func (m *mockDemoUserRepo) GetByID(ctx context.Context, id string) (*model.DemoUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (m *mockDemoUserRepo) List(ctx context.Context) ([]model.DemoUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]model.DemoUser, 0, len(m.users))
	for _, user := range m.users {
		result = append(result, *user)
	}
	return result, nil
}

func (m *mockDemoUserRepo) RemoveDuplicates(ctx context.Context) (int64, error) {
	return 0, nil
}

// ── 测试装配 ──

type testRepos struct {
	repo     *repository.Repository
	rooms    *mockRoomRepo
	subjects *mockSubjectRepo
	exams    *mockExamRepo
	terms    *mockExamTermRepo
	sessions *mockSessionPeriodRepo
	users    *mockDemoUserRepo
}

func newTestRepos() *testRepos {
	rooms := newMockRoomRepo()
	subjects := newMockSubjectRepo()
	exams := newMockExamRepo(subjects)
	terms := newMockExamTermRepo(exams)
	sessions := newMockSessionPeriodRepo()
	users := newMockDemoUserRepo()

	return &testRepos{
		repo: &repository.Repository{
			Room:          rooms,
			Subject:       subjects,
			Exam:          exams,
			ExamTerm:      terms,
			SessionPeriod: sessions,
			DemoUser:      users,
		},
		rooms:    rooms,
		subjects: subjects,
		exams:    exams,
		terms:    terms,
		sessions: sessions,
		users:    users,
	}
}

// mustDate 测试用日期解析
func mustDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}
