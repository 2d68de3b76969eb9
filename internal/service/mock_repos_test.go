package service

import (
	"context"
	"sort"
	"sync"

	"github.com/Freeeeeet/meetme/internal/model"
	"github.com/google/uuid"
)

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Email]; ok {
		return model.ErrEmailTaken
	}
	cp := *user
	m.users[user.Email] = &cp
	return nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) SetTelegramChatID(_ context.Context, email string, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return model.ErrUserNotFound
	}
	u.TelegramChatID = chatID
	return nil
}

type mockClassRepo struct {
	classes map[string]*model.Class
}

func newMockClassRepo() *mockClassRepo {
	return &mockClassRepo{classes: make(map[string]*model.Class)}
}

func (m *mockClassRepo) Create(_ context.Context, class *model.Class) error {
	if _, ok := m.classes[class.CourseID]; ok {
		return model.ErrDuplicateClass
	}
	class.ID = uuid.New()
	cp := *class
	m.classes[class.CourseID] = &cp
	return nil
}

func (m *mockClassRepo) List(_ context.Context) ([]*model.Class, error) {
	out := make([]*model.Class, 0, len(m.classes))
	for _, c := range m.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseID < out[j].CourseID })
	return out, nil
}

func (m *mockClassRepo) GetByCourseID(_ context.Context, courseID string) (*model.Class, error) {
	return m.classes[courseID], nil
}

func (m *mockClassRepo) ExistingCourseIDs(_ context.Context, courseIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	for _, id := range courseIDs {
		if _, ok := m.classes[id]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (m *mockClassRepo) Delete(_ context.Context, courseID string) (bool, error) {
	if _, ok := m.classes[courseID]; !ok {
		return false, nil
	}
	delete(m.classes, courseID)
	return true, nil
}

type mockEnrollmentRepo struct {
	classes     *mockClassRepo
	enrollments []*model.Enrollment
}

func (m *mockEnrollmentRepo) Create(_ context.Context, e *model.Enrollment) error {
	for _, existing := range m.enrollments {
		if existing.StudentEmail == e.StudentEmail && existing.CourseID == e.CourseID {
			return model.ErrAlreadyEnrolled
		}
	}
	cp := *e
	m.enrollments = append(m.enrollments, &cp)
	return nil
}

func (m *mockEnrollmentRepo) StudentsOf(_ context.Context, courseID string) ([]*model.Enrollment, error) {
	out := make([]*model.Enrollment, 0)
	for _, e := range m.enrollments {
		if e.CourseID == courseID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEnrollmentRepo) ClassesOf(_ context.Context, studentEmail string) ([]*model.Class, error) {
	out := make([]*model.Class, 0)
	for _, e := range m.enrollments {
		if c, ok := m.classes.classes[e.CourseID]; ok && e.StudentEmail == studentEmail {
			out = append(out, c)
		}
	}
	return out, nil
}

type mockChatRepo struct {
	messages []*model.ChatMessage
}

func (m *mockChatRepo) Save(_ context.Context, msg *model.ChatMessage) error {
	msg.ID = uuid.New()
	cp := *msg
	m.messages = append(m.messages, &cp)
	return nil
}

func (m *mockChatRepo) History(_ context.Context, user1, user2 string) ([]*model.ChatMessage, error) {
	out := make([]*model.ChatMessage, 0)
	for _, msg := range m.messages {
		if (msg.SenderID == user1 && msg.ReceiverID == user2) || (msg.SenderID == user2 && msg.ReceiverID == user1) {
			out = append(out, msg)
		}
	}
	return out, nil
}
