package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/meetme/internal/model"
	"go.uber.org/zap"
)

// ClassStore хранилище курсов
type ClassStore interface {
	Create(ctx context.Context, class *model.Class) error
	List(ctx context.Context) ([]*model.Class, error)
	GetByCourseID(ctx context.Context, courseID string) (*model.Class, error)
	ExistingCourseIDs(ctx context.Context, courseIDs []string) (map[string]bool, error)
	Delete(ctx context.Context, courseID string) (bool, error)
}

// EnrollmentStore хранилище записей студентов на курсы
type EnrollmentStore interface {
	Create(ctx context.Context, e *model.Enrollment) error
	StudentsOf(ctx context.Context, courseID string) ([]*model.Enrollment, error)
	ClassesOf(ctx context.Context, studentEmail string) ([]*model.Class, error)
}

type ClassService struct {
	classRepo      ClassStore
	enrollmentRepo EnrollmentStore
	users          UserStore
	logger         *zap.Logger
}

func NewClassService(classRepo ClassStore, enrollmentRepo EnrollmentStore, users UserStore, logger *zap.Logger) *ClassService {
	return &ClassService{
		classRepo:      classRepo,
		enrollmentRepo: enrollmentRepo,
		users:          users,
		logger:         logger,
	}
}

// Create создаёт курс
func (s *ClassService) Create(ctx context.Context, class *model.Class) error {
	class.CourseID = strings.TrimSpace(class.CourseID)
	if class.CourseID == "" || class.CourseName == "" || class.ProfessorName == "" {
		return model.Invalid("course_id, course_name and professor_name are required")
	}

	if err := s.classRepo.Create(ctx, class); err != nil {
		return err
	}

	s.logger.Info("Class created",
		zap.String("course_id", class.CourseID),
		zap.String("professor_name", class.ProfessorName),
	)
	return nil
}

func (s *ClassService) List(ctx context.Context) ([]*model.Class, error) {
	return s.classRepo.List(ctx)
}

// Get получает курс по коду
func (s *ClassService) Get(ctx context.Context, courseID string) (*model.Class, error) {
	class, err := s.classRepo.GetByCourseID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get class: %w", err)
	}
	if class == nil {
		return nil, model.ErrClassNotFound
	}
	return class, nil
}

// Delete удаляет курс
func (s *ClassService) Delete(ctx context.Context, courseID string) error {
	deleted, err := s.classRepo.Delete(ctx, courseID)
	if err != nil {
		return err
	}
	if !deleted {
		return model.ErrClassNotFound
	}

	s.logger.Info("Class deleted", zap.String("course_id", courseID))
	return nil
}

// Enroll записывает студента на курс
func (s *ClassService) Enroll(ctx context.Context, e model.Enrollment) error {
	if err := model.Validate(e); err != nil {
		return err
	}
	if _, err := s.Get(ctx, e.CourseID); err != nil {
		return err
	}

	if err := s.enrollmentRepo.Create(ctx, &e); err != nil {
		return err
	}

	s.logger.Info("Student enrolled",
		zap.String("student_email", e.StudentEmail),
		zap.String("course_id", e.CourseID),
	)
	return nil
}

func (s *ClassService) StudentsOf(ctx context.Context, courseID string) ([]*model.Enrollment, error) {
	return s.enrollmentRepo.StudentsOf(ctx, courseID)
}

func (s *ClassService) ClassesOf(ctx context.Context, studentEmail string) ([]*model.Class, error) {
	return s.enrollmentRepo.ClassesOf(ctx, studentEmail)
}

// ProfessorEmail находит email профессора курса: из курса, иначе по имени пользователя профессора
func (s *ClassService) ProfessorEmail(ctx context.Context, courseID string) (string, error) {
	class, err := s.Get(ctx, courseID)
	if err != nil {
		return "", err
	}
	if class.ProfessorEmail != "" {
		return class.ProfessorEmail, nil
	}

	user, err := s.users.GetByUsername(ctx, class.ProfessorName)
	if err != nil {
		return "", fmt.Errorf("get professor: %w", err)
	}
	if user == nil {
		return "", model.ErrProfessorNotFound
	}
	return user.Email, nil
}

// WithExistingClass оставляет только записи, курс которых ещё существует
func (s *ClassService) WithExistingClass(ctx context.Context, appointments []*model.Appointment) ([]*model.Appointment, error) {
	if len(appointments) == 0 {
		return appointments, nil
	}

	ids := make([]string, 0, len(appointments))
	for _, a := range appointments {
		ids = append(ids, a.CourseID)
	}

	existing, err := s.classRepo.ExistingCourseIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*model.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if existing[a.CourseID] {
			out = append(out, a)
		}
	}
	return out, nil
}
