package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/meetme/internal/model"
	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const scheduleSheet = "Appointments"

// ExportService выгружает записи в iCalendar и Excel
type ExportService struct {
	appointments AppointmentStore
	loc          *time.Location
	logger       *zap.Logger
	now          func() time.Time
}

func NewExportService(appointments AppointmentStore, loc *time.Location, logger *zap.Logger) *ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ExportService{appointments: appointments, loc: loc, logger: logger, now: time.Now}
}

// StudentCalendar строит .ics со всеми записями студента
func (s *ExportService) StudentCalendar(ctx context.Context, studentEmail string) ([]byte, error) {
	appointments, err := s.appointments.FindByStudent(ctx, studentEmail)
	if err != nil {
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//MeetMe//Office Hours//EN")
	cal.SetName("MeetMe office hours")

	stamp := s.now().UTC()
	for _, a := range appointments {
		event := cal.AddEvent(a.ID.String() + "@meetme")
		event.SetDtStampTime(stamp)
		event.SetStartAt(a.AppointmentDate.UTC())
		event.SetEndAt(a.EndTime.UTC())
		event.SetSummary(fmt.Sprintf("%s office hours", a.CourseName))
		event.SetDescription(fmt.Sprintf("%s (%s) with %s", a.CourseName, a.CourseID, a.ProfessorName))
		if a.ProfessorEmail != "" {
			event.SetOrganizer("mailto:" + a.ProfessorEmail)
		}
	}

	return []byte(cal.Serialize()), nil
}

// CourseWorkbook строит .xlsx с записями на курс
func (s *ExportService) CourseWorkbook(ctx context.Context, courseID string) (*bytes.Buffer, string, error) {
	appointments, err := s.appointments.FindByCourse(ctx, courseID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", scheduleSheet); err != nil {
		return nil, "", fmt.Errorf("rename sheet: %w", err)
	}

	headers := []any{"Date", "Time", "Student", "Email", "Professor"}
	if err := styleSheet(f, scheduleSheet, len(headers)); err != nil {
		return nil, "", err
	}
	if err := setRow(f, scheduleSheet, 1, headers...); err != nil {
		return nil, "", err
	}

	for i, a := range appointments {
		start := a.AppointmentDate.In(s.loc)
		err := setRow(f, scheduleSheet, i+2,
			start.Format(model.DateLayout),
			fmt.Sprintf("%s-%s", start.Format(model.TimeLayout), a.EndTime.In(s.loc).Format(model.TimeLayout)),
			a.StudentName,
			a.StudentEmail,
			a.ProfessorName,
		)
		if err != nil {
			return nil, "", err
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("Failed to write workbook", zap.String("course_id", courseID), zap.Error(err))
		return nil, "", fmt.Errorf("write workbook: %w", err)
	}

	return buf, fmt.Sprintf("%s_appointments.xlsx", courseID), nil
}

// styleSheet задаёт ширину колонок и стиль строки заголовков
func styleSheet(f *excelize.File, sheet string, columns int) error {
	widths := []struct {
		from, to string
		width    float64
	}{
		{"A", "B", 12},
		{"C", "D", 26},
		{"E", "E", 20},
	}
	for _, w := range widths {
		if err := f.SetColWidth(sheet, w.from, w.to, w.width); err != nil {
			return fmt.Errorf("set column width %s:%s: %w", w.from, w.to, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", cell(colName(columns-1), 1), headerStyle); err != nil {
		return fmt.Errorf("set header style: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	for i, v := range values {
		addr := cell(colName(i), row)
		if err := f.SetCellValue(sheet, addr, v); err != nil {
			return fmt.Errorf("set cell %s: %w", addr, err)
		}
	}
	return nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
