package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/meetme/internal/model"
	"github.com/Freeeeeet/meetme/internal/repository/memory"
	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func seedAppointments(t *testing.T) *memory.AppointmentStore {
	t.Helper()
	store := memory.NewAppointmentStore()
	for i, student := range []string{"s1", "s2"} {
		at := mathStart.Add(time.Duration(i) * time.Hour)
		require.NoError(t, store.Insert(context.Background(), &model.Appointment{
			StudentName:     "Student " + student,
			StudentEmail:    student + "@uni.edu",
			CourseID:        "MATH101",
			CourseName:      "Calculus I",
			ProfessorName:   "Prof One",
			ProfessorEmail:  "p1@uni.edu",
			AppointmentDate: at,
			EndTime:         at.Add(model.SlotDuration),
		}))
	}
	return store
}

func TestExportService_StudentCalendar(t *testing.T) {
	svc := NewExportService(seedAppointments(t), time.UTC, zap.NewNop())

	data, err := svc.StudentCalendar(context.Background(), "s1@uni.edu")
	require.NoError(t, err)

	cal, err := ics.ParseCalendar(bytes.NewReader(data))
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "Calculus I office hours", events[0].GetProperty(ics.ComponentPropertySummary).Value)

	start, err := events[0].GetStartAt()
	require.NoError(t, err)
	assert.True(t, start.Equal(mathStart))

	end, err := events[0].GetEndAt()
	require.NoError(t, err)
	assert.Equal(t, model.SlotDuration, end.Sub(start))
}

func TestExportService_CourseWorkbook(t *testing.T) {
	svc := NewExportService(seedAppointments(t), time.UTC, zap.NewNop())

	buf, name, err := svc.CourseWorkbook(context.Background(), "MATH101")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".xlsx"))

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(scheduleSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Date", "Time", "Student", "Email", "Professor"}, rows[0])
	assert.Equal(t, []string{"2024-05-01", "14:00-14:30", "Student s1", "s1@uni.edu", "Prof One"}, rows[1])
}

func TestExportService_WorkbookErrorsPropagate(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	err := styleSheet(f, "Missing", 5)
	require.Error(t, err)
	assert.ErrorContains(t, err, "set column width A:B")
	assert.ErrorContains(t, err, "Missing")

	err = setRow(f, "Missing", 2, "2024-05-01", "14:00-14:30")
	require.Error(t, err)
	assert.ErrorContains(t, err, "set cell A2")

	require.NoError(t, styleSheet(f, "Sheet1", 5))
	require.NoError(t, setRow(f, "Sheet1", 1, "Date", "Time"))
	got, err := f.GetCellValue("Sheet1", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Time", got)
}
