package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Freeeeeet/meetme/internal/app"
	"github.com/Freeeeeet/meetme/internal/model"
	"github.com/Freeeeeet/meetme/internal/repository"
	"github.com/Freeeeeet/meetme/internal/repository/memory"
	"github.com/Freeeeeet/meetme/internal/service"
)

type nopNotifier struct{}

func (nopNotifier) Emit(context.Context, model.Notification) {}

// tally хранит итог одного прогона
type tally struct {
	Booked      int
	Unavailable int
	Other       int
	Restored    bool
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("claimsim", flag.ContinueOnError)
	n := fs.Int("n", 50, "number of concurrent Book calls")
	dsn := fs.String("dsn", "", "Postgres DSN; in-memory stores when empty")
	migrations := fs.String("migrations", "migrations", "goose migrations directory (with -dsn)")
	verbose := fs.Bool("v", false, "development logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *n < 1 {
		return errors.New("-n must be positive")
	}

	logger := zap.NewNop()
	if *verbose {
		logger = app.NewLogger("development", "debug")
	}

	slots, appointments, cleanup, err := openStores(ctx, *dsn, *migrations, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	booking := service.NewBookingService(slots, appointments, nopNotifier{}, service.BookingConfig{Location: time.UTC}, logger)
	slotService := service.NewSlotService(slots, time.UTC, logger)

	start := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	slot := model.Slot{
		ProfessorEmail: "claimsim-professor@meetme.local",
		CourseID:       "CLAIMSIM",
		Date:           start.Format(model.DateLayout),
		Time:           start.Format(model.TimeLayout),
	}
	if err := slotService.Publish(ctx, slot); err != nil {
		return fmt.Errorf("seed slot: %w", err)
	}

	result := simulate(ctx, booking, start, *n)

	fmt.Fprintf(out, "slot %s %s %s\n", slot.CourseID, slot.Date, slot.Time)
	fmt.Fprintf(out, "callers:     %d\n", *n)
	fmt.Fprintf(out, "booked:      %d\n", result.Booked)
	fmt.Fprintf(out, "unavailable: %d\n", result.Unavailable)
	fmt.Fprintf(out, "other:       %d\n", result.Other)
	fmt.Fprintf(out, "restored:    %t\n", result.Restored)

	if result.Booked != 1 || result.Unavailable != *n-1 || !result.Restored {
		return errors.New("claim invariant violated")
	}

	// удаляем восстановленный слот, чтобы не оставлять следов в базе
	return slotService.Withdraw(ctx, slot)
}

func simulate(ctx context.Context, booking *service.BookingService, start time.Time, n int) tally {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		result  tally
		winners []*model.Appointment
		gate    = make(chan struct{})
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-gate

			appointment, err := booking.Book(ctx, model.BookingRequest{
				StudentName:     fmt.Sprintf("Student %d", i),
				StudentEmail:    fmt.Sprintf("student%d@meetme.local", i),
				CourseID:        "CLAIMSIM",
				CourseName:      "Claim simulation",
				ProfessorName:   "Claim Professor",
				AppointmentDate: start,
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				result.Booked++
				winners = append(winners, appointment)
			case errors.Is(err, model.ErrSlotUnavailable):
				result.Unavailable++
			default:
				result.Other++
			}
		}(i)
	}
	close(gate)
	wg.Wait()

	result.Restored = len(winners) > 0
	for _, a := range winners {
		if err := booking.Cancel(ctx, a.ID); err != nil {
			result.Restored = false
		}
	}
	return result
}

func openStores(ctx context.Context, dsn, migrations string, logger *zap.Logger) (service.SlotStore, service.AppointmentStore, func(), error) {
	if dsn == "" {
		return memory.NewSlotStore(), memory.NewAppointmentStore(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create pool: %w", err)
	}

	migrator, err := app.NewMigrator(pool, migrations, logger)
	if err != nil {
		pool.Close()
		return nil, nil, nil, err
	}
	defer migrator.Close()
	if err := migrator.Run(ctx); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}

	return repository.NewSlotRepository(pool), repository.NewAppointmentRepository(pool), pool.Close, nil
}
