package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-WorkshopService/internal/config"
	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	"github.com/m04kA/SMC-WorkshopService/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-WorkshopService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-WorkshopService/internal/integrations/eventbus"
	appointmentsService "github.com/m04kA/SMC-WorkshopService/internal/service/appointments"
	"github.com/m04kA/SMC-WorkshopService/internal/service/appointments/models"
	"github.com/m04kA/SMC-WorkshopService/internal/service/availability"
	"github.com/m04kA/SMC-WorkshopService/pkg/logger"
	"github.com/m04kA/SMC-WorkshopService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-WorkshopService/pkg/types"
)

var jobs = []string{
	"Замена масла и фильтров",
	"Диагностика подвески",
	"Замена тормозных колодок",
	"Шиномонтаж",
	"Компьютерная диагностика двигателя",
	"Замена ремня ГРМ",
	"Заправка кондиционера",
	"Развал-схождение",
}

func main() {
	var (
		configPath = flag.String("config", "config.toml", "path to config file")
		count      = flag.Int("count", 200, "appointments to create")
		days       = flag.Int("days", 14, "spread appointments over this many days starting tomorrow")
		vehicles   = flag.Int("vehicles", 60, "distinct vehicle-client ids")
		staff      = flag.Int("staff", 8, "distinct staff ids")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New("", "warn")
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	location, err := cfg.Workshop.Location()
	if err != nil {
		log.Fatal("Invalid workshop timezone: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}

	repo := appointmentRepo.NewRepository(db)
	svc := appointmentsService.NewService(
		repo,
		availability.NewChecker(repo, log),
		simpletxmanager.NewTransactionManager(db),
		lock.NewNoopLocker(),
		eventbus.NewNoopPublisher(),
		appointmentsService.NoopMetrics{},
		location,
		log,
	)

	slots, err := workingSlots(cfg.Workshop)
	if err != nil {
		log.Fatal("Invalid workshop schedule: %v", err)
	}

	s := &seeder{
		svc:      svc,
		faker:    gofakeit.New(0),
		slots:    slots,
		today:    types.DateOnly(time.Now().In(location)),
		days:     *days,
		vehicles: *vehicles,
		staff:    *staff,
	}

	stats := s.run(context.Background(), *count)
	fmt.Printf("seed complete: created=%d, conflicts=%d, assigned=%d, completed=%d, cancelled=%d\n",
		stats.created, stats.conflicts, stats.assigned, stats.completed, stats.cancelled)
}

type seedStats struct {
	created   int
	conflicts int
	assigned  int
	completed int
	cancelled int
}

type seeder struct {
	svc      *appointmentsService.Service
	faker    *gofakeit.Faker
	slots    []types.TimeString
	today    time.Time
	days     int
	vehicles int
	staff    int
}

func (s *seeder) run(ctx context.Context, count int) seedStats {
	var stats seedStats

	for i := 0; i < count; i++ {
		date := s.today.AddDate(0, 0, s.faker.Number(1, s.days))
		at := s.slots[s.faker.Number(0, len(s.slots)-1)]

		created, err := s.svc.Create(ctx, &models.CreateAppointmentRequest{
			VehicleClientID: int64(s.faker.Number(1, s.vehicles)),
			Date:            types.FormatDate(date),
			Time:            at.String(),
			Description:     fmt.Sprintf("%s (%s %s)", s.faker.RandomString(jobs), s.faker.CarMaker(), s.faker.CarModel()),
		})
		if err != nil {
			if errors.Is(err, appointmentsService.ErrConflict) {
				stats.conflicts++
				continue
			}
			fmt.Printf("create failed: %v\n", err)
			continue
		}
		stats.created++

		// Часть записей двигаем дальше по жизненному циклу
		switch roll := s.faker.Number(1, 10); {
		case roll <= 5:
			if s.assign(ctx, created.ID) {
				stats.assigned++
				if roll == 1 && s.setStatus(ctx, created.ID, domain.StatusCompleted) {
					stats.completed++
				}
			}
		case roll == 10:
			if s.setStatus(ctx, created.ID, domain.StatusCancelled) {
				stats.cancelled++
			}
		}
	}

	return stats
}

func (s *seeder) assign(ctx context.Context, id int64) bool {
	_, err := s.svc.AssignStaff(ctx, id, &models.AssignStaffRequest{StaffID: int64(s.faker.Number(1, s.staff))})
	return err == nil
}

func (s *seeder) setStatus(ctx context.Context, id int64, status domain.AppointmentStatus) bool {
	_, err := s.svc.UpdateStatus(ctx, id, &models.UpdateStatusRequest{Status: status.String()})
	return err == nil
}

// workingSlots начала слотов рабочего дня мастерской
func workingSlots(w config.WorkshopConfig) ([]types.TimeString, error) {
	if w.SlotMinutes <= 0 {
		return nil, errors.New("slot length must be positive")
	}

	open, err := types.NewTimeStringFromString(w.OpenTime)
	if err != nil {
		return nil, err
	}
	closeAt, err := types.NewTimeStringFromString(w.CloseTime)
	if err != nil {
		return nil, err
	}

	// слот должен закончиться не позже закрытия
	var slots []types.TimeString
	for current := open; ; {
		end, err := current.AddMinutes(w.SlotMinutes)
		if err != nil || end.IsAfter(closeAt) {
			break
		}
		slots = append(slots, current)
		current = end
	}

	if len(slots) == 0 {
		return nil, errors.New("workshop has no working slots")
	}
	return slots, nil
}
