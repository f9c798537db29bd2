package main

import (
	"context"

	"roomly/internal/bookings/events"
	bookinghandler "roomly/internal/bookings/handler"
	bookingrepo "roomly/internal/bookings/repository"
	bookingservice "roomly/internal/bookings/service"
	bookingvalidator "roomly/internal/bookings/validator"
	roomhandler "roomly/internal/rooms/handler"
	roomrepo "roomly/internal/rooms/repository"
	roomservice "roomly/internal/rooms/service"
	roomvalidator "roomly/internal/rooms/validator"
	userhandler "roomly/internal/users/handler"
	userrepo "roomly/internal/users/repository"
	userservice "roomly/internal/users/service"
	"roomly/pkg/app"
	"roomly/pkg/config"
	"roomly/pkg/kafka"
	kafkaconfig "roomly/pkg/kafka/config"
)

const ServiceName = "roomly"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting room booking service")

	roomSvc := initRoomService(cfg)
	userSvc := initUserService(cfg)
	bookingSvc, producer := initBookingService(cfg, roomSvc, userSvc)
	if producer != nil {
		defer func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close event producer", "error", err)
			}
		}()
	}

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		bookinghandler.NewBookingHandler(bookingSvc, cfg),
		roomhandler.NewRoomHandler(roomSvc, cfg),
		userhandler.NewUserHandler(userSvc, cfg),
	)
	serverApp.Run()
}

func initRoomService(cfg *config.Config) roomservice.RoomService {
	repo := roomrepo.NewMongoRoomRepository(cfg)
	svc := roomservice.NewRoomService(repo, roomvalidator.NewRoomValidator(cfg.Log), cfg)
	cfg.Log.Info("Room service initialized", "database", cfg.MongoDatabaseName)
	return svc
}

func initUserService(cfg *config.Config) userservice.UserService {
	repo := userrepo.NewMongoUserRepository(cfg)
	svc := userservice.NewUserService(repo, cfg)
	cfg.Log.Info("User service initialized", "database", cfg.MongoDatabaseName)
	return svc
}

func initBookingService(
	cfg *config.Config,
	rooms bookingservice.RoomDirectory,
	users bookingservice.UserDirectory,
) (bookingservice.BookingService, *kafka.Producer) {
	repo := bookingrepo.NewMongoBookingRepository(cfg)
	lockRepo := bookingrepo.NewRoomLockRepository(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()
	if err := lockRepo.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to ensure room lock indexes", "error", err)
	}

	var (
		producer  *kafka.Producer
		publisher events.Publisher
	)
	if cfg.KafkaBrokers != "" {
		p, err := kafka.NewProducer(kafkaconfig.Load(), cfg.BookingEventTopic)
		if err != nil {
			cfg.Log.Fatal("Failed to create event producer", "error", err)
		}
		producer = p
		publisher = events.NewKafkaPublisher(producer, ServiceName)
		cfg.Log.Info("Booking event publication enabled", "topic", cfg.BookingEventTopic)
	} else {
		cfg.Log.Info("Booking event publication disabled (no Kafka brokers configured)")
	}

	svc := bookingservice.NewBookingService(
		repo,
		lockRepo,
		rooms,
		users,
		bookingvalidator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return svc, producer
}
