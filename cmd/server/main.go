// Command server runs the larder API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"larder/internal/chat/assistant"
	chathandler "larder/internal/chat/handler"
	chatservice "larder/internal/chat/service"
	chatstore "larder/internal/chat/store"
	"larder/internal/events"
	pantryhandler "larder/internal/pantry/handler"
	pantryservice "larder/internal/pantry/service"
	pantrystore "larder/internal/pantry/store"
	"larder/internal/platform/cache"
	"larder/internal/platform/config"
	"larder/internal/platform/db"
	"larder/internal/platform/httpserver"
	"larder/internal/platform/logger"
	"larder/internal/platform/metrics"
	platformredis "larder/internal/platform/redis"
	profilehandler "larder/internal/profile/handler"
	profileservice "larder/internal/profile/service"
	profilestore "larder/internal/profile/store"
	recipehandler "larder/internal/recipe/handler"
	recipeservice "larder/internal/recipe/service"
	recipestore "larder/internal/recipe/store"
	shoppinghandler "larder/internal/shopping/handler"
	shoppingservice "larder/internal/shopping/service"
	shoppingstore "larder/internal/shopping/store"
	transporthttp "larder/internal/transport/http"
)

const (
	shutdownTimeout  = 10 * time.Second
	memoryCacheSize  = 4096
	memoryEventLimit = 1024
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Mode)
	slog.SetDefault(log)
	m := metrics.New()

	pool, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
	}

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var matchCache cache.Cache
	if redisClient != nil {
		matchCache = cache.NewRedis(redisClient.Client)
		log.Info("match cache backed by redis")
	} else {
		matchCache = cache.NewMemory(memoryCacheSize)
		log.Info("match cache backed by process memory")
	}

	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := events.NewKafka(ctx, cfg.KafkaBrokers, cfg.EventsTopic)
		if err != nil {
			return err
		}
		defer kafka.Close()
		publisher = kafka
		log.Info("events published to kafka", "topic", cfg.EventsTopic)
	} else {
		publisher = events.NewMemory(memoryEventLimit)
		log.Info("events kept in process memory")
	}

	var asst assistant.Assistant
	if cfg.IsTest() || cfg.ServiceURL == "" {
		asst = assistant.NewCanned()
	} else {
		asst = assistant.NewHTTP(cfg.ServiceURL, cfg.ServiceKey)
	}

	var (
		ingredientStore   pantrystore.IngredientStore
		leftoverStore     pantrystore.LeftoverStore
		recipeStore       recipestore.RecipeStore
		listStore         shoppingstore.ListStore
		itemStore         shoppingstore.ItemStore
		profileStore      profilestore.ProfileStore
		conversationStore chatstore.ConversationStore
		messageStore      chatstore.MessageStore
	)
	if pool != nil {
		ingredientStore = pantrystore.NewPostgresIngredients(pool)
		leftoverStore = pantrystore.NewPostgresLeftovers(pool)
		recipeStore = recipestore.NewPostgres(pool)
		listStore = shoppingstore.NewPostgresLists(pool)
		itemStore = shoppingstore.NewPostgresItems(pool)
		profileStore = profilestore.NewPostgres(pool)
		conversationStore = chatstore.NewPostgresConversations(pool)
		messageStore = chatstore.NewPostgresMessages(pool)
	} else {
		log.Warn("no database configured, using in-memory stores")
		ingredients := pantrystore.NewInMemoryIngredients()
		ingredientStore = ingredients
		leftoverStore = pantrystore.NewInMemoryLeftovers()
		recipeStore = recipestore.NewInMemory()
		lists := shoppingstore.NewInMemoryLists()
		items := shoppingstore.NewInMemoryItems()
		lists.AttachItems(items)
		listStore, itemStore = lists, items
		profileStore = profilestore.NewInMemory()
		conversations := chatstore.NewInMemoryConversations()
		messages := chatstore.NewInMemoryMessages()
		conversations.AttachMessages(messages)
		conversationStore, messageStore = conversations, messages
	}

	pantrySvc := pantryservice.New(ingredientStore, leftoverStore,
		pantryservice.WithLogger(log),
		pantryservice.WithPublisher(publisher),
		pantryservice.WithMetrics(m),
	)
	recipeSvc := recipeservice.New(recipeStore, ingredientStore,
		recipeservice.WithLogger(log),
		recipeservice.WithPublisher(publisher),
		recipeservice.WithMetrics(m),
		recipeservice.WithCache(matchCache),
	)
	shoppingSvc := shoppingservice.New(listStore, itemStore, recipeSvc, ingredientStore,
		shoppingservice.WithLogger(log),
		shoppingservice.WithPublisher(publisher),
		shoppingservice.WithMetrics(m),
	)
	profileSvc := profileservice.New(profileStore,
		profileservice.WithLogger(log),
		profileservice.WithPublisher(publisher),
		profileservice.WithMetrics(m),
	)
	chatSvc := chatservice.New(conversationStore, messageStore, asst,
		chatservice.WithLogger(log),
		chatservice.WithPublisher(publisher),
		chatservice.WithMetrics(m),
		chatservice.WithPantry(ingredientStore),
	)

	router := transporthttp.New(transporthttp.Handlers{
		Pantry:   pantryhandler.New(pantrySvc),
		Recipes:  recipehandler.New(recipeSvc),
		Shopping: shoppinghandler.New(shoppingSvc),
		Profile:  profilehandler.New(profileSvc),
		Chat:     chathandler.New(chatSvc),
	}, []byte(cfg.JWTSigningKey))

	srv := httpserver.New(cfg.Addr, router)
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Addr, "mode", cfg.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
