package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joshua-takyi/citypulse/internal/metrics"
	"github.com/joshua-takyi/citypulse/internal/models"
	"github.com/joshua-takyi/citypulse/internal/services"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Logger     *slog.Logger
	Cloudinary *cloudinary.Cloudinary
	Metrics    *metrics.Metrics
	// Database clients
	SupabaseClient     *supabase.Client
	MongoDBClient      *mongo.Client
	UserService        *services.UserService
	EventService       *services.EventService
	FeedService        *services.FeedService
	SearchService      *services.SearchService
	InteractionService *services.InteractionService
	ChatService        *services.ChatService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	logger *slog.Logger,
	cloudinary *cloudinary.Cloudinary,
	supabaseClient *supabase.Client,
	mongoDBClient *mongo.Client,
	supaUrl, supaKey string,
) *Container {
	// Initialize repositories
	supa := models.SupabaseNewRepo(supabaseClient, supaUrl, supaKey)
	mongo := models.MongodbNewRepo(mongoDBClient)

	userService := services.NewUserService(supa)
	eventService := services.NewEventService(supa, mongo)
	feedService := services.NewFeedService(supa, mongo)
	searchService := services.NewSearchService(supa, mongo)
	interactionService := services.NewInteractionService(supa, mongo)
	chatService := services.NewChatService(supa, mongo)

	return &Container{
		Logger:             logger,
		Cloudinary:         cloudinary,
		Metrics:            metrics.New(),
		SupabaseClient:     supabaseClient,
		MongoDBClient:      mongoDBClient,
		UserService:        userService,
		EventService:       eventService,
		FeedService:        feedService,
		SearchService:      searchService,
		InteractionService: interactionService,
		ChatService:        chatService,
	}
}
