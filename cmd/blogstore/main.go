package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/impactorbit/impactorbit-backend/handlers"
	"github.com/impactorbit/impactorbit-backend/internal/blogs"
	"github.com/impactorbit/impactorbit-backend/internal/comments"
	"github.com/impactorbit/impactorbit-backend/internal/database"
	"github.com/impactorbit/impactorbit-backend/internal/docstore"
	"github.com/impactorbit/impactorbit-backend/internal/messages"
	"github.com/impactorbit/impactorbit-backend/internal/team"
)

// Standalone blog-store service: the full content API without auth, media
// or metrics. Useful for local frontend work and integration tests.
func main() {
	port := os.Getenv("BLOGSTORE_PORT")
	if port == "" {
		port = "5011"
	}

	r := gin.New()
	r.Use(gin.Recovery())

	var store docstore.Store
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		client, err := database.ConnectMongo(context.Background(), uri, 10*time.Second)
		if err != nil {
			log.Printf("warning: cannot connect to MongoDB (%v), using in-memory store", err)
			store = docstore.NewMemoryStore()
		} else {
			db := os.Getenv("MONGODB_DATABASE")
			if db == "" {
				db = "impactorbit"
			}
			store = docstore.NewMongoStore(client, db)
		}
	} else {
		store = docstore.NewMemoryStore()
	}

	api := r.Group("/api")
	blogHandler := handlers.NewBlogHandler(blogs.NewRegistry(store), blogs.NewCoordinator(store))
	blogHandler.RegisterPublic(api)
	blogHandler.RegisterAdmin(api)
	commentHandler := handlers.NewCommentHandler(comments.NewStore(store))
	commentHandler.RegisterPublic(api)
	commentHandler.RegisterAdmin(api)
	messageHandler := handlers.NewMessageHandler(messages.NewStore(store))
	messageHandler.RegisterPublic(api)
	messageHandler.RegisterAdmin(api)
	teamHandler := handlers.NewTeamHandler(team.NewStore(store), nil)
	teamHandler.RegisterPublic(api)
	teamHandler.RegisterAdmin(api)

	log.Printf("blogstore service listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
