package main

import (
	"flag"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"wtfTube/crud"
	"wtfTube/errs"
	"wtfTube/events"
	"wtfTube/http"
)

// main is the app's entry point.
func main() {
	// Check if the flag "-prod" has been provided. It means that we're running in production.
	productionBool := flag.Bool("prod", false, "Provide this flag in production to ensure that a config.yaml file is provided before the application starts.")
	flag.Parse()

	// Load configuration from a config.yaml file if present, otherwise use the default dev setup.
	config, err := LoadConfig(*productionBool)
	must(err)

	// Set up structured logging. Internal errors surfaced over HTTP get
	// logged through the same logger.
	logger, err := newLogger(config.IsProd())
	must(err)
	defer logger.Sync()
	errs.SetLogger(logger)

	// Open a database connection and execute migrations.
	db := NewDB(config.Database.ConnectionInfo())
	err = Open(db, config.IsProd())
	must(err)
	defer Close(db)
	err = AutoMigrate(db)
	must(err)

	// Connect the channel-stats cache, if configured.
	var cache *redis.Client
	if config.Redis.Addr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
		})
	}

	// Connect the event broker, if configured. A nil publisher silently
	// skips publishing.
	var publisher *events.Publisher
	if config.NATS.URL != "" {
		conn, err := nats.Connect(config.NATS.URL)
		must(err)
		defer conn.Drain()
		publisher = events.NewPublisher(conn, logger)
	}

	// Start the crud services.
	services, err := crud.NewServices(
		db.Gorm,
		crud.WithUser(),
		crud.WithVideo(),
		crud.WithComment(),
		crud.WithTweet(),
		crud.WithReaction(publisher),
		crud.WithSubscription(publisher),
		crud.WithPlaylist(),
		crud.WithFeed(),
		crud.WithStats(cache, time.Duration(config.Redis.StatsTTL)*time.Second),
	)
	must(err)

	// Set up a webserver.
	server := http.NewServer(config.JWTSecret, logger, services)

	// Serve the app.
	must(server.Run(config.Port))
}

// newLogger builds the app logger: human-readable in development,
// sampled JSON in production.
func newLogger(isProd bool) (*zap.Logger, error) {
	if isProd {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// must is a little helper for shortening the panic instruction.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
