// Command moodlist runs the mood playlist backend: Spotify OAuth login,
// mood-based track sampling, and playlist persistence.
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/moodlist/moodlist/internal/config"
	"github.com/moodlist/moodlist/internal/db"
	"github.com/moodlist/moodlist/internal/mood"
	"github.com/moodlist/moodlist/internal/playlist"
	"github.com/moodlist/moodlist/internal/spotify"
	"github.com/moodlist/moodlist/internal/web"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Optional .env for local development.
	_ = godotenv.Load()

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	setLogLevel(cfg.LogLevel)

	table, err := loadMoodTable(cfg)
	if err != nil {
		return err
	}

	tokens := spotify.NewTokenCache(cfg.SpotifyClientID, cfg.SpotifyClientSecret)
	search := spotify.NewClient(tokens)
	resolver := mood.NewResolver(table, nil)
	sampler := playlist.NewSampler(search, resolver, nil)
	account := spotify.NewAccount(cfg.SpotifyClientID, cfg.SpotifyClientSecret, cfg.SpotifyRedirectURI)

	sessions, cleanup, err := newSessionStore(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	cookies := web.NewCookieCodec(cfg.SessionSecret, cfg.SessionTTL(), cfg.IsProduction())
	handlers := web.NewHandlers(account, account, sampler, sessions, cookies, cfg.FrontendURL)

	server := web.NewServer(web.ServerConfig{
		Addr:        cfg.Addr(),
		FrontendURL: cfg.FrontendURL,
		StaticDir:   cfg.StaticDir,
		RateLimit:   cfg.APIRateLimit,
		RateBurst:   cfg.APIRateBurst,
		Handlers:    handlers,
	})

	return server.Run()
}

// loadMoodTable returns the override table when configured, otherwise nil to
// select the built-in mapping.
func loadMoodTable(cfg *config.Config) (map[string][]string, error) {
	if cfg.MoodTablePath == "" {
		return nil, nil
	}
	table, err := mood.LoadTable(cfg.MoodTablePath)
	if err != nil {
		return nil, err
	}
	log.Info().Str("path", cfg.MoodTablePath).Int("moods", len(table)).Msg("loaded mood table override")
	return table, nil
}

// newSessionStore picks PostgreSQL-backed sessions when DATABASE_URL is set,
// in-memory otherwise.
func newSessionStore(cfg *config.Config) (web.SessionManager, func(), error) {
	if cfg.DatabaseURL == "" {
		return web.NewSessionStore(cfg.SessionTTL()), func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, nil, err
	}
	log.Info().Msg("database connected")

	return web.NewDBSessionStore(database, cfg.SessionTTL()), database.Close, nil
}

func setLogLevel(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		log.Warn().Str("level", level).Msg("unknown log level, using info")
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}
