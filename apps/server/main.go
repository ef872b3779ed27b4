package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"holdemserver/apps/server/internal/gateway"
	"holdemserver/apps/server/internal/lobby"
	"holdemserver/apps/server/internal/table"
	"holdemserver/holdem"
)

var cli struct {
	Addr         string `short:"a" default:":8080" env:"HOLDEM_ADDR" help:"Address to bind the WebSocket server to."`
	LogLevel     string `short:"l" default:"info" env:"HOLDEM_LOG_LEVEL" help:"Log level: debug, info, warn, error."`
	MaxPlayers   int    `default:"6" env:"HOLDEM_MAX_PLAYERS" help:"Seats per table."`
	Variant      string `default:"no_limit" env:"HOLDEM_VARIANT" help:"no_limit or fixed_limit."`
	SmallBlind   int64  `default:"50" env:"HOLDEM_SMALL_BLIND"`
	BigBlind     int64  `default:"100" env:"HOLDEM_BIG_BLIND"`
	MinBuyIn     int64  `default:"1000" env:"HOLDEM_MIN_BUYIN"`
	MaxBuyIn     int64  `default:"20000" env:"HOLDEM_MAX_BUYIN"`
	DefaultBuyIn int64  `default:"5000" env:"HOLDEM_DEFAULT_BUYIN" help:"Buy-in used when a connection omits ?buy_in="`
}

func main() {
	kctx := kong.Parse(&cli)

	level, err := zerolog.ParseLevel(cli.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	variant := holdem.NoLimit
	if cli.Variant == "fixed_limit" {
		variant = holdem.FixedLimit
	}

	defaultConfig := table.TableConfig{
		MaxPlayers: uint16(cli.MaxPlayers),
		Variant:    variant,
		SmallBlind: cli.SmallBlind,
		BigBlind:   cli.BigBlind,
		MinBuyIn:   cli.MinBuyIn,
		MaxBuyIn:   cli.MaxBuyIn,
	}

	lby := lobby.New(defaultConfig, logger.With().Str("component", "lobby").Logger())
	gw := gateway.New(lby, logger.With().Str("component", "gateway").Logger(), cli.DefaultBuyIn)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.HandleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: cli.Addr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", cli.Addr).Str("variant", cli.Variant).
			Int64("small_blind", cli.SmallBlind).Int64("big_blind", cli.BigBlind).
			Msg("starting websocket server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")
		lby.CloseAll()
		return srv.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
		kctx.Exit(1)
	}
}
