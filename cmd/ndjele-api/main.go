// README: Entry point; loads config, wires services, starts HTTP server and the arbitration worker.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ndjele/internal/ai"
	"ndjele/internal/config"
	"ndjele/internal/geo"
	httptransport "ndjele/internal/http"
	"ndjele/internal/infra"
	"ndjele/internal/modules/matching"
	"ndjele/internal/modules/negotiation"
	"ndjele/internal/modules/order"
	"ndjele/internal/modules/profile"
	"ndjele/internal/modules/wallet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	var advisor ai.Advisor
	if cfg.AI.GeminiKey != "" {
		gemini, err := ai.NewGeminiAdvisor(ctx, cfg.AI.GeminiKey)
		if err != nil {
			log.Fatalf("gemini init: %v", err)
		}
		defer gemini.Close()
		advisor = gemini
	} else {
		log.Print("GEMINI_API_KEY not set; AI features run on fallbacks")
	}

	var producer *infra.Producer
	var publisher order.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer = infra.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, 256)
		producer.Start(ctx)
		publisher = producer
	}

	walletSvc := wallet.NewService(wallet.NewStore(redisClient))

	orderStore := order.NewStore(dbPool)
	orderSvc := order.NewService(orderStore, walletSvc, publisher, cfg.Escrow.ArbitrationDelay, cfg.Escrow.ArbitrationTick)

	matchingStore := matching.NewStore(redisClient)
	matchingSvc := matching.NewService(matchingStore, orderSvc, advisor)

	negotiationSvc := negotiation.NewService(advisor)

	profileSvc := profile.NewService(profile.NewStore(redisClient))

	geocoder, err := geo.NewGeocoder(cfg.Maps.APIKey, advisor)
	if err != nil {
		log.Fatalf("maps init: %v", err)
	}

	server := httptransport.NewServer(httptransport.ServerDeps{
		Order:       orderSvc,
		Wallet:      walletSvc,
		Matching:    matchingSvc,
		Negotiation: negotiationSvc,
		Profile:     profileSvc,
		Geocoder:    geocoder,
		Advisor:     advisor,
	})

	go orderSvc.RunArbitrationWorker(ctx)

	httpServer := &http.Server{Addr: cfg.HTTP.Addr, Handler: server.Routes()}
	go func() {
		<-ctx.Done()
		_ = httpServer.Shutdown(context.Background())
		if producer != nil {
			producer.WaitClosed()
		}
	}()

	log.Printf("ndjele-api listening on %s", cfg.HTTP.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
