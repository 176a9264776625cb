package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"storyreel/api"
	"storyreel/comfy"
	"storyreel/composer"
	"storyreel/config"
	"storyreel/fetch"
	"storyreel/janitor"
	"storyreel/kafka"
	"storyreel/pipeline"
	"storyreel/runner"
	"storyreel/status"
	"storyreel/storage"
	"storyreel/video"
)

const (
	// DefaultAPIPort is the default port for the HTTP API server
	DefaultAPIPort = ":8080"

	// DefaultComfyURL is the default media generation service address
	DefaultComfyURL = "http://localhost:8188"

	// DefaultComposerURL is the default frame renderer address
	DefaultComposerURL = "http://localhost:8189"
)

func main() {
	// Command-line flags
	batchMode := flag.Bool("batch", false, "Run in batch mode (render storyboards from the input/ directory)")
	kafkaMode := flag.Bool("kafka", false, "Run in Kafka consumer mode (render jobs from the topic)")
	apiPort := flag.String("port", DefaultAPIPort, "API server port (e.g., :8080)")
	flag.Parse()

	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	log.Println("🎞  Storyreel Render Service - Starting...")

	run, taskStore := buildRunner()

	if *batchMode {
		// Batch mode: render all storyboard files in the input/ directory
		log.Println("📁 Running in BATCH mode")
		if err := run.ProcessFromDirectory(context.Background(), config.InputDir); err != nil {
			log.Fatalf("❌ Batch rendering failed: %v", err)
		}
		os.Exit(0)
	}

	if *kafkaMode {
		// Kafka mode: consume render jobs from the topic
		log.Println("📨 Running in KAFKA consumer mode")

		kafkaConfig := kafka.JobConsumerConfig{
			Brokers: kafka.GetBrokers(),
			Topic:   kafka.GetTopic(),
			GroupID: kafka.GetGroupID(),
			Runner:  run,
		}

		log.Printf("🔗 Kafka Brokers: %v", kafkaConfig.Brokers)
		log.Printf("📋 Topic: %s", kafkaConfig.Topic)
		log.Printf("👥 Consumer Group: %s", kafkaConfig.GroupID)

		if err := kafka.StartJobConsumerWithGracefulShutdown(kafkaConfig); err != nil {
			log.Fatalf("❌ Kafka consumer failed: %v", err)
		}
		os.Exit(0)
	}

	// API mode: serve render requests over HTTP
	log.Println("🌐 Running in API mode")

	jan := janitor.FromEnv()
	if err := jan.Start(config.JanitorSchedule); err != nil {
		log.Printf("Warning: janitor not started: %v", err)
	}
	defer jan.Stop()

	router := api.NewRouter(api.NewStoryboardController(run, taskStore))

	log.Printf("🚀 API Server listening on %s", *apiPort)
	log.Println("📌 Endpoints:")
	log.Println("   POST /api/storyboards  - Submit a storyboard render job")
	log.Println("   GET  /api/tasks/:id    - Poll render task status")
	log.Println("   GET  /api/health       - Health check")

	if err := http.ListenAndServe(*apiPort, router); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}

// buildRunner wires the full render stack from the environment.
func buildRunner() (*runner.Runner, status.Store) {
	comfyURL := getEnvOrDefault("COMFY_URL", DefaultComfyURL)
	composerURL := getEnvOrDefault("COMPOSER_URL", DefaultComposerURL)

	comfyClient := comfy.NewClient(comfyURL)
	composerClient := composer.NewClient(composerURL)
	downloader := fetch.NewDownloader()
	toolkit := video.NewService()

	proc := pipeline.NewProcessor(comfyClient, comfyClient, composerClient, downloader, toolkit)

	taskStore := status.NewFromEnv()

	var uploader runner.Uploader
	if s3 := storage.S3FromEnv(context.Background()); s3 != nil {
		log.Println("S3 uploads enabled")
		uploader = s3
	}

	var publisher runner.VideoPublisher
	if pub := storage.PublisherFromEnv(); pub != nil {
		publisher = pub
	}

	return runner.New(proc, toolkit, taskStore, uploader, publisher), taskStore
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
