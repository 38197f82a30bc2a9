package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cognicore/textprep/pkg/textprep"
	"github.com/cognicore/textprep/pkg/textprep/config"
	"github.com/cognicore/textprep/pkg/textprep/ingest"
	"github.com/cognicore/textprep/pkg/textprep/stats"
)

func main() {
	var (
		input   = flag.String("input", "./dados.json", "Path to JSON array of {\"texto\": ...} records")
		cfgPath = flag.String("config", "", "Optional: YAML config file")
		dbPath  = flag.String("db", "", "Optional: SQLite database for artifacts and runs")
		show    = flag.Int("show", 7, "Number of processed texts to print")
		tokens  = flag.Bool("tokens", false, "Print tokens per sentence instead of the normalized text")
		tag     = flag.Bool("tag", false, "Print POS tags (requires resources.tagger)")
		debug   = flag.Bool("debug", false, "Development logging")
	)
	flag.Parse()

	// Logger
	var logger *zap.Logger
	if *debug {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()
	log := logger.Sugar()

	// Env
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnw("ignoring .env", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.LoadFile(*cfgPath); err != nil {
			log.Fatalf("load config: %v", err)
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		log.Fatalf("apply env: %v", err)
	}
	if *dbPath != "" {
		cfg.Resources.SQLite = *dbPath
	}
	if *tag && cfg.Resources.Tagger == "" {
		log.Fatal("--tag needs resources.tagger or TEXTPREP_TAGGER")
	}

	loader := config.Loader{Config: cfg, Logger: logger}
	components, err := loader.Load(ctx)
	if err != nil {
		log.Fatalf("load components: %v", err)
	}

	tp, err := textprep.New(textprep.Options{
		Pipeline: components.Pipeline,
		Store:    components.Store,
		Logger:   logger,
	})
	if err != nil {
		components.Close()
		log.Fatalf("init: %v", err)
	}
	defer tp.Close()

	records, err := ingest.LoadRecordsFile(*input)
	if err != nil {
		log.Fatalf("load records: %v", err)
	}
	corpus := ingest.Texts(records)
	fmt.Println("numero de textos:", len(corpus))

	res, err := tp.Process(ctx, corpus)
	if err != nil {
		log.Fatalf("process: %v", err)
	}

	n := min(*show, len(res.Docs))
	fmt.Printf("mostrar os %d textos preprocessados\n", n)
	for _, doc := range res.Docs[:n] {
		fmt.Println()
		switch {
		case *tag:
			for _, sent := range doc.Tagged {
				parts := make([]string, len(sent))
				for i, tt := range sent {
					parts[i] = tt.Token + "/" + tt.Tag
				}
				fmt.Println(strings.Join(parts, " "))
			}
		case *tokens:
			for _, toks := range doc.Tokens {
				fmt.Println(strings.Join(toks, " | "))
			}
		default:
			fmt.Println(doc.Normalized)
		}
	}

	report := struct {
		RunID string      `json:"run_id"`
		Stats stats.Stats `json:"stats"`
	}{RunID: res.RunID, Stats: res.Stats}
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("encode report: %v", err)
	}
	fmt.Println()
	fmt.Println(string(out))
}
