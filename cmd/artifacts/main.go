package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cognicore/textprep/pkg/textprep/config"
	"github.com/cognicore/textprep/pkg/textprep/internalerr"
	"github.com/cognicore/textprep/pkg/textprep/resource"
	"github.com/cognicore/textprep/pkg/textprep/segment"
	"github.com/cognicore/textprep/pkg/textprep/store"
	"github.com/cognicore/textprep/pkg/textprep/store/sqlite"
	"github.com/cognicore/textprep/pkg/textprep/tagger"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: artifacts [-db path] <command> [args]

commands:
  put <key> <file>   validate and store a punkt bundle or tagger model
  get <key>          write a stored artifact to stdout
  list               list stored artifacts
  runs [limit]       list stored runs
`)
	os.Exit(2)
}

func main() {
	dbPath := flag.String("db", "", "SQLite database (default: TEXTPREP_DB)")
	flag.Usage = usage
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()
	log := logger.Sugar()

	_ = godotenv.Load()

	if *dbPath == "" {
		*dbPath = os.Getenv(config.EnvDB)
	}
	if *dbPath == "" || flag.NArg() == 0 {
		usage()
	}

	ctx := context.Background()
	st, err := sqlite.OpenSQLite(ctx, *dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	args := flag.Args()
	switch args[0] {
	case "put":
		if len(args) != 3 {
			usage()
		}
		key, file := args[1], args[2]
		data, err := os.ReadFile(file)
		if err != nil {
			log.Fatalf("read %s: %v", file, err)
		}
		if err := validate(key, data); err != nil {
			log.Fatalf("refusing %s: %v", key, err)
		}
		if err := st.PutArtifact(ctx, key, data); err != nil {
			log.Fatalf("put %s: %v", key, err)
		}
		log.Infow("artifact stored", "key", key, "bytes", len(data))

	case "get":
		if len(args) != 2 {
			usage()
		}
		if err := writeArtifact(ctx, st, args[1], os.Stdout); err != nil {
			log.Fatalf("get %s: %v", args[1], err)
		}

	case "list":
		infos, err := st.ListArtifacts(ctx)
		if err != nil {
			log.Fatalf("list: %v", err)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tBYTES\tUPDATED")
		for _, a := range infos {
			fmt.Fprintf(w, "%s\t%d\t%s\n", a.Key, a.Size, a.UpdatedAt.Format(time.RFC3339))
		}
		w.Flush()

	case "runs":
		limit := 20
		if len(args) > 1 {
			if _, err := fmt.Sscanf(args[1], "%d", &limit); err != nil {
				usage()
			}
		}
		runs, err := st.ListRuns(ctx, limit)
		if err != nil {
			log.Fatalf("runs: %v", err)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDOCS\tCREATED")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%d\t%s\n", r.ID, r.DocCount, r.CreatedAt.Format(time.RFC3339))
		}
		w.Flush()

	default:
		usage()
	}
}

// validate parses known artifact kinds. Other keys are stored as-is.
func validate(key string, data []byte) error {
	switch {
	case filepath.Ext(key) == ".yaml" || key == resource.TaggerModel:
		m, err := tagger.LoadModel(data)
		if err != nil {
			return err
		}
		_, err = tagger.New(m)
		return err
	case filepath.Dir(key) == "punkt":
		_, err := segment.New(data, nil)
		return err
	}
	return nil
}

// writeArtifact copies a stored artifact to w.
func writeArtifact(ctx context.Context, st store.Store, key string, w io.Writer) error {
	data, found, err := st.GetArtifact(ctx, key)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("artifact %s: %w", key, internalerr.ErrNotFound)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
