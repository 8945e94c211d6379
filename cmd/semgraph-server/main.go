package main

import (
	"encoding/json"
	"flag"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/dd0wney/semgraph/pkg/graphql"
	"github.com/dd0wney/semgraph/pkg/ingest"
	"github.com/dd0wney/semgraph/pkg/logging"
	"github.com/dd0wney/semgraph/pkg/metrics"
	"github.com/dd0wney/semgraph/pkg/pubsub"
	"github.com/dd0wney/semgraph/pkg/server"
	"github.com/dd0wney/semgraph/pkg/session"
)

// lockedSession serializes access to the single-owner session between the
// tick loop and HTTP handlers.
type lockedSession struct {
	mu   sync.Mutex
	sess *session.Session
}

func (ls *lockedSession) Snapshot() session.Snapshot {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.sess.Snapshot()
}

func (ls *lockedSession) PredictViews(node int) []session.PredictionView {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.sess.PredictViews(node)
}

func (ls *lockedSession) Tick() {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.sess.Tick()
}

func (ls *lockedSession) ResetLayout() {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.sess.ResetLayout()
}

func main() {
	dataPath := flag.String("data", "graph_data.csv", "Path to the triple CSV file")
	configPath := flag.String("config", "", "Path to YAML config (optional)")
	listen := flag.String("listen", "", "Listen address override")
	seed := flag.Int64("seed", 0, "Layout RNG seed (0 = time-based)")
	flag.Parse()

	log := logging.NewDefaultLogger()

	cfg, err := session.LoadConfig(*configPath)
	if err != nil {
		log.Error("config error", logging.Error(err))
		os.Exit(1)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	var rng *rand.Rand
	if *seed != 0 {
		rng = rand.New(rand.NewSource(*seed))
	}

	reg := metrics.NewRegistry()
	bus := pubsub.NewPubSub()
	defer bus.Shutdown()

	ls := &lockedSession{sess: session.New(cfg, log, reg, bus, rng)}

	ds, err := ingest.LoadFile(*dataPath)
	if err != nil {
		log.Error("load error", logging.Error(err), logging.Path(*dataPath))
		os.Exit(1)
	}
	ls.sess.Load(ds)

	schema, err := graphql.GenerateSchema(ls)
	if err != nil {
		log.Error("schema error", logging.Error(err))
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.Handle("/graphql", graphql.NewHandler(schema))
	mux.Handle("/metrics", reg.Handler())

	mux.HandleFunc("/snapshot", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ls.Snapshot())
	})

	mux.HandleFunc("/predictions", func(w http.ResponseWriter, r *http.Request) {
		node, err := strconv.Atoi(r.URL.Query().Get("node"))
		if err != nil {
			http.Error(w, "node query parameter must be an integer", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ls.PredictViews(node))
	})

	mux.HandleFunc("/layout/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		ls.ResetLayout()
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	srv := server.NewGracefulServer(cfg.Listen, mux, log)

	// The server owns the tick cadence; the layout keeps relaxing for as
	// long as the process serves.
	go func() {
		ticker := time.NewTicker(cfg.TickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ls.Tick()
			case <-srv.Done():
				return
			}
		}
	}()

	if err := srv.Start(); err != nil {
		log.Error("server failed", logging.Error(err))
		os.Exit(1)
	}
}
