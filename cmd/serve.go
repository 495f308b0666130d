package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/imoveis-cli/internal/cache"
	"github.com/sells-group/imoveis-cli/internal/export"
	"github.com/sells-group/imoveis-cli/internal/feed"
	"github.com/sells-group/imoveis-cli/internal/filter"
	"github.com/sells-group/imoveis-cli/internal/model"
)

var servePort int

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve ranked listings over a JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		cfg.Server.Port = port
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		p, err := initPipeline(cfg)
		if err != nil {
			return err
		}

		a := &api{
			cache:   cache.New(p, cfg.Cache.TTL()),
			links:   linksFromConfig(cfg),
			now:     time.Now,
			origins: cfg.Server.AllowedOrigins,
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           a.routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			zap.L().Info("starting server", zap.Int("port", port))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		return g.Wait()
	},
}

// api serves cached region results.
type api struct {
	cache   *cache.Cache
	links   export.Links
	now     func() time.Time
	origins []string
}

func (a *api) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/regions", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"regions": feed.Regions})
		})
		r.Get("/cache", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, a.cache.Stats())
		})

		r.Route("/regions/{region}", func(r chi.Router) {
			r.Use(a.requireRegion)
			r.Get("/listings", a.handleListings)
			r.Get("/cities", a.handleFacets)
			r.Get("/export.csv", a.handleExport(exportCSV))
			r.Get("/export.xlsx", a.handleExport(exportXLSX))
			r.Post("/refresh", a.handleRefresh)
		})
	})

	return r
}

func (a *api) requireRegion(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !feed.ValidRegion(chi.URLParam(r, "region")) {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"status": "error",
				"error":  "unknown region",
				"hint":   "Use one of the codes listed at /api/v1/regions.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// result returns the region result and whether it came from the cache,
// reloading first when the request asks for a refresh. On failure the error
// response is already written and the result is nil.
func (a *api) result(w http.ResponseWriter, r *http.Request) (*feed.Result, bool) {
	region := feed.NormalizeRegion(chi.URLParam(r, "region"))
	if r.URL.Query().Get("refresh") == "true" {
		a.cache.Invalidate(region)
	}

	res, hit, err := a.cache.GetOrFetch(r.Context(), region, a.now())
	if err != nil {
		writePipelineError(w, r, err)
		return nil, false
	}
	return res, hit
}

type listingView struct {
	filter.Ranked
	DetailURL string `json:"detail_url"`
	MapURL    string `json:"map_url"`
}

type listingsResponse struct {
	Region    string         `json:"region"`
	RunID     string         `json:"run_id"`
	Status    string         `json:"status"`
	FetchedAt time.Time      `json:"fetched_at"`
	Cached    bool           `json:"cached"`
	Stats     feed.Stats     `json:"stats"`
	Summary   filter.Summary `json:"summary"`
	Listings  []listingView  `json:"listings"`
}

func (a *api) handleListings(w http.ResponseWriter, r *http.Request) {
	f, err := filtersFromQuery(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "error": err.Error()})
		return
	}

	res, hit := a.result(w, r)
	if res == nil {
		return
	}

	ranked := filter.Apply(res.Listings, f)
	views := make([]listingView, 0, len(ranked))
	for _, rk := range ranked {
		views = append(views, listingView{
			Ranked:    rk,
			DetailURL: model.DetailURL(a.links.DetailBase, rk.ID),
			MapURL:    model.MapURL(a.links.MapBase, rk.Listing),
		})
	}

	writeJSON(w, http.StatusOK, listingsResponse{
		Region:    res.Region,
		RunID:     res.RunID,
		Status:    res.Status,
		FetchedAt: res.FetchedAt,
		Cached:    hit,
		Stats:     res.Stats,
		Summary:   filter.Summarize(ranked),
		Listings:  views,
	})
}

func (a *api) handleFacets(w http.ResponseWriter, r *http.Request) {
	res, _ := a.result(w, r)
	if res == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"region": res.Region,
		"cities": filter.Cities(res.Listings),
		"types":  filter.Types(res.Listings),
	})
}

type exportFormat struct {
	ext         string
	contentType string
	write       func(http.ResponseWriter, []filter.Ranked, export.Links) error
}

var (
	exportCSV = exportFormat{
		ext:         "csv",
		contentType: "text/csv; charset=utf-8",
		write: func(w http.ResponseWriter, rs []filter.Ranked, l export.Links) error {
			return export.WriteCSV(w, rs, l)
		},
	}
	exportXLSX = exportFormat{
		ext:         "xlsx",
		contentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		write: func(w http.ResponseWriter, rs []filter.Ranked, l export.Links) error {
			return export.WriteXLSX(w, rs, l)
		},
	}
)

func (a *api) handleExport(format exportFormat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := filtersFromQuery(r.URL.Query())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "error": err.Error()})
			return
		}
		res, _ := a.result(w, r)
		if res == nil {
			return
		}

		ranked := filter.Apply(res.Listings, f)
		w.Header().Set("Content-Type", format.contentType)
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="imoveis_%s.%s"`, res.Region, format.ext))
		if err := format.write(w, ranked, a.links); err != nil {
			zap.L().Error("export failed",
				zap.String("region", res.Region),
				zap.String("format", format.ext),
				zap.Error(err),
			)
		}
	}
}

func (a *api) handleRefresh(w http.ResponseWriter, r *http.Request) {
	region := feed.NormalizeRegion(chi.URLParam(r, "region"))
	a.cache.Invalidate(region)

	res, _ := a.result(w, r)
	if res == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"region":     res.Region,
		"run_id":     res.RunID,
		"status":     res.Status,
		"fetched_at": res.FetchedAt,
		"listings":   len(res.Listings),
		"stats":      res.Stats,
	})
}

func writePipelineError(w http.ResponseWriter, r *http.Request, err error) {
	var pe *feed.PipelineError
	if errors.As(err, &pe) {
		zap.L().Warn("pipeline failure served",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("reason", pe.Error()),
		)
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"status": pe.Error(),
			"kind":   string(pe.Kind),
			"hint":   pe.Hint(),
		})
		return
	}
	if errors.Is(err, feed.ErrUnknownRegion) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "error": "unknown region"})
		return
	}
	zap.L().Error("load region", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "error": "internal error"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
