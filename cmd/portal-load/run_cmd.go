package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type runOptions struct {
	credentials
	Profile    string
	OutPath      string
	P99LimitMS   int
	MaxErrorRate float64
}

type target struct {
	Endpoint string
	Path     string
	Weight   int
}

type profile struct {
	Name         string
	VUs          int
	Duration     time.Duration
	DefaultP99MS int
	Targets      []target
}

var lecturaTargets = []target{
	{Endpoint: "navigation", Path: "/api/navigation", Weight: 2},
	{Endpoint: "productos", Path: "/api/inventario/productos?limit=25", Weight: 4},
	{Endpoint: "ventas", Path: "/api/ventas?limit=25", Weight: 3},
	{Endpoint: "ordenes", Path: "/api/compras/ordenes?limit=25", Weight: 2},
	{Endpoint: "empleados", Path: "/api/rrhh/empleados?limit=25", Weight: 1},
	{Endpoint: "ordenes_trabajo", Path: "/api/logistica/ordenes-trabajo?limit=25", Weight: 1},
}

var busquedaTargets = []target{
	{Endpoint: "navigation_search", Path: "/api/navigation/search?q=vent", Weight: 2},
	{Endpoint: "productos_q", Path: "/api/inventario/productos?q=a&sort=nombre", Weight: 3},
	{Endpoint: "clientes_q", Path: "/api/ventas/clientes?q=a", Weight: 2},
	{Endpoint: "proveedores_q", Path: "/api/compras/proveedores?q=a", Weight: 1},
}

func builtinProfile(name string) (profile, error) {
	switch name {
	case "lectura":
		return profile{Name: name, VUs: 20, Duration: time.Minute, DefaultP99MS: 800, Targets: lecturaTargets}, nil
	case "lectura_alta":
		return profile{Name: name, VUs: 100, Duration: 3 * time.Minute, DefaultP99MS: 1500, Targets: lecturaTargets}, nil
	case "busqueda":
		return profile{Name: name, VUs: 20, Duration: time.Minute, DefaultP99MS: 1000, Targets: busquedaTargets}, nil
	default:
		return profile{}, fmt.Errorf("unknown profile %q", name)
	}
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run --profile <name> --base-url <url> (--sid <cookie> | --email <email> --password <password>) --out <path>",
		Short: "Run a load test profile and write a portal_load_report.v1 JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			if strings.TrimSpace(opts.OutPath) == "" {
				return errors.New("--out is required")
			}
			p, err := builtinProfile(opts.Profile)
			if err != nil {
				return err
			}

			client := newHTTPClient()
			if err := healthCheck(cmd.Context(), client, opts.credentials); err != nil {
				return err
			}
			sid, err := opts.session(cmd.Context(), client)
			if err != nil {
				return err
			}
			opts.SID = sid

			startedAt := time.Now().UTC()
			st := runProfile(cmd.Context(), client, opts, p)

			p99Limit := opts.P99LimitMS
			if p99Limit <= 0 {
				p99Limit = p.DefaultP99MS
			}
			endpoints := st.results()
			p99 := st.p99All()
			rate := errorRate(endpoints)
			report := loadReport{
				SchemaVersion:   1,
				RunID:           uuid.NewString(),
				BaseURL:         opts.BaseURL,
				Profile:         p.Name,
				VUs:             p.VUs,
				DurationSeconds: int(p.Duration.Seconds()),
				StartedAt:       startedAt,
				FinishedAt:      time.Now().UTC(),
				Endpoints:       endpoints,
				Thresholds: []thresholdReport{
					{Name: "p99_ms", Limit: float64(p99Limit), Value: float64(p99), OK: p99 <= p99Limit},
					{Name: "error_rate", Limit: opts.MaxErrorRate, Value: rate, OK: rate <= opts.MaxErrorRate},
				},
			}

			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(opts.OutPath, data, 0o644); err != nil {
				return err
			}
			for _, th := range report.Thresholds {
				if !th.OK {
					return fmt.Errorf("threshold %s exceeded: %.3f > %.3f", th.Name, th.Value, th.Limit)
				}
			}
			return nil
		},
	}

	bindCredentials(cmd, &opts.credentials)
	cmd.Flags().StringVar(&opts.Profile, "profile", "lectura", "profile name (lectura|lectura_alta|busqueda)")
	cmd.Flags().StringVar(&opts.OutPath, "out", "", "output report path")
	cmd.Flags().IntVar(&opts.P99LimitMS, "p99-limit-ms", 0, "p99 latency threshold in milliseconds (default per profile)")
	cmd.Flags().Float64Var(&opts.MaxErrorRate, "max-error-rate", 0.01, "highest acceptable share of failed requests")

	return cmd
}

// runProfile keeps p.VUs workers issuing weighted requests until p.Duration
// elapses or ctx is cancelled.
func runProfile(ctx context.Context, client *http.Client, opts runOptions, p profile) *stats {
	st := newStats()
	ctx, cancel := context.WithTimeout(ctx, p.Duration)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < p.VUs; i++ {
		seed := time.Now().UnixNano() + int64(i)
		g.Go(func() error {
			r := rand.New(rand.NewSource(seed))
			for ctx.Err() == nil {
				st.record(doRequest(ctx, client, opts, pickTarget(r, p.Targets)))
			}
			return nil
		})
	}
	_ = g.Wait()
	return st
}

type requestResult struct {
	Endpoint   string
	DurationMS int
	StatusCode int
	Err        error
}

func doRequest(ctx context.Context, client *http.Client, opts runOptions, t target) requestResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.url(t.Path), nil)
	if err != nil {
		return requestResult{Endpoint: t.Endpoint, Err: err}
	}
	req.AddCookie(&http.Cookie{Name: opts.CookieKey, Value: opts.SID})
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			// cut off by the end of the run
			return requestResult{}
		}
		return requestResult{Endpoint: t.Endpoint, DurationMS: int(time.Since(start).Milliseconds()), Err: err}
	}
	_ = resp.Body.Close()
	return requestResult{Endpoint: t.Endpoint, DurationMS: int(time.Since(start).Milliseconds()), StatusCode: resp.StatusCode}
}

func pickTarget(r *rand.Rand, targets []target) target {
	total := 0
	for _, t := range targets {
		total += t.Weight
	}
	x := r.Intn(total)
	for _, t := range targets {
		x -= t.Weight
		if x < 0 {
			return t
		}
	}
	return targets[len(targets)-1]
}

type endpointStats struct {
	count     int
	errors    int
	latencies []int
}

type stats struct {
	mu        sync.Mutex
	endpoints map[string]*endpointStats
}

func newStats() *stats {
	return &stats{
		endpoints: map[string]*endpointStats{},
	}
}

func (s *stats) record(res requestResult) {
	if res.Endpoint == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	es := s.endpoints[res.Endpoint]
	if es == nil {
		es = &endpointStats{latencies: make([]int, 0, 1024)}
		s.endpoints[res.Endpoint] = es
	}
	es.count++
	if res.Err != nil || res.StatusCode >= 400 {
		es.errors++
	}
	if res.DurationMS > 0 {
		es.latencies = append(es.latencies, res.DurationMS)
	}
}

func (s *stats) results() []endpointReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]endpointReport, 0, len(s.endpoints))
	for endpoint, es := range s.endpoints {
		p50, p95, p99 := percentiles(es.latencies)
		out = append(out, endpointReport{
			Endpoint:  endpoint,
			Requests:  es.count,
			Errors:    es.errors,
			ErrorRate: float64(es.errors) / float64(es.count),
			P50MS:     p50,
			P95MS:     p95,
			P99MS:     p99,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Endpoint < out[j].Endpoint })
	return out
}

func (s *stats) p99All() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]int, 0, 4096)
	for _, es := range s.endpoints {
		all = append(all, es.latencies...)
	}
	_, _, p99 := percentiles(all)
	return p99
}

func percentiles(ms []int) (int, int, int) {
	if len(ms) == 0 {
		return 0, 0, 0
	}
	cp := append([]int(nil), ms...)
	sort.Ints(cp)
	p50 := cp[int(float64(len(cp)-1)*0.50)]
	p95 := cp[int(float64(len(cp)-1)*0.95)]
	p99 := cp[int(float64(len(cp)-1)*0.99)]
	return p50, p95, p99
}
