package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/hackgods/medi-assist/internal/analytics"
	"github.com/hackgods/medi-assist/internal/appointment"
	"github.com/hackgods/medi-assist/internal/auth"
	"github.com/hackgods/medi-assist/internal/backend"
	"github.com/hackgods/medi-assist/internal/client"
	"github.com/hackgods/medi-assist/internal/config"
	"github.com/hackgods/medi-assist/internal/logging"
	"github.com/hackgods/medi-assist/internal/patient"
	"github.com/hackgods/medi-assist/internal/session"
)

type SimConfig struct {
	Duration    time.Duration
	Workers     int
	RatePerSec  float64
	CreateRatio float64
	UpdateRatio float64
	ReadRatio   float64
}

// DataPool tracks what the run created so later operations can target it and
// the report can check that no id was handed out twice.
type DataPool struct {
	mu           sync.RWMutex
	patients     []int64
	appointments []int64
	seen         map[string]int
}

func newDataPool() *DataPool {
	return &DataPool{seen: make(map[string]int)}
}

func (dp *DataPool) AddPatient(p *patient.Patient) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.patients = append(dp.patients, p.ID)
	dp.seen[p.PatientID]++
}

func (dp *DataPool) AddAppointment(a *appointment.Appointment) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.appointments = append(dp.appointments, a.ID)
	dp.seen[a.AppointmentID]++
}

func (dp *DataPool) RandomPatient(rng *rand.Rand) (int64, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.patients) == 0 {
		return 0, false
	}
	return dp.patients[rng.Intn(len(dp.patients))], true
}

func (dp *DataPool) RandomAppointment(rng *rand.Rand) (int64, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.appointments) == 0 {
		return 0, false
	}
	return dp.appointments[rng.Intn(len(dp.appointments))], true
}

// Duplicates lists every human id seen more than once.
func (dp *DataPool) Duplicates() []string {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	var dups []string
	for id, n := range dp.seen {
		if n > 1 {
			dups = append(dups, id)
		}
	}
	sort.Strings(dups)
	return dups
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Rejected  int64
	Error     int64
	Latencies []time.Duration
	mu        sync.Mutex
}

// Record counts a finished call. Rejected covers expected refusals such as a
// lifecycle violation; Error is everything else.
func (om *OperationMetrics) Record(latency time.Duration, success bool, kind backend.Kind) {
	atomic.AddInt64(&om.Total, 1)
	switch {
	case success:
		atomic.AddInt64(&om.Success, 1)
	case kind == backend.KindInvalid || kind == backend.KindNotFound:
		atomic.AddInt64(&om.Rejected, 1)
	default:
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, min, max, p50, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.Latencies) == 0 {
		return 0, 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.Latencies))
	copy(latencies, om.Latencies)
	sort.Slice(latencies, func(i, j int) bool {
		return latencies[i] < latencies[j]
	})

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	min = latencies[0]
	max = latencies[len(latencies)-1]
	p50 = latencies[percentileIndex(len(latencies), 50)]
	p95 = latencies[percentileIndex(len(latencies), 95)]
	return avg, min, max, p50, p95
}

func percentileIndex(n, p int) int {
	idx := n * p / 100
	if idx >= n {
		idx = n - 1
	}
	return idx
}

type Metrics struct {
	CreatePatient     OperationMetrics
	CreateAppointment OperationMetrics
	UpdatePatient     OperationMetrics
	Transition        OperationMetrics
	ReadPatient       OperationMetrics
	ListAppointments  OperationMetrics
	Dashboard         OperationMetrics
}

type Simulator struct {
	config  SimConfig
	api     client.API
	pool    *DataPool
	limiter *rate.Limiter
	metrics Metrics
	log     zerolog.Logger
}

func main() {
	baseCfg, err := config.Load()
	if err != nil {
		bootLog := logging.New("simulate", "info", "", false)
		bootLog.Fatal().Err(err).Msg("failed to load base config")
	}
	log := logging.New("simulate", baseCfg.LogLevel, baseCfg.LogFormat, baseCfg.Production())

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	log.Info().
		Bool("mock", baseCfg.UseMockAPI).
		Dur("duration", cfg.Duration).
		Int("workers", cfg.Workers).
		Float64("rate", cfg.RatePerSec).
		Msg("simulator starting")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	sess, closeSession, err := session.Open(ctx, baseCfg, "simulate")
	if err != nil {
		cancel()
		log.Fatal().Err(err).Msg("open session store")
	}
	defer closeSession()

	api := client.New(baseCfg, sess, log)
	env := client.SignIn(ctx, api, sess, auth.Credentials{Email: "simulator@medi-assist.local", Password: "simulate"})
	cancel()
	if !env.Success {
		log.Fatal().Str("message", env.Message).Msg("sign in failed")
	}

	sim := &Simulator{
		config:  cfg,
		api:     api,
		pool:    newDataPool(),
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.Workers),
		log:     log,
	}

	sim.Run()
	sim.PrintReport()

	if dups := sim.pool.Duplicates(); len(dups) > 0 {
		closeSession()
		os.Exit(1)
	}
}

func loadConfig() SimConfig {
	cfg := SimConfig{
		Duration:    getDuration("SIM_DURATION", 30*time.Second),
		Workers:     getInt("SIM_WORKERS", 10),
		RatePerSec:  getFloat("SIM_RATE", 50),
		CreateRatio: getFloat("SIM_CREATE_RATIO", 0.4),
		UpdateRatio: getFloat("SIM_UPDATE_RATIO", 0.2),
		ReadRatio:   getFloat("SIM_READ_RATIO", 0.4),
	}

	// Normalize ratios
	total := cfg.CreateRatio + cfg.UpdateRatio + cfg.ReadRatio
	if total > 0 {
		cfg.CreateRatio /= total
		cfg.UpdateRatio /= total
		cfg.ReadRatio /= total
	}

	return cfg
}

func validateConfig(cfg SimConfig) error {
	if cfg.Workers <= 0 {
		return fmt.Errorf("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("SIM_DURATION must be > 0")
	}
	if cfg.RatePerSec <= 0 {
		return fmt.Errorf("SIM_RATE must be > 0")
	}
	return nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	s.log.Info().Msgf("starting simulation for %s with %d workers", s.config.Duration, s.config.Workers)

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	s.log.Info().Msg("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for {
		if err := s.limiter.Wait(ctx); err != nil {
			return
		}

		r := rng.Float64()
		switch {
		case r < s.config.CreateRatio:
			if rng.Intn(2) == 0 {
				s.doCreatePatient(ctx, rng)
			} else {
				s.doCreateAppointment(ctx, rng)
			}
		case r < s.config.CreateRatio+s.config.UpdateRatio:
			if rng.Intn(2) == 0 {
				s.doUpdatePatient(ctx, rng)
			} else {
				s.doTransition(ctx, rng)
			}
		default:
			switch rng.Intn(3) {
			case 0:
				s.doReadPatient(ctx, rng)
			case 1:
				s.doListAppointments(ctx, rng)
			case 2:
				s.doDashboard(ctx)
			}
		}
	}
}

// timed runs op and records it unless the run's deadline cut it short.
func timed[T any](ctx context.Context, om *OperationMetrics, op func() backend.Envelope[T]) backend.Envelope[T] {
	start := time.Now()
	env := op()
	if ctx.Err() != nil && env.Kind == backend.KindCancelled {
		return env
	}
	om.Record(time.Since(start), env.Success, env.Kind)
	return env
}

func (s *Simulator) doCreatePatient(ctx context.Context, rng *rand.Rand) {
	in := patient.Input{
		Name:       fmt.Sprintf("Sim Patient %d", rng.Intn(1_000_000)),
		Age:        18 + rng.Intn(70),
		Gender:     []string{"Male", "Female"}[rng.Intn(2)],
		BloodGroup: "O+",
	}
	env := timed(ctx, &s.metrics.CreatePatient, func() backend.Envelope[*patient.Patient] {
		return s.api.Patients.Create(ctx, in)
	})
	if env.Success && env.Data != nil {
		s.pool.AddPatient(env.Data)
	}
}

func (s *Simulator) doCreateAppointment(ctx context.Context, rng *rand.Rand) {
	patientID, ok := s.pool.RandomPatient(rng)
	if !ok {
		patientID = 1
	}
	in := appointment.Input{
		PatientID: patientID,
		DoctorID:  fmt.Sprintf("DOC%03d", 1+rng.Intn(2)),
		Date:      time.Now().AddDate(0, 0, rng.Intn(30)).Format("2006-01-02"),
		Time:      fmt.Sprintf("%02d:00", 9+rng.Intn(8)),
		Duration:  30,
		Type:      "Consultation",
		Reason:    "Simulated visit",
	}
	env := timed(ctx, &s.metrics.CreateAppointment, func() backend.Envelope[*appointment.Appointment] {
		return s.api.Appointments.Create(ctx, in)
	})
	if env.Success && env.Data != nil {
		s.pool.AddAppointment(env.Data)
	}
}

func (s *Simulator) doUpdatePatient(ctx context.Context, rng *rand.Rand) {
	id, ok := s.pool.RandomPatient(rng)
	if !ok {
		return
	}
	phone := fmt.Sprintf("+278%08d", rng.Intn(100_000_000))
	timed(ctx, &s.metrics.UpdatePatient, func() backend.Envelope[*patient.Patient] {
		return s.api.Patients.Update(ctx, id, patient.Patch{Phone: &phone})
	})
}

func (s *Simulator) doTransition(ctx context.Context, rng *rand.Rand) {
	id, ok := s.pool.RandomAppointment(rng)
	if !ok {
		return
	}
	to := []appointment.Status{
		appointment.StatusInProgress,
		appointment.StatusCompleted,
		appointment.StatusCancelled,
	}[rng.Intn(3)]
	timed(ctx, &s.metrics.Transition, func() backend.Envelope[*appointment.Appointment] {
		return s.api.Appointments.Transition(ctx, id, to, "")
	})
}

func (s *Simulator) doReadPatient(ctx context.Context, rng *rand.Rand) {
	id, ok := s.pool.RandomPatient(rng)
	if !ok {
		id = 1
	}
	timed(ctx, &s.metrics.ReadPatient, func() backend.Envelope[*patient.Patient] {
		return s.api.Patients.GetByID(ctx, id)
	})
}

func (s *Simulator) doListAppointments(ctx context.Context, rng *rand.Rand) {
	f := appointment.Filter{}
	if id, ok := s.pool.RandomPatient(rng); ok {
		f.PatientID = id
	}
	timed(ctx, &s.metrics.ListAppointments, func() backend.Envelope[[]appointment.Appointment] {
		return s.api.Appointments.GetAll(ctx, f)
	})
}

func (s *Simulator) doDashboard(ctx context.Context) {
	timed(ctx, &s.metrics.Dashboard, func() backend.Envelope[*analytics.Snapshot] {
		return s.api.Analytics.GetDashboard(ctx)
	})
}

func (s *Simulator) PrintReport() {
	fmt.Println("\n" + repeat("=", 80))
	fmt.Println("SIMULATION REPORT")
	fmt.Println(repeat("=", 80))
	fmt.Printf("Duration: %s\n", s.config.Duration)
	fmt.Printf("Workers: %d\n", s.config.Workers)
	fmt.Printf("Rate limit: %.1f req/s\n", s.config.RatePerSec)
	fmt.Println()

	printOperationReport("Create patient", &s.metrics.CreatePatient)
	printOperationReport("Create appointment", &s.metrics.CreateAppointment)
	printOperationReport("Update patient", &s.metrics.UpdatePatient)
	printOperationReport("Transition appointment", &s.metrics.Transition)
	printOperationReport("Read patient", &s.metrics.ReadPatient)
	printOperationReport("List appointments", &s.metrics.ListAppointments)
	printOperationReport("Dashboard", &s.metrics.Dashboard)

	dups := s.pool.Duplicates()
	if len(dups) == 0 {
		fmt.Println("Identifier check: OK, no duplicates")
		return
	}
	fmt.Printf("Identifier check: FAILED, %d duplicated ids: %s\n", len(dups), strings.Join(dups, ", "))
}

func printOperationReport(name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	success := atomic.LoadInt64(&om.Success)
	rejected := atomic.LoadInt64(&om.Rejected)
	errs := atomic.LoadInt64(&om.Error)

	avg, min, max, p50, p95 := om.Stats()

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total: %d\n", total)
	fmt.Printf("  Success: %d (%.1f%%)\n", success, float64(success)/float64(total)*100)
	if rejected > 0 {
		fmt.Printf("  Rejected: %d (%.1f%%)\n", rejected, float64(rejected)/float64(total)*100)
	}
	if errs > 0 {
		fmt.Printf("  Errors: %d (%.1f%%)\n", errs, float64(errs)/float64(total)*100)
	}
	fmt.Printf("  Latency: avg=%s min=%s max=%s p50=%s p95=%s\n",
		avg.Round(time.Millisecond), min.Round(time.Millisecond), max.Round(time.Millisecond),
		p50.Round(time.Millisecond), p95.Round(time.Millisecond))
	fmt.Println()
}

// Helper functions

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func repeat(s string, n int) string {
	return strings.Repeat(s, n)
}
