// Package main implements q2proto-dump, a small demonstration server
// that decodes Quake II network protocol captures over a websocket and
// can self-test every supported dialect in one request.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/kulaginds/q2proto-go/internal/config"
	"github.com/kulaginds/q2proto-go/internal/logging"
)

var (
	appName    = "q2proto-dump"
	appVersion = "dev" // injected at build time via -ldflags
)

func main() {
	args, action := parseFlags()
	if action != "" {
		return
	}
	if err := run(args); err != nil {
		log.Fatalln(err)
	}
}

// parsedArgs holds the parsed command line arguments.
type parsedArgs struct {
	host           string
	port           string
	logLevel       string
	gameType       string
	extendedLimits *bool
}

func parseFlags() (parsedArgs, string) {
	return parseFlagsWithArgs(os.Args[1:])
}

// parseFlagsWithArgs parses the given arguments and returns the parsed
// args. Returns a non-empty action string if help/version was shown,
// signaling the caller should return early.
func parseFlagsWithArgs(args []string) (parsedArgs, string) {
	fs := flag.NewFlagSet("q2proto-dump", flag.ContinueOnError)
	hostFlag := fs.String("host", "", "listen host")
	portFlag := fs.String("port", "", "listen port")
	logLevelFlag := fs.String("log-level", "", "log level (debug, info, warn, error)")
	gameTypeFlag := fs.String("game-type", "", "acceptable-protocol filter (vanilla, extended, rerelease)")
	extendedLimits := fs.Bool("extended-limits", false, "advertise extended stats/inventory limits")
	helpFlag := fs.Bool("help", false, "show help")
	versionFlag := fs.Bool("version", false, "show version")

	_ = fs.Parse(args)

	if *helpFlag {
		showHelp()
		return parsedArgs{}, "help"
	}
	if *versionFlag {
		showVersion()
		return parsedArgs{}, "version"
	}

	var extendedLimitsPtr *bool
	if *extendedLimits {
		v := true
		extendedLimitsPtr = &v
	}

	return parsedArgs{
		host:           strings.TrimSpace(*hostFlag),
		port:           strings.TrimSpace(*portFlag),
		logLevel:       strings.TrimSpace(*logLevelFlag),
		gameType:       strings.TrimSpace(*gameTypeFlag),
		extendedLimits: extendedLimitsPtr,
	}, ""
}

func run(args parsedArgs) error {
	opts := config.LoadOptions{
		Host:           args.host,
		Port:           args.port,
		LogLevel:       args.logLevel,
		GameType:       args.gameType,
		ExtendedLimits: args.extendedLimits,
	}

	cfg, err := config.LoadWithOverrides(opts)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	setupLogging(cfg.Logging)

	server := createServer(cfg)
	logging.Info("Starting %s on %s:%s (game-type=%s, extended-limits=%t)",
		appName, cfg.Server.Host, cfg.Server.Port, cfg.Demo.GameType, cfg.Demo.ExtendedLimits)

	if err := startServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func createServer(cfg *config.Config) *http.Server {
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	mux := http.NewServeMux()
	mux.HandleFunc("/dump", dumpHandler(cfg))
	mux.HandleFunc("/selftest", selfTestHandler(cfg))

	h := applySecurityMiddleware(mux, cfg)
	h = requestLoggingMiddleware(h)

	return &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
}

func applySecurityMiddleware(next http.Handler, cfg *config.Config) http.Handler {
	h := next
	if cfg.Security.EnableRateLimit {
		h = rateLimitMiddleware(h, cfg.Security.RateLimitPerMinute)
	}
	h = securityHeadersMiddleware(h)
	return h
}

func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

type rateLimiter struct {
	mu       sync.Mutex
	capacity float64
	tokens   float64
	last     time.Time
}

func newRateLimiter(ratePerMinute int) *rateLimiter {
	capacity := float64(ratePerMinute)
	if capacity <= 0 {
		capacity = 1
	}
	return &rateLimiter{capacity: capacity, tokens: capacity, last: time.Now()}
}

func (rl *rateLimiter) allow(now time.Time, refillPerSecond float64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	elapsed := now.Sub(rl.last).Seconds()
	if elapsed > 0 {
		rl.tokens += elapsed * refillPerSecond
		if rl.tokens > rl.capacity {
			rl.tokens = rl.capacity
		}
		rl.last = now
	}
	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

func rateLimitMiddleware(next http.Handler, ratePerMinute int) http.Handler {
	refillPerSecond := float64(ratePerMinute) / 60.0
	var clients sync.Map

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ratePerMinute <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		key := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			key = host
		}

		value, _ := clients.LoadOrStore(key, newRateLimiter(ratePerMinute))
		limiter := value.(*rateLimiter)
		if !limiter.allow(time.Now(), refillPerSecond) {
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func setupLogging(cfg config.LoggingConfig) {
	log.SetFlags(log.LstdFlags | log.LUTC)
	log.SetOutput(log.Writer())

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	logging.SetLevelFromString(level)
}

func requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.Debug("%s %s %s %s", r.RemoteAddr, r.Method, r.URL.Path, time.Since(start))
	})
}

func startServer(server *http.Server) error {
	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func showHelp() {
	fmt.Println(appName)
	fmt.Println("USAGE: q2proto-dump [options]")
	fmt.Println("OPTIONS:")
	fmt.Println("  -host             Set listen host (default 0.0.0.0)")
	fmt.Println("  -port             Set listen port (default 8080)")
	fmt.Println("  -log-level        Set log level (debug, info, warn, error)")
	fmt.Println("  -game-type        Acceptable-protocol filter (vanilla, extended, rerelease)")
	fmt.Println("  -extended-limits  Advertise extended stats/inventory limits")
	fmt.Println("  -version          Show version information")
	fmt.Println("  -help             Show this help message")
	fmt.Println("ENVIRONMENT VARIABLES: SERVER_HOST, SERVER_PORT, LOG_LEVEL, DEMO_GAME_TYPE, DEMO_EXTENDED_LIMITS, ALLOWED_ORIGINS, ENABLE_RATE_LIMIT, RATE_LIMIT_PER_MINUTE")
	fmt.Println("ENDPOINTS: GET/WS /dump (feed captured packets as binary frames), GET /selftest?connect=... (round-trip demo)")
}

func showVersion() {
	fmt.Printf("%s %s\n", appName, appVersion)
}
