package integration

import (
	"context"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/auth"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/config"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/logger"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/providers"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/endpoints"
)

// Binary servers take ports upward from here.
var portCounter int32 = 19000

// ServerConfig varies the server under test.
type ServerConfig struct {
	FallbackChain []string
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		FallbackChain: []string{"deepseek", "gemini", "google_search"},
	}
}

type ServerInstance struct {
	Server        *server.Server
	ServerURL     string
	Port          int
	Config        ServerConfig
	listener      net.Listener
	serverProcess *exec.Cmd
	cancel        context.CancelFunc
}

// StartServer starts a server against the test database, inline or from
// the binary depending on how the suite was started.
func StartServer(tc *TestContext, cfg ServerConfig) (*ServerInstance, error) {
	if tc.InlineMode {
		return startInlineServerInstance(tc, cfg)
	}
	return startBinaryServerInstance(tc, cfg)
}

func startInlineServerInstance(tc *TestContext, cfg ServerConfig) (*ServerInstance, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port

	appCfg := config.Default()
	appCfg.ProviderFallbackChain = cfg.FallbackChain
	issuer, err := auth.NewIssuer(tc.JWTSecret, appCfg.TokenTTL())
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	// No provider keys are stored, so every provider call degrades.
	s, err := server.NewServer(server.Options{
		DB:         tc.DB,
		Config:     appCfg,
		Logger:     logger.Nop(),
		Cipher:     tc.Cipher,
		Issuer:     issuer,
		KeyManager: providers.NewKeyManager(logger.Nop()),
		Clients:    providers.DefaultClients(&http.Client{Timeout: time.Second}, "test-engine"),
		Host:       "127.0.0.1",
		Port:       strconv.Itoa(port),
	})
	if err != nil {
		_ = listener.Close()
		return nil, err
	}
	endpoints.RegisterAll(s)
	go func() { _ = s.StartWithListener(listener) }()

	instance := &ServerInstance{
		Server:    s,
		ServerURL: "http://" + listener.Addr().String(),
		Port:      port,
		Config:    cfg,
		listener:  listener,
	}
	if err := awaitHealthy(instance.ServerURL, 100); err != nil {
		instance.Stop()
		return nil, err
	}
	return instance, nil
}

func startBinaryServerInstance(tc *TestContext, cfg ServerConfig) (*ServerInstance, error) {
	port := int(atomic.AddInt32(&portCounter, 1))
	portStr := strconv.Itoa(port)

	ctx, cancel := context.WithCancel(context.Background())

	// Migrations already ran in the test setup
	cmd := exec.CommandContext(ctx, tc.BinaryPath, "server", "--no-migrate", "-b", "127.0.0.1", "-p", portStr)
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+tc.DatabaseURL,
		"AIACT_DATA_KEY="+base64.StdEncoding.EncodeToString(tc.DataKey),
		"AIACT_JWT_SECRET="+string(tc.JWTSecret),
		"AIACT_PROVIDER_FALLBACK_CHAIN="+strings.Join(cfg.FallbackChain, ","),
		"AIACT_CONFIG_PATH="+os.TempDir(),
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start binary: %w", err)
	}

	instance := &ServerInstance{
		ServerURL:     fmt.Sprintf("http://127.0.0.1:%d", port),
		Port:          port,
		Config:        cfg,
		serverProcess: cmd,
		cancel:        cancel,
	}

	if err := awaitHealthy(instance.ServerURL, 300); err != nil {
		instance.Stop()
		return nil, err
	}
	return instance, nil
}

func (si *ServerInstance) Stop() {
	if si.Server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = si.Server.Shutdown(ctx)
		cancel()
	}
	if si.listener != nil {
		_ = si.listener.Close()
	}
	if si.cancel != nil {
		si.cancel()
	}
	if si.serverProcess != nil && si.serverProcess.Process != nil {
		_ = si.serverProcess.Process.Kill()
		_ = si.serverProcess.Wait()
	}
}

// awaitHealthy polls /health every 100ms until it answers 200.
func awaitHealthy(serverURL string, attempts uint) error {
	client := &http.Client{Timeout: 2 * time.Second}
	err := retry.Do(
		func() error {
			resp, err := client.Get(serverURL + "/health")
			if err != nil {
				return err
			}
			_ = resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("health returned %d", resp.StatusCode)
			}
			return nil
		},
		retry.Attempts(attempts),
		retry.Delay(100*time.Millisecond),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return fmt.Errorf("server at %s not ready: %w", serverURL, err)
	}
	return nil
}
